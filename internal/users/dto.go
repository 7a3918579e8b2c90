package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/kvarga/webshop-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits the credential hash.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

// UpdateUserDTO carries a partial update; nil fields are left untouched.
// PasswordHash is already hashed by the caller.
type UpdateUserDTO struct {
	Name         *string
	Email        *string
	PasswordHash *string
	IsAdmin      *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		IsAdmin:      c.IsAdmin,
	}
}

func (u UpdateUserDTO) changes() map[string]any {
	changes := map[string]any{}
	if u.Name != nil {
		changes["name"] = *u.Name
	}
	if u.Email != nil {
		changes["email"] = *u.Email
	}
	if u.PasswordHash != nil {
		changes["password_hash"] = *u.PasswordHash
	}
	if u.IsAdmin != nil {
		changes["is_admin"] = *u.IsAdmin
	}
	return changes
}
