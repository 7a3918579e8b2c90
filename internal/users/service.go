package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kvarga/webshop-backend/pkg/config"
	"github.com/kvarga/webshop-backend/pkg/db/models"
	pkgerrors "github.com/kvarga/webshop-backend/pkg/errors"
	"github.com/kvarga/webshop-backend/pkg/security"
)

const userNotFoundMessage = "User not found"

// Service exposes admin user-management rules.
type Service interface {
	List(ctx context.Context) ([]UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*UserDTO, error)
}

// UpdateUserRequest is the partial-update payload accepted by PUT /users/{id}.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	IsAdmin  *bool   `json:"is_admin"`
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateUserDTO) (*models.User, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	FindDeletedByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Restore(ctx context.Context, id uuid.UUID) error
}

type wishlistCascader interface {
	SoftDeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams groups dependencies for the user admin service.
type ServiceParams struct {
	Repo           userRepository
	Wishlists      wishlistCascader
	PasswordConfig config.PasswordConfig
}

type service struct {
	repo        userRepository
	wishlists   wishlistCascader
	passwordCfg config.PasswordConfig
}

// NewService builds a user admin service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user repository is required")
	}
	if params.Wishlists == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "wishlist cascader is required")
	}
	return &service{
		repo:        params.Repo,
		wishlists:   params.Wishlists,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	items := make([]UserDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserDTO, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	dto := UpdateUserDTO{Name: req.Name, IsAdmin: req.IsAdmin}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		taken, err := s.repo.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email uniqueness")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Validation error").
				WithDetails(map[string]string{"email": "The email has already been taken."})
		}
		dto.Email = &email
	}

	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		dto.PasswordHash = &hash
	}

	user, err := s.repo.Update(ctx, id, dto)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}
	return FromModel(user), nil
}

// Delete tombstones the user and, explicitly, their active wishlist entries.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	if err := s.wishlists.SoftDeleteAllForUser(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cascade wishlist delete")
	}
	return nil
}

func (s *service) Restore(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindDeletedByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load deleted user")
	}

	// the address may have been re-registered while this account was tombstoned
	taken, err := s.repo.EmailTaken(ctx, user.Email, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email uniqueness")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Validation error").
			WithDetails(map[string]string{"email": "The email has already been taken."})
	}

	if err := s.repo.Restore(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore user")
	}
	restored, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload restored user")
	}
	return FromModel(restored), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, userNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return user, nil
}
