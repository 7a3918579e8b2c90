package auth

import (
	"github.com/kvarga/webshop-backend/internal/users"
)

// RegisterRequest captures the payload sent to the register endpoint.
type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult contains the token and user produced by a successful login.
type LoginResult struct {
	User        *users.UserDTO
	AccessToken string
	TokenType   string
	ExpiresIn   int64
}
