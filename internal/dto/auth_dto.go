package dto

import (
	"github.com/google/uuid"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

// RegisterRequest is the payload for account registration in any role area.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the payload for login in any role area.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries optional profile changes.
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=3,max=30"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// UserResponse is the public projection of a user. The password hash is
// never part of it.
type UserResponse struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// NewUserResponse maps a user model to its public projection.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

// AuthResponse is returned on successful login.
type AuthResponse struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Token string      `json:"token"`
}
