package auth

import (
	"github.com/fooddrop-app/fooddrop-backend/internal/users"
)

// RegisterRequest is the signup payload. Role is fixed at registration and
// never changes afterwards.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=40"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	Role            string `json:"role" validate:"required,oneof=DONOR COLLECTOR"`
	DisplayName     string `json:"display_name" validate:"required,min=2,max=80"`
	BaseCoordinates string `json:"base_coordinates" validate:"required"`
}

// LoginRequest carries the credential pair.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries the mutable profile fields. Password and role
// are deliberately absent.
type UpdateProfileRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=40"`
	DisplayName     string `json:"display_name" validate:"required,min=2,max=80"`
	BaseCoordinates string `json:"base_coordinates" validate:"required"`
}

// AuthResponse is returned by register and login. The token also travels in
// an HttpOnly cookie; the body copy exists for non-browser clients.
type AuthResponse struct {
	User  *users.UserDTO `json:"user"`
	Token string         `json:"token"`
}
