package users

import (
	"github.com/google/uuid"

	"github.com/fooddrop-app/fooddrop-backend/pkg/db/models"
	"github.com/fooddrop-app/fooddrop-backend/pkg/enums"
)

// UserDTO is the transport shape that omits credential material.
type UserDTO struct {
	ID              uuid.UUID      `json:"id"`
	Username        string         `json:"username"`
	Role            enums.UserRole `json:"role"`
	DisplayName     string         `json:"display_name"`
	BaseCoordinates string         `json:"base_coordinates"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username        string
	PasswordHash    string
	Role            enums.UserRole
	DisplayName     string
	BaseCoordinates string
}

// UpdateProfileDTO carries the mutable profile fields.
type UpdateProfileDTO struct {
	Username        string
	DisplayName     string
	BaseCoordinates string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:              u.ID,
		Username:        u.Username,
		Role:            u.Role,
		DisplayName:     u.DisplayName,
		BaseCoordinates: u.BaseCoordinates,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		ID:              uuid.New(),
		Username:        c.Username,
		PasswordHash:    c.PasswordHash,
		Role:            c.Role,
		DisplayName:     c.DisplayName,
		BaseCoordinates: c.BaseCoordinates,
	}
}
