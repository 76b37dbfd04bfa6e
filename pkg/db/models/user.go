package models

import (
	"time"

	"github.com/fooddrop-app/fooddrop-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity.
type User struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Username        string         `gorm:"column:username;not null;uniqueIndex:users_username_key"`
	PasswordHash    string         `gorm:"column:password_hash;not null"`
	Role            enums.UserRole `gorm:"column:role;type:text;not null"`
	DisplayName     string         `gorm:"column:display_name;not null"`
	BaseCoordinates string         `gorm:"column:base_coordinates;not null"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
