package models

import (
	"time"

	"github.com/fooddrop-app/fooddrop-backend/pkg/enums"
	"github.com/google/uuid"
)

// Drop is a donation offer owned by its donor. donor_id, created_at and id
// are immutable after insert; state only moves AVAILABLE -> RESERVED.
type Drop struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	DonorID     uuid.UUID       `gorm:"column:donor_id;type:uuid;not null;index:drops_donor_id_idx"`
	Title       string          `gorm:"column:title;not null"`
	Description string          `gorm:"column:description;not null;default:''"`
	Location    string          `gorm:"column:location;not null"`
	Photo       *string         `gorm:"column:photo"`
	State       enums.DropState `gorm:"column:state;type:text;not null;index:drops_state_idx"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`

	Donor *User `gorm:"foreignKey:DonorID;references:ID"`
}
