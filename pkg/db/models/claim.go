package models

import (
	"time"

	"github.com/google/uuid"
)

// Claim reserves exactly one drop for one collector. The unique index on
// drop_id backs the one-claim-per-drop invariant at the storage layer.
type Claim struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	DropID              uuid.UUID `gorm:"column:drop_id;type:uuid;not null;uniqueIndex:claims_drop_id_key"`
	CollectorID         uuid.UUID `gorm:"column:collector_id;type:uuid;not null;index:claims_collector_id_idx"`
	EstimatedPickupTime time.Time `gorm:"column:estimated_pickup_time;not null"`

	Drop      *Drop `gorm:"foreignKey:DropID;references:ID"`
	Collector *User `gorm:"foreignKey:CollectorID;references:ID"`
}
