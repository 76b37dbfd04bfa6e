package drops

import (
	"time"

	"github.com/google/uuid"

	"github.com/fooddrop-app/fooddrop-backend/pkg/enums"
)

// CreateDropInput carries the donor-supplied fields for a new drop. The donor
// identity always comes from the authenticated session, never the payload.
type CreateDropInput struct {
	Title       string
	Description string
	Location    string
	Photo       *string
}

// UpdateDropInput carries the mutable fields of an existing drop.
type UpdateDropInput struct {
	Title       string
	Description string
	Location    string
	Photo       *string
}

// DropDTO is a drop joined with the donor's public display fields, the shape
// the feed and dashboards consume directly.
type DropDTO struct {
	ID               uuid.UUID       `json:"id"`
	DonorID          uuid.UUID       `json:"donor_id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Location         string          `json:"location"`
	Photo            *string         `json:"photo,omitempty"`
	State            enums.DropState `json:"state"`
	CreatedAt        time.Time       `json:"created_at"`
	DonorName        string          `json:"donor_name"`
	DonorCoordinates string          `json:"donor_coordinates"`
}

// DonatedDropDTO augments a donor's drop with claim info when one exists.
// The claim fields stay null while the drop is unclaimed.
type DonatedDropDTO struct {
	DropDTO
	EstimatedPickupTime *time.Time `json:"estimated_pickup_time,omitempty"`
	CollectorName       *string    `json:"collector_name,omitempty"`
	CollectorUsername   *string    `json:"collector_username,omitempty"`
}

// ClaimDTO is the reservation record returned to the winning collector.
type ClaimDTO struct {
	ID                  uuid.UUID `json:"id"`
	DropID              uuid.UUID `json:"drop_id"`
	CollectorID         uuid.UUID `json:"collector_id"`
	EstimatedPickupTime time.Time `json:"estimated_pickup_time"`
}
