package drops

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fooddrop-app/fooddrop-backend/pkg/db/models"
	"github.com/fooddrop-app/fooddrop-backend/pkg/enums"
	"github.com/fooddrop-app/fooddrop-backend/pkg/pagination"
)

// Sentinel errors surfaced by the repository. The service maps them onto the
// public error taxonomy.
var (
	ErrDropNotFound     = errors.New("drop not found")
	ErrDropNotAvailable = errors.New("drop is no longer available")
	ErrBadCursor        = errors.New("invalid feed cursor")
)

// Repository encapsulates drop and claim persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a drops repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert persists a new drop row.
func (r *Repository) Insert(ctx context.Context, drop *models.Drop) error {
	return r.db.WithContext(ctx).Create(drop).Error
}

// FindByID loads the raw drop row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Drop, error) {
	var drop models.Drop
	if err := r.db.WithContext(ctx).First(&drop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &drop, nil
}

// FindDTOByID returns the drop joined with the donor display fields.
func (r *Repository) FindDTOByID(ctx context.Context, id uuid.UUID) (DropDTO, error) {
	var record dropWithDonorRecord
	err := r.joinedQuery(ctx).
		Where("d.id = ?", id).
		Take(&record).Error
	if err != nil {
		return DropDTO{}, err
	}
	return record.toDTO(), nil
}

// ListAvailable returns one page of the public feed, newest first. The
// second return value is the cursor for the next page, blank on the last one.
func (r *Repository) ListAvailable(ctx context.Context, page pagination.Params) ([]DropDTO, string, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrBadCursor, err)
	}

	limit := pagination.LimitWithBuffer(page.Limit)
	query := r.joinedQuery(ctx).
		Where("d.state = ?", enums.DropStateAvailable)
	if cursor != nil {
		query = query.Where(
			"d.created_at < ? OR (d.created_at = ? AND d.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var records []dropWithDonorRecord
	err = query.
		Order("d.created_at DESC").
		Order("d.id DESC").
		Limit(limit).
		Scan(&records).Error
	if err != nil {
		return nil, "", err
	}

	next := ""
	if len(records) == limit {
		records = records[:limit-1]
		last := records[len(records)-1]
		next = pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return toDTOs(records), next, nil
}

// ListClaimedBy returns the drops a collector has reserved, newest claim first.
func (r *Repository) ListClaimedBy(ctx context.Context, collectorID uuid.UUID) ([]DropDTO, error) {
	var records []dropWithDonorRecord
	err := r.joinedQuery(ctx).
		Joins("JOIN claims c ON c.drop_id = d.id").
		Where("c.collector_id = ?", collectorID).
		Order("c.estimated_pickup_time DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return toDTOs(records), nil
}

// ListDonatedBy returns every drop owned by the donor regardless of state,
// left-joined with claim info so the donor can watch transitions happen.
func (r *Repository) ListDonatedBy(ctx context.Context, donorID uuid.UUID) ([]DonatedDropDTO, error) {
	var records []donatedDropRecord
	err := r.db.WithContext(ctx).
		Table("drops d").
		Select(strings.Join([]string{
			"d.id", "d.donor_id", "d.title", "d.description", "d.location", "d.photo", "d.state", "d.created_at",
			"u_donor.display_name AS donor_name",
			"u_donor.base_coordinates AS donor_coordinates",
			"c.estimated_pickup_time",
			"u_collector.display_name AS collector_name",
			"u_collector.username AS collector_username",
		}, ", ")).
		Joins("JOIN users u_donor ON u_donor.id = d.donor_id").
		Joins("LEFT JOIN claims c ON c.drop_id = d.id").
		Joins("LEFT JOIN users u_collector ON u_collector.id = c.collector_id").
		Where("d.donor_id = ?", donorID).
		Order("d.created_at DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}

	out := make([]DonatedDropDTO, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDTO())
	}
	return out, nil
}

// Claim flips an AVAILABLE drop to RESERVED and inserts the claim row as one
// atomic unit. The conditional update is the linearization point: of any set
// of concurrent claims on the same drop, exactly one sees RowsAffected == 1.
func (r *Repository) Claim(ctx context.Context, dropID, collectorID uuid.UUID, pickupAt time.Time) (*models.Claim, error) {
	claim := &models.Claim{
		ID:                  uuid.New(),
		DropID:              dropID,
		CollectorID:         collectorID,
		EstimatedPickupTime: pickupAt,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Drop{}).
			Where("id = ? AND state = ?", dropID, enums.DropStateAvailable).
			Update("state", enums.DropStateReserved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Drop{}).Where("id = ?", dropID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrDropNotFound
			}
			return ErrDropNotAvailable
		}
		return tx.Create(claim).Error
	})
	if err != nil {
		return nil, err
	}
	return claim, nil
}

// UpdateFields overwrites the mutable columns, keyed on owner and AVAILABLE
// state so a concurrent claim between check and write cannot be overwritten
// silently. Returns the number of rows actually updated.
func (r *Repository) UpdateFields(ctx context.Context, dropID, donorID uuid.UUID, input UpdateDropInput) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Drop{}).
		Where("id = ? AND donor_id = ? AND state = ?", dropID, donorID, enums.DropStateAvailable).
		Updates(map[string]any{
			"title":       input.Title,
			"description": input.Description,
			"location":    input.Location,
			"photo":       input.Photo,
		})
	return res.RowsAffected, res.Error
}

// Delete removes the drop with the same conditional-write discipline as
// UpdateFields. AVAILABLE drops cannot have claims, so no cascade is needed.
func (r *Repository) Delete(ctx context.Context, dropID, donorID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND donor_id = ? AND state = ?", dropID, donorID, enums.DropStateAvailable).
		Delete(&models.Drop{})
	return res.RowsAffected, res.Error
}

// CountClaimsFor reports how many claim rows reference the drop.
func (r *Repository) CountClaimsFor(ctx context.Context, dropID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Claim{}).
		Where("drop_id = ?", dropID).
		Count(&count).Error
	return count, err
}

func (r *Repository) joinedQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("drops d").
		Select(strings.Join([]string{
			"d.id", "d.donor_id", "d.title", "d.description", "d.location", "d.photo", "d.state", "d.created_at",
			"u.display_name AS donor_name",
			"u.base_coordinates AS donor_coordinates",
		}, ", ")).
		Joins("JOIN users u ON u.id = d.donor_id")
}

type dropWithDonorRecord struct {
	ID               uuid.UUID       `gorm:"column:id"`
	DonorID          uuid.UUID       `gorm:"column:donor_id"`
	Title            string          `gorm:"column:title"`
	Description      string          `gorm:"column:description"`
	Location         string          `gorm:"column:location"`
	Photo            sql.NullString  `gorm:"column:photo"`
	State            enums.DropState `gorm:"column:state"`
	CreatedAt        time.Time       `gorm:"column:created_at"`
	DonorName        string          `gorm:"column:donor_name"`
	DonorCoordinates string          `gorm:"column:donor_coordinates"`
}

func (r dropWithDonorRecord) toDTO() DropDTO {
	return DropDTO{
		ID:               r.ID,
		DonorID:          r.DonorID,
		Title:            r.Title,
		Description:      r.Description,
		Location:         r.Location,
		Photo:            nullStringPtr(r.Photo),
		State:            r.State,
		CreatedAt:        r.CreatedAt,
		DonorName:        r.DonorName,
		DonorCoordinates: r.DonorCoordinates,
	}
}

type donatedDropRecord struct {
	dropWithDonorRecord
	EstimatedPickupTime sql.NullTime   `gorm:"column:estimated_pickup_time"`
	CollectorName       sql.NullString `gorm:"column:collector_name"`
	CollectorUsername   sql.NullString `gorm:"column:collector_username"`
}

func (r donatedDropRecord) toDTO() DonatedDropDTO {
	return DonatedDropDTO{
		DropDTO:             r.dropWithDonorRecord.toDTO(),
		EstimatedPickupTime: nullTimePtr(r.EstimatedPickupTime),
		CollectorName:       nullStringPtr(r.CollectorName),
		CollectorUsername:   nullStringPtr(r.CollectorUsername),
	}
}

func toDTOs(records []dropWithDonorRecord) []DropDTO {
	out := make([]DropDTO, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDTO())
	}
	return out
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func nullTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	v := value.Time
	return &v
}
