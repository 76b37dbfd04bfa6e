package drops

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fooddrop-app/fooddrop-backend/internal/users"
	"github.com/fooddrop-app/fooddrop-backend/pkg/db/models"
	"github.com/fooddrop-app/fooddrop-backend/pkg/enums"
	pkgerrors "github.com/fooddrop-app/fooddrop-backend/pkg/errors"
	"github.com/fooddrop-app/fooddrop-backend/pkg/geo"
	"github.com/fooddrop-app/fooddrop-backend/pkg/pagination"
)

// Public messages shipped to the Spanish-language frontend.
const (
	msgDropNotFound       = "Donación no encontrada."
	msgDropNoLongerAvail  = "Esta donación ya no está disponible."
	msgMissingDropFields  = "Faltan campos obligatorios para el Drop."
	msgNotYourDropEdit    = "No tienes permiso para editar esta donación."
	msgNotYourDropDelete  = "No tienes permiso para eliminar esta donación."
	msgEditOnlyAvailable  = "Solo se pueden editar donaciones disponibles."
	msgDeleteOnlyAvail    = "No puedes eliminar una donación que ya está reservada o entregada."
	msgInvalidCoordinates = "Las coordenadas no son válidas."
)

// Service owns the donation lifecycle: creation, discovery, the atomic claim
// transition, and owner-gated edits/deletes.
type Service interface {
	Create(ctx context.Context, donorID uuid.UUID, input CreateDropInput) (DropDTO, error)
	ListAvailable(ctx context.Context, page pagination.Params) ([]DropDTO, string, error)
	Claim(ctx context.Context, dropID, collectorID uuid.UUID) (ClaimDTO, error)
	ListClaimedBy(ctx context.Context, collectorID uuid.UUID) ([]DropDTO, error)
	ListDonatedBy(ctx context.Context, donorID uuid.UUID) ([]DonatedDropDTO, error)
	Update(ctx context.Context, dropID, donorID uuid.UUID, input UpdateDropInput) error
	Delete(ctx context.Context, dropID, donorID uuid.UUID) error
}

// ServiceParams groups dependencies for the drops service.
type ServiceParams struct {
	DropRepo *Repository
	UserRepo *users.Repository
}

type service struct {
	drops *Repository
	users *users.Repository
}

// NewService builds a drops service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DropRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "drop repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{
		drops: params.DropRepo,
		users: params.UserRepo,
	}, nil
}

// Create inserts a new AVAILABLE drop owned by the authenticated donor and
// returns it joined with the donor display fields.
func (s *service) Create(ctx context.Context, donorID uuid.UUID, input CreateDropInput) (DropDTO, error) {
	if err := validateDropInput(input.Title, input.Location); err != nil {
		return DropDTO{}, err
	}
	if donorID == uuid.Nil {
		return DropDTO{}, pkgerrors.New(pkgerrors.CodeValidation, msgMissingDropFields)
	}

	// The auth middleware already resolved the actor; this re-check guards
	// against tokens that outlive their account.
	if _, err := s.users.FindByID(ctx, donorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DropDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "donante no encontrado")
		}
		return DropDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load donor")
	}

	drop := &models.Drop{
		ID:          uuid.New(),
		DonorID:     donorID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Location:    strings.TrimSpace(input.Location),
		Photo:       input.Photo,
		State:       enums.DropStateAvailable,
	}
	if err := s.drops.Insert(ctx, drop); err != nil {
		return DropDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert drop")
	}

	dto, err := s.drops.FindDTOByID(ctx, drop.ID)
	if err != nil {
		return DropDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load created drop")
	}
	return dto, nil
}

// ListAvailable returns one page of the public feed plus the next cursor.
func (s *service) ListAvailable(ctx context.Context, page pagination.Params) ([]DropDTO, string, error) {
	dtos, next, err := s.drops.ListAvailable(ctx, page)
	if err != nil {
		if errors.Is(err, ErrBadCursor) {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "el cursor de paginación no es válido")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list available drops")
	}
	return dtos, next, nil
}

// Claim reserves the drop for the collector. Of any set of concurrent claims
// on one drop, exactly one succeeds; the rest observe a conflict.
func (s *service) Claim(ctx context.Context, dropID, collectorID uuid.UUID) (ClaimDTO, error) {
	if dropID == uuid.Nil || collectorID == uuid.Nil {
		return ClaimDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "se requiere el ID del recolector")
	}

	claim, err := s.drops.Claim(ctx, dropID, collectorID, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, ErrDropNotFound):
			return ClaimDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgDropNotFound)
		case errors.Is(err, ErrDropNotAvailable):
			return ClaimDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgDropNoLongerAvail)
		default:
			return ClaimDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "claim drop")
		}
	}

	return ClaimDTO{
		ID:                  claim.ID,
		DropID:              claim.DropID,
		CollectorID:         claim.CollectorID,
		EstimatedPickupTime: claim.EstimatedPickupTime,
	}, nil
}

// ListClaimedBy returns the drops reserved by the collector.
func (s *service) ListClaimedBy(ctx context.Context, collectorID uuid.UUID) ([]DropDTO, error) {
	dtos, err := s.drops.ListClaimedBy(ctx, collectorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list claimed drops")
	}
	return dtos, nil
}

// ListDonatedBy returns the donor's drops with claim info attached.
func (s *service) ListDonatedBy(ctx context.Context, donorID uuid.UUID) ([]DonatedDropDTO, error) {
	dtos, err := s.drops.ListDonatedBy(ctx, donorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list donated drops")
	}
	return dtos, nil
}

// Update overwrites the mutable fields while the drop is still AVAILABLE and
// owned by the caller. Preconditions are checked in order so each failure is
// reported distinctly; the final write re-checks owner and state so a claim
// racing the edit surfaces as a conflict instead of a silent overwrite.
func (s *service) Update(ctx context.Context, dropID, donorID uuid.UUID, input UpdateDropInput) error {
	if err := validateDropInput(input.Title, input.Location); err != nil {
		return err
	}
	if err := s.checkOwnedAvailable(ctx, dropID, donorID, msgNotYourDropEdit, msgEditOnlyAvailable); err != nil {
		return err
	}

	rows, err := s.drops.UpdateFields(ctx, dropID, donorID, input)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update drop")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, msgEditOnlyAvailable)
	}
	return nil
}

// Delete removes the drop under the same ordered preconditions as Update.
func (s *service) Delete(ctx context.Context, dropID, donorID uuid.UUID) error {
	if err := s.checkOwnedAvailable(ctx, dropID, donorID, msgNotYourDropDelete, msgDeleteOnlyAvail); err != nil {
		return err
	}

	rows, err := s.drops.Delete(ctx, dropID, donorID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete drop")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, msgDeleteOnlyAvail)
	}
	return nil
}

func (s *service) checkOwnedAvailable(ctx context.Context, dropID, donorID uuid.UUID, forbiddenMsg, stateMsg string) error {
	drop, err := s.drops.FindByID(ctx, dropID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgDropNotFound)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load drop")
	}
	if drop.DonorID != donorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, forbiddenMsg)
	}
	if drop.State != enums.DropStateAvailable {
		return pkgerrors.New(pkgerrors.CodeStateConflict, stateMsg)
	}
	return nil
}

func validateDropInput(title, location string) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(location) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, msgMissingDropFields)
	}
	if !geo.IsValid(location) {
		return pkgerrors.New(pkgerrors.CodeValidation, msgInvalidCoordinates)
	}
	return nil
}
