package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fooddrop-app/fooddrop-backend/api/responses"
	"github.com/fooddrop-app/fooddrop-backend/api/validators"
	"github.com/fooddrop-app/fooddrop-backend/internal/drops"
	pkgerrors "github.com/fooddrop-app/fooddrop-backend/pkg/errors"
	"github.com/fooddrop-app/fooddrop-backend/pkg/logger"
	"github.com/fooddrop-app/fooddrop-backend/pkg/pagination"
)

// dropRequest is the shared create/update payload shape.
type dropRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=120"`
	Description string  `json:"description" validate:"max=2000"`
	Location    string  `json:"location" validate:"required"`
	Photo       *string `json:"photo" validate:"omitempty,max=500"`
}

// DropsController serves the donation lifecycle endpoints.
type DropsController struct {
	service drops.Service
	logger  *logger.Logger
}

// NewDropsController wires the drops endpoints.
func NewDropsController(service drops.Service, logg *logger.Logger) *DropsController {
	return &DropsController{service: service, logger: logg}
}

// List handles GET /api/food-drops/available, the public feed.
// Supports optional limit and cursor query params for keyset paging.
func (c *DropsController) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			responses.WriteError(r.Context(), c.logger, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "el límite debe ser un número"))
			return
		}
		page.Limit = limit
	}

	dtos, next, err := c.service.ListAvailable(r.Context(), page)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	fields := responses.Fields{"drops": dtos}
	if next != "" {
		fields["next_cursor"] = next
	}
	responses.WriteSuccess(w, fields)
}

// Create handles POST /api/food-drops. Donor only.
func (c *DropsController) Create(w http.ResponseWriter, r *http.Request) {
	donorID, err := actorID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	var req dropRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	dto, err := c.service.Create(r.Context(), donorID, drops.CreateDropInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Photo:       req.Photo,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	responses.WriteSuccessStatus(w, http.StatusCreated, responses.Fields{"drop": dto})
}

// Update handles PUT /api/food-drops/{dropID}. Owner only, AVAILABLE only.
func (c *DropsController) Update(w http.ResponseWriter, r *http.Request) {
	donorID, err := actorID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}
	dropID, err := dropIDParam(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	var req dropRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	err = c.service.Update(r.Context(), dropID, donorID, drops.UpdateDropInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Photo:       req.Photo,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, responses.Fields{"message": "Donación actualizada."})
}

// Delete handles DELETE /api/food-drops/{dropID}. Owner only, AVAILABLE only.
func (c *DropsController) Delete(w http.ResponseWriter, r *http.Request) {
	donorID, err := actorID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}
	dropID, err := dropIDParam(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	if err := c.service.Delete(r.Context(), dropID, donorID); err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, responses.Fields{"message": "Donación eliminada."})
}

// Claim handles POST /api/food-drops/{dropID}/claim. Collector only.
func (c *DropsController) Claim(w http.ResponseWriter, r *http.Request) {
	collectorID, err := actorID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}
	dropID, err := dropIDParam(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	claim, err := c.service.Claim(r.Context(), dropID, collectorID)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	responses.WriteSuccessStatus(w, http.StatusCreated, responses.Fields{"claim": claim})
}

// Claimed handles GET /api/food-drops/claimed/{userID}, the collector
// dashboard. The path id must be the caller's own.
func (c *DropsController) Claimed(w http.ResponseWriter, r *http.Request) {
	collectorID, err := ownUserIDParam(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	dtos, err := c.service.ListClaimedBy(r.Context(), collectorID)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, responses.Fields{"drops": dtos})
}

// Donated handles GET /api/food-drops/donated/{userID}, the donor dashboard.
// The path id must be the caller's own.
func (c *DropsController) Donated(w http.ResponseWriter, r *http.Request) {
	donorID, err := ownUserIDParam(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	dtos, err := c.service.ListDonatedBy(r.Context(), donorID)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, responses.Fields{"drops": dtos})
}

// ownUserIDParam parses the {userID} path segment and refuses ids that do
// not belong to the authenticated caller.
func ownUserIDParam(r *http.Request) (uuid.UUID, error) {
	actor, err := actorID(r)
	if err != nil {
		return uuid.Nil, err
	}
	requested, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "el ID de usuario no es válido")
	}
	if requested != actor {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "No puedes consultar los drops de otro usuario.")
	}
	return requested, nil
}

func dropIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "dropID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "el ID de la donación no es válido")
	}
	return id, nil
}
