package controllers

import (
	"context"
	"net/http"

	"github.com/fooddrop-app/fooddrop-backend/api/responses"
	pkgerrors "github.com/fooddrop-app/fooddrop-backend/pkg/errors"
	"github.com/fooddrop-app/fooddrop-backend/pkg/logger"
)

// Pinger is anything that can report liveness of a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves the liveness and readiness probes.
type HealthController struct {
	db     Pinger
	cache  Pinger
	logger *logger.Logger
}

// NewHealthController wires the probes. cache may be nil when Redis is not
// configured.
func NewHealthController(db, cache Pinger, logg *logger.Logger) *HealthController {
	return &HealthController{db: db, cache: cache, logger: logg}
}

// Live handles GET /health/live.
func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, responses.Fields{"status": "ok"})
}

// Ready handles GET /health/ready. Fails when a backing store is unreachable.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if c.db != nil {
		if err := c.db.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), c.logger, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		}
		checks["database"] = "ok"
	}

	if c.cache != nil {
		if err := c.cache.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), c.logger, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
			return
		}
		checks["redis"] = "ok"
	}

	responses.WriteSuccess(w, responses.Fields{"status": "ok", "checks": checks})
}
