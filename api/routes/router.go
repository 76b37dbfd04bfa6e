package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fooddrop-app/fooddrop-backend/api/controllers"
	"github.com/fooddrop-app/fooddrop-backend/api/middleware"
	"github.com/fooddrop-app/fooddrop-backend/api/responses"
	"github.com/fooddrop-app/fooddrop-backend/pkg/auth/session"
	"github.com/fooddrop-app/fooddrop-backend/pkg/config"
	"github.com/fooddrop-app/fooddrop-backend/pkg/enums"
	pkgerrors "github.com/fooddrop-app/fooddrop-backend/pkg/errors"
	"github.com/fooddrop-app/fooddrop-backend/pkg/logger"
	"github.com/fooddrop-app/fooddrop-backend/pkg/metrics"
)

// RouterParams groups everything the HTTP surface depends on. Sessions and
// Registry may be nil; the router degrades gracefully without them.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	Auth     *controllers.AuthController
	Drops    *controllers.DropsController
	Health   *controllers.HealthController
	Sessions session.AccessSessionChecker
	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry
}

// New assembles the full route tree with its middleware stack.
func New(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	if params.Metrics != nil {
		r.Use(middleware.Metrics(params.Metrics))
	}
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recoverer(logg))

	r.Get("/health/live", params.Health.Live)
	r.Get("/health/ready", params.Health.Ready)

	if params.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.Registry, promhttp.HandlerOpts{}))
	}

	requireAuth := middleware.Auth(cfg.JWT, params.Sessions, logg)
	requireDonor := middleware.RequireRole(enums.UserRoleDonor, logg)
	requireCollector := middleware.RequireRole(enums.UserRoleCollector, logg)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", params.Auth.Register)
			r.Post("/login", params.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", params.Auth.Logout)
				r.Get("/me", params.Auth.Me)
				r.Put("/profile", params.Auth.UpdateProfile)
			})
		})

		r.Route("/food-drops", func(r chi.Router) {
			r.Get("/available", params.Drops.List)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/claimed/{userID}", params.Drops.Claimed)
				r.Get("/donated/{userID}", params.Drops.Donated)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireDonor)
				r.Post("/", params.Drops.Create)
				r.Put("/{dropID}", params.Drops.Update)
				r.Delete("/{dropID}", params.Drops.Delete)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireCollector)
				r.Post("/{dropID}/claim", params.Drops.Claim)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "ruta no encontrada"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		responses.WriteError(req.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "método no permitido"))
	})

	return r
}
