package middleware

import (
	"net/http"

	"github.com/fooddrop-app/fooddrop-backend/api/responses"
	"github.com/fooddrop-app/fooddrop-backend/pkg/enums"
	pkgerrors "github.com/fooddrop-app/fooddrop-backend/pkg/errors"
	"github.com/fooddrop-app/fooddrop-backend/pkg/logger"
)

// RequireRole gates a route to one account role. The parse step keeps role
// handling on the closed enum instead of ad hoc string comparisons.
func RequireRole(role enums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actual, err := enums.ParseUserRole(RoleFromContext(r.Context()))
			if err != nil || actual != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
