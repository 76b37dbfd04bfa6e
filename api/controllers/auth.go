package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/fooddrop-app/fooddrop-backend/internal/auth"

	"github.com/fooddrop-app/fooddrop-backend/api/middleware"
	"github.com/fooddrop-app/fooddrop-backend/api/responses"
	"github.com/fooddrop-app/fooddrop-backend/api/validators"
	"github.com/fooddrop-app/fooddrop-backend/pkg/config"
	pkgerrors "github.com/fooddrop-app/fooddrop-backend/pkg/errors"
	"github.com/fooddrop-app/fooddrop-backend/pkg/logger"
)

// AuthController serves registration, login, logout and profile endpoints.
type AuthController struct {
	service authsvc.Service
	jwt     config.JWTConfig
	logger  *logger.Logger
}

// NewAuthController wires the auth endpoints.
func NewAuthController(service authsvc.Service, jwt config.JWTConfig, logg *logger.Logger) *AuthController {
	return &AuthController{service: service, jwt: jwt, logger: logg}
}

// Register handles POST /api/auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req authsvc.RegisterRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	resp, err := c.service.Register(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	c.setAuthCookie(w, resp.Token)
	responses.WriteSuccessStatus(w, http.StatusCreated, responses.Fields{
		"user":  resp.User,
		"token": resp.Token,
	})
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req authsvc.LoginRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	resp, err := c.service.Login(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	c.setAuthCookie(w, resp.Token)
	responses.WriteSuccess(w, responses.Fields{
		"user":  resp.User,
		"token": resp.Token,
	})
}

// Logout handles POST /api/auth/logout. Clears the cookie and revokes the
// server-side session when one is tracked.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Logout(r.Context(), middleware.AccessIDFromContext(r.Context())); err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	c.clearAuthCookie(w)
	responses.WriteSuccess(w, responses.Fields{"message": "Sesión cerrada."})
}

// Me handles GET /api/auth/me.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	user, err := c.service.Profile(r.Context(), userID)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, responses.Fields{"user": user})
}

// UpdateProfile handles PUT /api/auth/profile.
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	var req authsvc.UpdateProfileRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	user, err := c.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		responses.WriteError(r.Context(), c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, responses.Fields{"user": user})
}

func (c *AuthController) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.jwt.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.jwt.AccessTokenTTL() / time.Second),
		HttpOnly: true,
		Secure:   c.jwt.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c *AuthController) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.jwt.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.jwt.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// actorID resolves the authenticated user id seeded by the auth middleware.
func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "missing actor identity")
	}
	return id, nil
}
