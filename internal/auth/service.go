package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fooddrop-app/fooddrop-backend/internal/users"
	"github.com/fooddrop-app/fooddrop-backend/pkg/auth"
	"github.com/fooddrop-app/fooddrop-backend/pkg/config"
	"github.com/fooddrop-app/fooddrop-backend/pkg/db"
	"github.com/fooddrop-app/fooddrop-backend/pkg/db/models"
	"github.com/fooddrop-app/fooddrop-backend/pkg/enums"
	pkgerrors "github.com/fooddrop-app/fooddrop-backend/pkg/errors"
	"github.com/fooddrop-app/fooddrop-backend/pkg/geo"
	"github.com/fooddrop-app/fooddrop-backend/pkg/security"
)

const (
	msgUsernameTaken      = "El nombre de usuario ya está registrado."
	msgInvalidCredentials = "Credenciales inválidas."
	msgUserNotFound       = "Usuario no encontrado."
	msgInvalidRole        = "El rol debe ser DONOR o COLLECTOR."
	msgInvalidCoordinates = "Las coordenadas no son válidas."
)

// usernameConstraint matches the unique index on users.username.
const usernameConstraint = "users_username_key"

// sessionTracker is the session-manager surface used here. A nil tracker
// disables revocation, so tokens remain valid until they expire.
type sessionTracker interface {
	Track(ctx context.Context, accessID string) error
	Revoke(ctx context.Context, accessID string) error
}

// Service handles account registration, credential login, logout and profile
// maintenance.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)
	Logout(ctx context.Context, accessID string) error
	Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error)
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	UserRepo *users.Repository
	JWT      config.JWTConfig
	Password config.PasswordConfig
	Sessions sessionTracker
	Now      func() time.Time
}

type service struct {
	users    *users.Repository
	jwt      config.JWTConfig
	password config.PasswordConfig
	sessions sessionTracker
	now      func() time.Time
}

// NewService builds the auth service. Sessions may be nil when Redis is not
// configured.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.JWT.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt secret is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:    params.UserRepo,
		jwt:      params.JWT,
		password: params.Password,
		sessions: params.Sessions,
		now:      now,
	}, nil
}

// Register creates the account, hashes the password and issues the first
// token in one step so signup logs the user straight in.
func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	role, err := enums.ParseUserRole(req.Role)
	if err != nil {
		return AuthResponse{}, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidRole)
	}
	if !geo.IsValid(req.BaseCoordinates) {
		return AuthResponse{}, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidCoordinates)
	}

	hash, err := security.HashPassword(req.Password, s.password)
	if err != nil {
		return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Username:        strings.TrimSpace(req.Username),
		PasswordHash:    hash,
		Role:            role,
		DisplayName:     strings.TrimSpace(req.DisplayName),
		BaseCoordinates: strings.TrimSpace(req.BaseCoordinates),
	})
	if err != nil {
		if db.IsUniqueViolation(err, usernameConstraint) {
			return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgUsernameTaken)
		}
		return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.issueToken(ctx, user)
}

// Login verifies the credential pair. Unknown username and wrong password are
// indistinguishable to the caller.
func (s *service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, msgInvalidCredentials)
		}
		return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return AuthResponse{}, pkgerrors.New(pkgerrors.CodeUnauthorized, msgInvalidCredentials)
	}

	return s.issueToken(ctx, user)
}

// Logout revokes the session for the access id. A no-op when session
// tracking is disabled.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// Profile returns the authenticated user's public shape.
func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msgUserNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return users.FromModel(user), nil
}

// UpdateProfile overwrites username, display name and base coordinates.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error) {
	if !geo.IsValid(req.BaseCoordinates) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgInvalidCoordinates)
	}

	username := strings.TrimSpace(req.Username)
	taken, err := s.users.UsernameTakenByOther(ctx, username, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, msgUsernameTaken)
	}

	err = s.users.UpdateProfile(ctx, userID, users.UpdateProfileDTO{
		Username:        username,
		DisplayName:     strings.TrimSpace(req.DisplayName),
		BaseCoordinates: strings.TrimSpace(req.BaseCoordinates),
	})
	if err != nil {
		// The pre-check races with concurrent registrations; the unique
		// index is authoritative.
		if db.IsUniqueViolation(err, usernameConstraint) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, msgUsernameTaken)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}

	return s.Profile(ctx, userID)
}

func (s *service) issueToken(ctx context.Context, user *models.User) (AuthResponse, error) {
	jti := uuid.NewString()
	token, err := auth.MintAccessToken(s.jwt, s.now().UTC(), auth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		JTI:      jti,
	})
	if err != nil {
		return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	if s.sessions != nil {
		if err := s.sessions.Track(ctx, jti); err != nil {
			return AuthResponse{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "track session")
		}
	}

	return AuthResponse{User: users.FromModel(user), Token: token}, nil
}
