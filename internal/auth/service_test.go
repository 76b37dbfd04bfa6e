package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fooddrop-app/fooddrop-backend/internal/users"
	pkgauth "github.com/fooddrop-app/fooddrop-backend/pkg/auth"
	"github.com/fooddrop-app/fooddrop-backend/pkg/config"
	"github.com/fooddrop-app/fooddrop-backend/pkg/db/models"
	"github.com/fooddrop-app/fooddrop-backend/pkg/enums"
	pkgerrors "github.com/fooddrop-app/fooddrop-backend/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "fooddrop",
		ExpirationMinutes: 60,
		CookieName:        "auth_token",
	}
}

func testPasswordConfig() config.PasswordConfig {
	// Minimal argon cost keeps the suite fast.
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

type recordingTracker struct {
	tracked []string
	revoked []string
}

func (r *recordingTracker) Track(_ context.Context, accessID string) error {
	r.tracked = append(r.tracked, accessID)
	return nil
}

func (r *recordingTracker) Revoke(_ context.Context, accessID string) error {
	r.revoked = append(r.revoked, accessID)
	return nil
}

func newTestService(t *testing.T, tracker sessionTracker) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:auth_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	svc, err := NewService(ServiceParams{
		UserRepo: users.NewRepository(db),
		JWT:      testJWTConfig(),
		Password: testPasswordConfig(),
		Sessions: tracker,
	})
	require.NoError(t, err)
	return svc, db
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code())
}

func registerRequest(username string) RegisterRequest {
	return RegisterRequest{
		Username:        username,
		Password:        "super-secreta-123",
		Role:            "DONOR",
		DisplayName:     "Panadería Centro",
		BaseCoordinates: "19.4326,-99.1332",
	}
}

func TestRegisterIssuesUsableToken(t *testing.T) {
	t.Parallel()

	tracker := &recordingTracker{}
	svc, db := newTestService(t, tracker)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest("panaderia"))
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	require.Equal(t, enums.UserRoleDonor, resp.User.Role)
	require.NotEmpty(t, resp.Token)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.Equal(t, "panaderia", claims.Username)
	require.Len(t, tracker.tracked, 1)
	require.Equal(t, claims.ID, tracker.tracked[0])

	// The stored hash never matches the raw password.
	var stored models.User
	require.NoError(t, db.First(&stored, "username = ?", "panaderia").Error)
	require.NotEqual(t, "super-secreta-123", stored.PasswordHash)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("repetido"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("repetido"))
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestRegisterInvalidInput(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	badRole := registerRequest("u1")
	badRole.Role = "ADMIN"
	_, err := svc.Register(ctx, badRole)
	requireCode(t, err, pkgerrors.CodeValidation)

	badCoords := registerRequest("u2")
	badCoords.BaseCoordinates = "center of town"
	_, err = svc.Register(ctx, badCoords)
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("ana"))
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Username: "ana", Password: "super-secreta-123"})
	require.NoError(t, err)
	require.Equal(t, "ana", resp.User.Username)
	require.NotEmpty(t, resp.Token)

	_, err = svc.Login(ctx, LoginRequest{Username: "ana", Password: "incorrecta"})
	requireCode(t, err, pkgerrors.CodeUnauthorized)

	_, err = svc.Login(ctx, LoginRequest{Username: "nadie", Password: "super-secreta-123"})
	requireCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLogoutRevokesSession(t *testing.T) {
	t.Parallel()

	tracker := &recordingTracker{}
	svc, _ := newTestService(t, tracker)
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerRequest("salida"))
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))
	require.Equal(t, []string{claims.ID}, tracker.revoked)
}

func TestLogoutWithoutTrackerIsNoop(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	require.NoError(t, svc.Logout(context.Background(), "whatever"))
}

func TestProfileAndUpdate(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.Register(ctx, registerRequest("original"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, registerRequest("ocupado"))
	require.NoError(t, err)

	user, err := svc.Profile(ctx, first.User.ID)
	require.NoError(t, err)
	require.Equal(t, "original", user.Username)

	_, err = svc.Profile(ctx, uuid.New())
	requireCode(t, err, pkgerrors.CodeNotFound)

	updated, err := svc.UpdateProfile(ctx, first.User.ID, UpdateProfileRequest{
		Username:        "renombrado",
		DisplayName:     "Nuevo Nombre",
		BaseCoordinates: "20.67,-103.35",
	})
	require.NoError(t, err)
	require.Equal(t, "renombrado", updated.Username)
	require.Equal(t, "Nuevo Nombre", updated.DisplayName)
	require.Equal(t, "20.67,-103.35", updated.BaseCoordinates)

	_, err = svc.UpdateProfile(ctx, first.User.ID, UpdateProfileRequest{
		Username:        "ocupado",
		DisplayName:     "Nuevo Nombre",
		BaseCoordinates: "20.67,-103.35",
	})
	requireCode(t, err, pkgerrors.CodeConflict)

	_, err = svc.UpdateProfile(ctx, first.User.ID, UpdateProfileRequest{
		Username:        "renombrado",
		DisplayName:     "Nuevo Nombre",
		BaseCoordinates: "no es un punto",
	})
	requireCode(t, err, pkgerrors.CodeValidation)
}
