package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/fooddrop-app/fooddrop-backend/pkg/auth"
	"github.com/fooddrop-app/fooddrop-backend/pkg/config"
	"github.com/fooddrop-app/fooddrop-backend/pkg/enums"
)

type stubChecker struct {
	live bool
	err  error
}

func (s stubChecker) HasSession(context.Context, string) (bool, error) {
	return s.live, s.err
}

func authTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "middleware-secret",
		Issuer:            "fooddrop",
		ExpirationMinutes: 10,
		CookieName:        "auth_token",
	}
}

func mintToken(t *testing.T, role enums.UserRole) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := pkgAuth.MintAccessToken(authTestConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   userID,
		Username: "ana",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return token, userID
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return envelope.Error.Code
}

func TestAuthCookie(t *testing.T) {
	t.Parallel()

	token, userID := mintToken(t, enums.UserRoleDonor)

	var seenUserID, seenRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserIDFromContext(r.Context())
		seenRole = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	handler := Auth(authTestConfig(), nil, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
	if seenUserID != userID.String() {
		t.Fatalf("expected user id %s got %s", userID, seenUserID)
	}
	if seenRole != "DONOR" {
		t.Fatalf("expected DONOR got %s", seenRole)
	}
}

func TestAuthBearerFallback(t *testing.T) {
	t.Parallel()

	token, _ := mintToken(t, enums.UserRoleCollector)
	handler := Auth(authTestConfig(), nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
}

func TestAuthMissingToken(t *testing.T) {
	t.Parallel()

	handler := Auth(authTestConfig(), nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "UNAUTHORIZED" {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestAuthGarbageToken(t *testing.T) {
	t.Parallel()

	handler := Auth(authTestConfig(), nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "not.a.jwt"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthRevokedSession(t *testing.T) {
	t.Parallel()

	token, _ := mintToken(t, enums.UserRoleDonor)
	handler := Auth(authTestConfig(), stubChecker{live: false}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	token, _ := mintToken(t, enums.UserRoleCollector)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	donorOnly := Auth(authTestConfig(), nil, nil)(RequireRole(enums.UserRoleDonor, nil)(next))
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	rec := httptest.NewRecorder()
	donorOnly.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}

	collectorOnly := Auth(authTestConfig(), nil, nil)(RequireRole(enums.UserRoleCollector, nil)(next))
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	rec = httptest.NewRecorder()
	collectorOnly.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
}
