package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/fooddrop-app/fooddrop-backend/pkg/errors"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteSuccess(rec, Fields{"drops": []string{}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != true {
		t.Fatalf("expected success true, got %#v", body)
	}
	if _, ok := body["drops"]; !ok {
		t.Fatal("expected drops field")
	}
}

func TestWriteErrorBusinessMessagePassesThrough(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeConflict, "Esta donación ya no está disponible.")
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if jsonErr := json.Unmarshal(rec.Body.Bytes(), &body); jsonErr != nil {
		t.Fatalf("decode: %v", jsonErr)
	}
	if body.Success {
		t.Fatal("expected success false")
	}
	if body.Error.Code != "CONFLICT" {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Message != "Esta donación ya no está disponible." {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
}

func TestWriteErrorInternalHidesDetail(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("pq: connection reset"), "query drops")
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "connection reset") || strings.Contains(body, "query drops") {
		t.Fatalf("internal detail leaked: %s", body)
	}
}

func TestWriteErrorUntypedBecomesInternal(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, errors.New("boom"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}

func TestWriteErrorValidationDetails(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"title": "is required"})
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	var body struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if jsonErr := json.Unmarshal(rec.Body.Bytes(), &body); jsonErr != nil {
		t.Fatalf("decode: %v", jsonErr)
	}
	if body.Error.Details["title"] != "is required" {
		t.Fatalf("expected details to pass through, got %#v", body.Error.Details)
	}
}
