package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusBadRequest},
		{CodeStateConflict, http.StatusBadRequest},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("%s: expected %d got %d", tc.code, tc.status, got)
		}
	}

	if got := MetadataFor(Code("BOGUS")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to 500, got %d", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("row not found")
	err := Wrap(CodeNotFound, cause, "drop missing")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if err.Code() != CodeNotFound {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsUnwrapsThroughFmt(t *testing.T) {
	t.Parallel()

	inner := New(CodeConflict, "already claimed")
	wrapped := fmt.Errorf("handler: %w", inner)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", typed.Code())
	}

	if As(stdErrors.New("plain")) != nil {
		t.Fatal("plain errors must not convert")
	}
	if As(nil) != nil {
		t.Fatal("nil must not convert")
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodeValidation, "validation failed").WithDetails(map[string]string{"title": "is required"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["title"] != "is required" {
		t.Fatalf("unexpected details: %#v", err.Details())
	}
}

func TestWrapNilCause(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeInternal, nil, "boom")
	if err.Unwrap() != nil {
		t.Fatal("expected nil cause")
	}
	if err.Code() != CodeInternal {
		t.Fatalf("unexpected code %s", err.Code())
	}
}
