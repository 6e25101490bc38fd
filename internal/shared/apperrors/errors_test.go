package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad priority %q", "SUPER"), KindValidation},
		{"not found", NotFound("station %s not found", "x"), KindNotFound},
		{"conflict", Conflict("already queued"), KindConflict},
		{"capacity", Capacity("station full"), KindCapacity},
		{"wrapped", fmt.Errorf("outer: %w", Conflict("inner")), KindConflict},
		{"plain", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("x"), http.StatusBadRequest},
		{NotFound("x"), http.StatusNotFound},
		{Conflict("x"), http.StatusConflict},
		{Capacity("x"), http.StatusUnprocessableEntity},
		{Internal("x", errors.New("db down")), http.StatusInternalServerError},
		{errors.New("raw"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to load entry", cause)

	if !errors.Is(err, cause) {
		t.Errorf("expected errors.Is to find the wrapped cause")
	}
	if MessageOf(err) != "failed to load entry" {
		t.Errorf("MessageOf() = %q", MessageOf(err))
	}
}
