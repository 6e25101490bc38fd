package sequence

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("parse uuid %q: %v", s, err)
	}
	return id
}

func TestFormatQueueNumber(t *testing.T) {
	day := time.Date(2025, 1, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		n    int
		want string
	}{
		{"first of day", 1, "Q-20250114-0001"},
		{"mid morning", 42, "Q-20250114-0042"},
		{"four digits", 9999, "Q-20250114-9999"},
		{"overflow keeps digits", 10001, "Q-20250114-10001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatQueueNumber(day, tt.n); got != tt.want {
				t.Errorf("FormatQueueNumber(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestFormatToken(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		n        int
		padWidth int
		want     string
	}{
		{"consultation token", "CON", 15, 3, "CON-015"},
		{"single digit", "LAB", 7, 3, "LAB-007"},
		{"wider than pad", "PHA", 1234, 3, "PHA-1234"},
		{"pad width four", "XRAY", 9, 4, "XRAY-0009"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatToken(tt.code, tt.n, tt.padWidth); got != tt.want {
				t.Errorf("FormatToken(%q, %d, %d) = %q, want %q",
					tt.code, tt.n, tt.padWidth, got, tt.want)
			}
		})
	}
}

func TestTokenKeyIncludesStationAndDay(t *testing.T) {
	day := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)
	other := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	id := mustUUID(t, "7b7a2f3e-9d71-4a40-8f9e-2f1f6a3f9a01")

	k1 := tokenKey(id, day)
	k2 := tokenKey(id, other)
	if k1 == k2 {
		t.Errorf("keys for different days must differ, both %q", k1)
	}

	want := "carequeue:seq:token:7b7a2f3e-9d71-4a40-8f9e-2f1f6a3f9a01:20250114"
	if k1 != want {
		t.Errorf("tokenKey = %q, want %q", k1, want)
	}
}
