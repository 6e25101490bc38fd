package queue

import (
	"testing"
	"time"
)

func TestFormatWaitEstimate(t *testing.T) {
	tests := []struct {
		name       string
		position   int
		avgMinutes int
		want       string
	}{
		{"next up", 0, 10, "now"},
		{"one ahead", 1, 12, "12 minutes"},
		{"single minute", 1, 1, "1 minute"},
		{"under an hour", 4, 10, "40 minutes"},
		{"exact hour", 6, 10, "1 hour"},
		{"hour and change", 13, 5, "1 hour 5 min"},
		{"plural hours", 12, 10, "2 hours"},
		{"hours and minutes", 15, 10, "2 hours 30 min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatWaitEstimate(tt.position, tt.avgMinutes); got != tt.want {
				t.Errorf("FormatWaitEstimate(%d, %d) = %q, want %q",
					tt.position, tt.avgMinutes, got, tt.want)
			}
		})
	}
}

func TestCompletionMetrics(t *testing.T) {
	t0 := time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC)

	t.Run("served and completed", func(t *testing.T) {
		served := t0.Add(6 * time.Minute)
		completed := t0.Add(14 * time.Minute)

		wait, service := completionMetrics(t0, &served, completed)
		if wait != 6 {
			t.Errorf("wait = %d, want 6", wait)
		}
		if service != 8 {
			t.Errorf("service = %d, want 8", service)
		}
	})

	t.Run("never served", func(t *testing.T) {
		completed := t0.Add(25 * time.Minute)

		wait, service := completionMetrics(t0, nil, completed)
		if wait != 25 {
			t.Errorf("wait = %d, want 25", wait)
		}
		if service != 0 {
			t.Errorf("service = %d, want 0", service)
		}
	})

	t.Run("clock skew floors at zero", func(t *testing.T) {
		served := t0.Add(-2 * time.Minute)
		completed := t0.Add(-5 * time.Minute)

		wait, service := completionMetrics(t0, &served, completed)
		if wait != 0 || service != 0 {
			t.Errorf("got wait=%d service=%d, want both 0", wait, service)
		}
	})
}
