package queue

import (
	"fmt"
	"time"
)

// FormatWaitEstimate renders a human wait-time string from a queue position
// and the station's average service time, e.g. "12 minutes" or
// "1 hour 5 min".
func FormatWaitEstimate(position, avgServiceMinutes int) string {
	if position <= 0 {
		return "now"
	}

	minutes := position * avgServiceMinutes
	switch {
	case minutes == 0:
		return "now"
	case minutes == 1:
		return "1 minute"
	case minutes < 60:
		return fmt.Sprintf("%d minutes", minutes)
	}

	hours := minutes / 60
	rem := minutes % 60

	hourWord := "hours"
	if hours == 1 {
		hourWord = "hour"
	}
	if rem == 0 {
		return fmt.Sprintf("%d %s", hours, hourWord)
	}
	return fmt.Sprintf("%d %s %d min", hours, hourWord, rem)
}

// completionMetrics derives the wait and service durations recorded on the
// history snapshot. Both floor at zero; a missing servedAt attributes the
// whole span to waiting.
func completionMetrics(joinedAt time.Time, servedAt *time.Time, completedAt time.Time) (waitMinutes, serviceMinutes int) {
	if servedAt != nil {
		waitMinutes = int(servedAt.Sub(joinedAt).Minutes())
		serviceMinutes = int(completedAt.Sub(*servedAt).Minutes())
	} else {
		waitMinutes = int(completedAt.Sub(joinedAt).Minutes())
	}

	if waitMinutes < 0 {
		waitMinutes = 0
	}
	if serviceMinutes < 0 {
		serviceMinutes = 0
	}
	return waitMinutes, serviceMinutes
}
