package sequence

import (
	"fmt"
	"time"
)

// FormatQueueNumber renders a global queue number like Q-20250114-0042.
// The numeric part is zero padded to four digits but grows past 9999.
func FormatQueueNumber(day time.Time, n int) string {
	return fmt.Sprintf("Q-%s-%04d", day.Format("20060102"), n)
}

// FormatToken renders a per-station display token like CON-015. The pad
// width is configurable; numbers wider than the pad keep all their digits.
func FormatToken(stationCode string, n, padWidth int) string {
	return fmt.Sprintf("%s-%0*d", stationCode, padWidth, n)
}
