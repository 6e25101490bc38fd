package constants

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Redis key and TTL catalogue for the scheduler.
// Pattern: carequeue:{concern}:{identifier}:{params?}

const CachePrefix = "carequeue"

// Key prefixes per concern.
const (
	KeyBoard          = CachePrefix + ":board:"     // + station-id
	KeyAnalyticsRange = CachePrefix + ":analytics:" // + scope:from:to
	KeySeqToken       = CachePrefix + ":seq:token:" // + station-id:yyyymmdd
	KeySeqQueue       = CachePrefix + ":seq:queue:" // + scope:yyyymmdd
	KeyRateLimit      = CachePrefix + ":ratelimit:" // + client-ip:category
)

// TTLs. The board is polled by kiosks every few seconds, so its cache only
// has to absorb bursts; analytics windows close at midnight and tolerate
// minutes of staleness; daily counters outlive the day they belong to so a
// late-night restart cannot reissue numbers.
const (
	TTLBoard          = 5 * time.Second
	TTLAnalyticsRange = 2 * time.Minute
	TTLDailyCounter   = 36 * time.Hour
)

const dayLayout = "20060102"

// BuildBoardKey returns the display board cache key for a station.
func BuildBoardKey(stationID uuid.UUID) string {
	return KeyBoard + stationID.String()
}

// BuildAnalyticsRangeKey returns the cache key for a completed-visit summary
// over [from, to). Scope is a station id or "all".
func BuildAnalyticsRangeKey(scope string, from, to time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s", KeyAnalyticsRange, scope,
		from.Format(time.RFC3339), to.Format(time.RFC3339))
}

// BuildTokenCounterKey returns the per-station daily token counter key.
func BuildTokenCounterKey(stationID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("%s%s:%s", KeySeqToken, stationID, day.Format(dayLayout))
}

// BuildQueueCounterKey returns the scope-wide daily queue number counter key.
func BuildQueueCounterKey(scope string, day time.Time) string {
	return fmt.Sprintf("%s%s:%s", KeySeqQueue, scope, day.Format(dayLayout))
}

// BuildRateLimitKey returns the sliding-window key for a client and category.
func BuildRateLimitKey(clientIP, category string) string {
	return fmt.Sprintf("%s%s:%s", KeyRateLimit, clientIP, category)
}
