package sequence

import (
	"context"
	"fmt"
	"time"

	"carequeue/internal/shared/constants"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Allocator issues monotonically increasing per-station token numbers and
// globally unique queue-entry numbers, scoped per calendar day. Every
// allocation is a single Redis INCR: an atomic increment-or-create, never a
// read-then-write, so two operators hitting the same station at the same
// moment can never receive the same number.
type Allocator interface {
	// NextToken returns the next token number for a station today.
	NextToken(ctx context.Context, stationID uuid.UUID) (int, error)
	// NextQueueNumber returns the next formatted global queue number for
	// the given scope today (e.g. Q-20250114-0042).
	NextQueueNumber(ctx context.Context, scope string) (string, error)
	// CurrentToken reads the last issued token for a station today without
	// consuming one. Returns 0 when none have been issued.
	CurrentToken(ctx context.Context, stationID uuid.UUID) (int, error)
	// ResetStationToken removes today's counter for one station so token
	// numbering restarts at 1.
	ResetStationToken(ctx context.Context, stationID uuid.UUID) error
}

type allocator struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewAllocator creates a Redis-backed sequence allocator. Keys carry a TTL
// longer than a day so stale counters expire on their own after rollover.
func NewAllocator(client *redis.Client, counterTTL time.Duration) Allocator {
	return &allocator{
		client: client,
		ttl:    counterTTL,
		now:    time.Now,
	}
}

func (a *allocator) NextToken(ctx context.Context, stationID uuid.UUID) (int, error) {
	key := tokenKey(stationID, a.now())

	n, err := a.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate token for station %s: %w", stationID, err)
	}

	// First allocation of the day creates the key; stamp its expiry.
	if n == 1 {
		a.client.Expire(ctx, key, a.ttl)
	}

	return int(n), nil
}

func (a *allocator) NextQueueNumber(ctx context.Context, scope string) (string, error) {
	day := a.now()
	key := queueNumberKey(scope, day)

	n, err := a.client.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("failed to allocate queue number for scope %s: %w", scope, err)
	}

	if n == 1 {
		a.client.Expire(ctx, key, a.ttl)
	}

	return FormatQueueNumber(day, int(n)), nil
}

func (a *allocator) CurrentToken(ctx context.Context, stationID uuid.UUID) (int, error) {
	key := tokenKey(stationID, a.now())

	n, err := a.client.Get(ctx, key).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read token counter for station %s: %w", stationID, err)
	}

	return n, nil
}

func (a *allocator) ResetStationToken(ctx context.Context, stationID uuid.UUID) error {
	key := tokenKey(stationID, a.now())
	if err := a.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to reset token counter for station %s: %w", stationID, err)
	}
	return nil
}

func tokenKey(stationID uuid.UUID, day time.Time) string {
	return constants.BuildTokenCounterKey(stationID, day)
}

func queueNumberKey(scope string, day time.Time) string {
	return constants.BuildQueueCounterKey(scope, day)
}
