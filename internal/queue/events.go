package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LifecycleEvent is emitted after every committed entry transition. Consumed
// by the audit stream; delivery is best-effort and never blocks the
// operation that produced it.
type LifecycleEvent struct {
	EntryID     uuid.UUID `json:"entry_id"`
	StationID   uuid.UUID `json:"station_id"`
	PatientID   uuid.UUID `json:"patient_id"`
	QueueNumber string    `json:"queue_number"`
	From        Status    `json:"from"`
	To          Status    `json:"to"`
	ActorID     uuid.UUID `json:"actor_id"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher pushes lifecycle events to the audit stream.
type EventPublisher interface {
	PublishLifecycleEvent(ctx context.Context, event LifecycleEvent)
}

// NoopPublisher drops events. Used when the event stream is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishLifecycleEvent(context.Context, LifecycleEvent) {}
