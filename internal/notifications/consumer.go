package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"carequeue/internal/queue"
	"carequeue/internal/shared/config"
	"carequeue/pkg/logger"

	"github.com/IBM/sarama"
)

// AuditConsumer tails the lifecycle event topic and writes each transition
// to the structured audit log. It runs alongside the API server; losing it
// never affects scheduling.
type AuditConsumer struct {
	group sarama.ConsumerGroup
	topic string
	log   *logger.Logger
}

// NewAuditConsumer creates a consumer group member for the audit stream.
func NewAuditConsumer(cfg config.KafkaConfig, log *logger.Logger) (*AuditConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{
		sarama.NewBalanceStrategyRoundRobin(),
	}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit consumer group: %w", err)
	}

	return &AuditConsumer{
		group: group,
		topic: cfg.Topic,
		log:   log,
	}, nil
}

// Start consumes until the context is cancelled. Meant to run in its own
// goroutine.
func (c *AuditConsumer) Start(ctx context.Context) {
	handler := &auditHandler{log: c.log}

	for {
		if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
			c.log.ErrorWithContext(ctx, "audit consumer error", err, nil)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// Close shuts the consumer group down.
func (c *AuditConsumer) Close() error {
	return c.group.Close()
}

type auditHandler struct {
	log *logger.Logger
}

func (h *auditHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *auditHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *auditHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event queue.LifecycleEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			h.log.Error("malformed lifecycle event", "offset", message.Offset, "error", err.Error())
			session.MarkMessage(message, "")
			continue
		}

		h.log.Info("queue lifecycle event",
			"entry_id", event.EntryID.String(),
			"station_id", event.StationID.String(),
			"queue_number", event.QueueNumber,
			"from", string(event.From),
			"to", string(event.To),
			"actor_id", event.ActorID.String(),
			"reason", event.Reason,
			"occurred_at", event.OccurredAt,
		)
		session.MarkMessage(message, "")
	}
	return nil
}
