package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"carequeue/internal/queue"
	"carequeue/internal/shared/config"
	"carequeue/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer publishes queue lifecycle events to the audit stream. Publishing
// is best-effort: a broker hiccup is logged and dropped, never surfaced to
// the operation that produced the event.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewProducer creates a Kafka-backed lifecycle event producer.
func NewProducer(cfg config.KafkaConfig, log *logger.Logger) (*Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash on the station so one station's events stay ordered within a
	// partition.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create lifecycle event producer: %w", err)
	}

	log.Info("lifecycle event producer connected", "topic", cfg.Topic)

	return &Producer{
		producer: producer,
		topic:    cfg.Topic,
		log:      log,
	}, nil
}

// PublishLifecycleEvent implements queue.EventPublisher.
func (p *Producer) PublishLifecycleEvent(ctx context.Context, event queue.LifecycleEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.ErrorWithContext(ctx, "failed to marshal lifecycle event", err,
			map[string]interface{}{"entry_id": event.EntryID.String()})
		return
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.StationID.String()),
		Value:     sarama.ByteEncoder(payload),
		Timestamp: event.OccurredAt,
	}

	if _, _, err := p.producer.SendMessage(message); err != nil {
		p.log.ErrorWithContext(ctx, "failed to publish lifecycle event", err,
			map[string]interface{}{
				"entry_id": event.EntryID.String(),
				"to":       string(event.To),
			})
	}
}

// Close shuts the underlying Kafka producer down.
func (p *Producer) Close() error {
	return p.producer.Close()
}
