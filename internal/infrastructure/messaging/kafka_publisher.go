package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/crediario/loan-engine/internal/domain/event"
	"github.com/crediario/loan-engine/pkg/kafka"
)

// KafkaEventPublisher implements port.EventPublisher by writing events to
// Kafka, keyed by aggregate ID so one loan's events stay ordered.
type KafkaEventPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewKafkaEventPublisher creates a publisher over the given producer and topic.
func NewKafkaEventPublisher(producer *kafka.Producer, topic string, logger *slog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish serialises and sends domain events.
func (p *KafkaEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		msg := kafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type": evt.EventType(),
				"tenant_id":  evt.TenantID(),
			},
		}
		if err := p.producer.Publish(ctx, p.topic, msg); err != nil {
			return fmt.Errorf("publish event %s: %w", evt.EventType(), err)
		}

		p.logger.Debug("published domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"tenant_id", evt.TenantID(),
			"topic", p.topic,
		)
	}
	return nil
}
