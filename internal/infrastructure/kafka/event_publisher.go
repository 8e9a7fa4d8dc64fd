package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mustafa-shahin/lf10-project/internal/domain/event"
	pkgkafka "github.com/mustafa-shahin/lf10-project/pkg/kafka"
)

// DefaultTopic carries all application lifecycle events.
const DefaultTopic = "loanflow.application-events"

// MessagePublisher is the producer side used by EventPublisher.
type MessagePublisher interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// EventPublisher implements port.EventPublisher by writing events to Kafka,
// keyed by application ID.
type EventPublisher struct {
	producer MessagePublisher
	topic    string
	logger   *slog.Logger
}

// NewEventPublisher creates a publisher targeting the given producer and topic.
func NewEventPublisher(producer MessagePublisher, topic string, logger *slog.Logger) *EventPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &EventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish serialises and sends domain events to Kafka.
func (p *EventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	messages := make([]pkgkafka.Message, 0, len(events))
	for _, evt := range events {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", evt.EventType(), err)
		}

		p.logger.DebugContext(ctx, "publishing domain event",
			"event_type", evt.EventType(),
			"aggregate_id", evt.AggregateID(),
			"topic", p.topic,
			"payload_size", len(payload),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(evt.AggregateID()),
			Value: payload,
			Headers: map[string]string{
				"event_type":     evt.EventType(),
				"event_id":       evt.EventID(),
				"aggregate_type": evt.AggregateType(),
				"content_type":   "application/json",
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}
	return nil
}

// LogPublisher writes events to the log. It stands in for Kafka when no
// brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs every event.
func (p *LogPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	for _, evt := range events {
		p.logger.InfoContext(ctx, "domain event",
			"event_type", evt.EventType(),
			"event_id", evt.EventID(),
			"aggregate_id", evt.AggregateID(),
		)
	}
	return nil
}
