package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafa-shahin/lf10-project/internal/domain/event"
	pkgkafka "github.com/mustafa-shahin/lf10-project/pkg/kafka"
)

type mockProducer struct {
	publishFunc func(ctx context.Context, topic string, msgs ...pkgkafka.Message) error
	topic       string
	messages    []pkgkafka.Message
}

func (m *mockProducer) Publish(ctx context.Context, topic string, msgs ...pkgkafka.Message) error {
	m.topic = topic
	m.messages = append(m.messages, msgs...)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, topic, msgs...)
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEventPublisher_Publish(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("one message per event keyed by application", func(t *testing.T) {
		producer := &mockProducer{}
		p := NewEventPublisher(producer, "", testLogger())

		claimed := event.NewApplicationClaimed("app-1", "employee-1", now)
		escalated := event.NewApplicationEscalated("app-1", "employee-1", now)
		require.NoError(t, p.Publish(context.Background(), claimed, escalated))

		assert.Equal(t, DefaultTopic, producer.topic)
		require.Len(t, producer.messages, 2)

		msg := producer.messages[0]
		assert.Equal(t, "app-1", string(msg.Key))
		assert.Equal(t, "loanflow.application.claimed", msg.Headers["event_type"])
		assert.Equal(t, claimed.EventID(), msg.Headers["event_id"])
		assert.Equal(t, "Application", msg.Headers["aggregate_type"])

		var payload map[string]any
		require.NoError(t, json.Unmarshal(msg.Value, &payload))
		assert.Equal(t, "employee-1", payload["handled_by"])
		assert.Equal(t, "app-1", payload["aggregate_id"])
	})

	t.Run("no events no call", func(t *testing.T) {
		producer := &mockProducer{}
		require.NoError(t, NewEventPublisher(producer, "t", testLogger()).Publish(context.Background()))
		assert.Empty(t, producer.topic)
	})

	t.Run("producer error is wrapped", func(t *testing.T) {
		producer := &mockProducer{publishFunc: func(context.Context, string, ...pkgkafka.Message) error {
			return errors.New("broker down")
		}}
		err := NewEventPublisher(producer, "t", testLogger()).
			Publish(context.Background(), event.NewApplicationClaimed("app-1", "e", now))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "topic t")
		assert.Contains(t, err.Error(), "broker down")
	})
}

func TestLogPublisher_Publish(t *testing.T) {
	err := NewLogPublisher(testLogger()).Publish(context.Background(),
		event.NewApplicationClaimed("app-1", "e", time.Now()))
	assert.NoError(t, err)
}
