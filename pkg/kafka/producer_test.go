package kafka

import (
	"context"
	"errors"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	written []kafkago.Message
	err     error
	closed  bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func newTestProducer(t *testing.T) (*Producer, map[string]*fakeWriter) {
	t.Helper()
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fakes := map[string]*fakeWriter{}
	p.newWriter = func(topic string) messageWriter {
		w := &fakeWriter{}
		fakes[topic] = w
		return w
	}
	return p, fakes
}

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092", "localhost:9093"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %d", len(p.brokers))
	}
	if len(p.writers) != 0 {
		t.Errorf("expected empty writers map, got %d entries", len(p.writers))
	}
}

func TestNewProducerValidation(t *testing.T) {
	if _, err := NewProducer(Config{}); err == nil {
		t.Error("expected error without brokers")
	}
	_, err := NewProducer(Config{Brokers: []string{"kafka:9092"}, SASL: &SASLConfig{Mechanism: "GSSAPI"}})
	if err == nil {
		t.Error("expected error for unsupported SASL mechanism")
	}
	_, err = NewProducer(Config{
		Brokers: []string{"kafka:9092"}, TLS: true,
		SASL: &SASLConfig{Mechanism: "SCRAM-SHA-512", Username: "u", Password: "p"},
	})
	if err != nil {
		t.Errorf("unexpected error for SCRAM: %v", err)
	}
}

func TestPublish(t *testing.T) {
	p, fakes := newTestProducer(t)

	err := p.Publish(context.Background(), "events",
		Message{Key: []byte("app-1"), Value: []byte(`{"a":1}`), Headers: map[string]string{"event_type": "x"}},
		Message{Key: []byte("app-1"), Value: []byte(`{"a":2}`)},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := fakes["events"]
	if w == nil || len(w.written) != 2 {
		t.Fatalf("expected 2 messages written, got %+v", w)
	}
	if string(w.written[0].Key) != "app-1" {
		t.Errorf("unexpected key %s", w.written[0].Key)
	}
	if len(w.written[0].Headers) != 1 || w.written[0].Headers[0].Key != "event_type" {
		t.Errorf("unexpected headers %+v", w.written[0].Headers)
	}
}

func TestPublishNothing(t *testing.T) {
	p, fakes := newTestProducer(t)
	if err := p.Publish(context.Background(), "events"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fakes) != 0 {
		t.Error("expected no writer for an empty publish")
	}
}

func TestPublishError(t *testing.T) {
	p, _ := newTestProducer(t)
	p.newWriter = func(string) messageWriter { return &fakeWriter{err: errors.New("leader not available")} }

	err := p.Publish(context.Background(), "events", Message{Value: []byte("x")})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetOrCreateWriter(t *testing.T) {
	p, _ := newTestProducer(t)

	w1 := p.getOrCreateWriter("topic-a")
	w2 := p.getOrCreateWriter("topic-a")
	if w1 != w2 {
		t.Error("expected same writer instance for same topic")
	}
	w3 := p.getOrCreateWriter("topic-b")
	if w1 == w3 {
		t.Error("expected different writer instance for different topic")
	}
	if len(p.writers) != 2 {
		t.Errorf("expected 2 writers, got %d", len(p.writers))
	}
}

func TestProducerClose(t *testing.T) {
	p, fakes := newTestProducer(t)
	_ = p.getOrCreateWriter("topic-a")
	_ = p.getOrCreateWriter("topic-b")

	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}
	if len(p.writers) != 0 {
		t.Errorf("expected 0 writers after close, got %d", len(p.writers))
	}
	for topic, w := range fakes {
		if !w.closed {
			t.Errorf("writer for %s not closed", topic)
		}
	}
}
