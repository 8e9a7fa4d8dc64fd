package kafka

import (
	"fmt"

	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Config holds the broker connection shared by every topic writer.
type Config struct {
	Brokers  []string
	ClientID string
	// TLS dials brokers over TLS 1.2+ with the system roots.
	TLS  bool
	SASL *SASLConfig
}

// SASLConfig authenticates the producer. Mechanism is PLAIN (the default),
// SCRAM-SHA-256 or SCRAM-SHA-512.
type SASLConfig struct {
	Mechanism string
	Username  string
	Password  string
}

func (c SASLConfig) mechanism() (sasl.Mechanism, error) {
	switch c.Mechanism {
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, c.Username, c.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, c.Username, c.Password)
	case "PLAIN", "":
		return plain.Mechanism{Username: c.Username, Password: c.Password}, nil
	default:
		return nil, fmt.Errorf("kafka: unsupported SASL mechanism %q", c.Mechanism)
	}
}
