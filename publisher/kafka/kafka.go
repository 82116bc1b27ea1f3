// Package kafka provides an event subscriber that publishes committed
// envelopes to a Kafka topic using github.com/segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/liamwh/veloxide"
)

// Writer is the subset of kafka-go's Writer used by the subscriber.
// Tests substitute an in-memory implementation.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// message is the wire shape of a published envelope.
type message struct {
	AggregateID  string            `json:"aggregate_id"`
	Sequence     int64             `json:"sequence"`
	EventType    string            `json:"event_type"`
	EventVersion string            `json:"event_version"`
	Payload      json.RawMessage   `json:"payload"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CommittedAt  time.Time         `json:"committed_at"`
}

// Subscriber publishes committed events to a Kafka topic. Messages are
// keyed by aggregate ID so events of one aggregate land on one partition
// in commit order.
type Subscriber struct {
	writer Writer
}

// Option configures a Subscriber.
type Option func(*Subscriber)

// WithWriter sets a custom writer, replacing the default kafka-go Writer.
func WithWriter(w Writer) Option {
	return func(s *Subscriber) {
		s.writer = w
	}
}

// New creates a Kafka subscriber publishing to the given topic on the
// given brokers.
func New(topic string, brokers []string, opts ...Option) *Subscriber {
	s := &Subscriber{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name identifies the subscriber in dispatcher logs.
func (s *Subscriber) Name() string { return "kafka" }

// Dispatch publishes the envelopes in order as a single batch.
func (s *Subscriber) Dispatch(ctx context.Context, aggregateID string, events []veloxide.Envelope) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, 0, len(events))
	for _, env := range events {
		payload, err := json.Marshal(env.Payload)
		if err != nil {
			return fmt.Errorf("kafka: failed to marshal payload for %s: %w", env.EventType, err)
		}
		body, err := json.Marshal(message{
			AggregateID:  env.AggregateID,
			Sequence:     env.Sequence,
			EventType:    env.EventType,
			EventVersion: env.EventVersion,
			Payload:      payload,
			Metadata:     env.Metadata,
			CommittedAt:  env.CommittedAt,
		})
		if err != nil {
			return fmt.Errorf("kafka: failed to marshal envelope for %s: %w", env.EventType, err)
		}

		msgs = append(msgs, kafkago.Message{
			Key:   []byte(aggregateID),
			Value: body,
			Headers: []kafkago.Header{
				{Key: "event-type", Value: []byte(env.EventType)},
				{Key: "event-version", Value: []byte(env.EventVersion)},
			},
		})
	}

	if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka: failed to publish events: %w", err)
	}
	return nil
}

var _ veloxide.Subscriber = (*Subscriber)(nil)
