package veloxide

import (
	"context"
	"fmt"

	"github.com/liamwh/veloxide/adapters"
)

// Logger defines the logging interface used throughout the library.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// noopLogger is a no-op logger implementation.
type noopLogger struct{}

func (l *noopLogger) Debug(msg string, args ...interface{}) {}
func (l *noopLogger) Info(msg string, args ...interface{})  {}
func (l *noopLogger) Warn(msg string, args ...interface{})  {}
func (l *noopLogger) Error(msg string, args ...interface{}) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return &noopLogger{} }

// EventStore is the entry point for event log operations. It layers payload
// serialization on top of an EventStoreAdapter and converts between stored
// records and envelopes.
type EventStore struct {
	adapter    adapters.EventStoreAdapter
	serializer Serializer
	logger     Logger
}

// StoreOption configures an EventStore.
type StoreOption func(*EventStore)

// WithSerializer sets a custom serializer.
func WithSerializer(s Serializer) StoreOption {
	return func(es *EventStore) {
		es.serializer = s
	}
}

// WithStoreLogger sets a custom logger.
func WithStoreLogger(l Logger) StoreOption {
	return func(es *EventStore) {
		es.logger = l
	}
}

// NewEventStore creates an EventStore over the given adapter. The default
// serializer is JSON with an empty registry; register event factories on the
// registry (or pass a preloaded serializer) before loading history.
func NewEventStore(adapter adapters.EventStoreAdapter, opts ...StoreOption) *EventStore {
	es := &EventStore{
		adapter:    adapter,
		serializer: NewJSONSerializer(NewEventRegistry()),
		logger:     &noopLogger{},
	}

	for _, opt := range opts {
		opt(es)
	}

	return es
}

// Serializer returns the event store's serializer.
func (s *EventStore) Serializer() Serializer {
	return s.serializer
}

// Adapter returns the underlying adapter.
func (s *EventStore) Adapter() adapters.EventStoreAdapter {
	return s.adapter
}

// LoadHistory retrieves all committed envelopes for one aggregate, in
// ascending sequence order. An aggregate with no history yields an empty
// slice, not an error.
func (s *EventStore) LoadHistory(ctx context.Context, aggregateType, aggregateID string) ([]Envelope, error) {
	if aggregateID == "" {
		return nil, ErrEmptyAggregateID
	}

	streamID := NewStreamID(aggregateType, aggregateID).String()
	stored, err := s.adapter.Load(ctx, streamID, 0)
	if err != nil {
		return nil, err
	}

	envelopes := make([]Envelope, len(stored))
	for i, rec := range stored {
		payload, err := s.serializer.Deserialize(rec.EventType, rec.Data)
		if err != nil {
			return nil, fmt.Errorf("veloxide: failed to deserialize event %d of stream %q: %w", i, streamID, err)
		}
		envelopes[i] = Envelope{
			AggregateID:  aggregateID,
			Sequence:     rec.Sequence,
			EventType:    rec.EventType,
			EventVersion: rec.EventVersion,
			Payload:      payload,
			Metadata:     Metadata(rec.Metadata),
			CommittedAt:  rec.Timestamp,
		}
	}

	return envelopes, nil
}

// Commit appends new events for one aggregate with an optimistic concurrency
// guard. expectedLastSequence is the sequence of the last event the caller
// observed (0 for a new aggregate); the commit fails with a ConcurrencyError
// if the stream moved in between. On success the returned envelopes carry
// the assigned sequences expectedLastSequence+1, +2, ...
func (s *EventStore) Commit(ctx context.Context, aggregateType, aggregateID string, expectedLastSequence int64, events []DomainEvent, metadata Metadata) ([]Envelope, error) {
	if aggregateID == "" {
		return nil, ErrEmptyAggregateID
	}
	if len(events) == 0 {
		return nil, ErrNoEvents
	}

	records := make([]adapters.EventRecord, len(events))
	for i, event := range events {
		data, err := s.serializer.Serialize(event)
		if err != nil {
			return nil, fmt.Errorf("veloxide: failed to serialize event %d: %w", i, err)
		}
		records[i] = adapters.EventRecord{
			EventType:    event.EventType(),
			EventVersion: event.EventVersion(),
			Data:         data,
			Metadata:     metadata,
		}
	}

	streamID := NewStreamID(aggregateType, aggregateID).String()
	stored, err := s.adapter.Append(ctx, streamID, records, expectedLastSequence)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("events committed",
		"stream_id", streamID, "count", len(stored), "last_sequence", stored[len(stored)-1].Sequence)

	// The payloads are already in memory; build envelopes without a
	// deserialization round trip.
	envelopes := make([]Envelope, len(stored))
	for i, rec := range stored {
		envelopes[i] = Envelope{
			AggregateID:  aggregateID,
			Sequence:     rec.Sequence,
			EventType:    rec.EventType,
			EventVersion: rec.EventVersion,
			Payload:      events[i],
			Metadata:     Metadata(rec.Metadata),
			CommittedAt:  rec.Timestamp,
		}
	}

	return envelopes, nil
}

// GetStreamInfo returns metadata about an aggregate's stream.
func (s *EventStore) GetStreamInfo(ctx context.Context, aggregateType, aggregateID string) (*adapters.StreamInfo, error) {
	if aggregateID == "" {
		return nil, ErrEmptyAggregateID
	}
	streamID := NewStreamID(aggregateType, aggregateID).String()
	return s.adapter.GetStreamInfo(ctx, streamID)
}

// Initialize sets up the required storage schema.
func (s *EventStore) Initialize(ctx context.Context) error {
	return s.adapter.Initialize(ctx)
}

// Close releases resources held by the event store.
func (s *EventStore) Close() error {
	return s.adapter.Close()
}
