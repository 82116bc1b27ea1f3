// Package adapters provides interfaces for event log and view store backends.
package adapters

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for adapter implementations.
// Adapters should return these (or errors that match via errors.Is)
// to enable consistent error handling across different backends.
var (
	// ErrConcurrencyConflict is returned when an optimistic concurrency check
	// fails: another writer committed to the stream in between.
	ErrConcurrencyConflict = errors.New("veloxide: concurrency conflict")

	// ErrStreamNotFound is returned when a stream does not exist.
	ErrStreamNotFound = errors.New("veloxide: stream not found")

	// ErrEmptyStreamID is returned when an empty stream ID is provided.
	ErrEmptyStreamID = errors.New("veloxide: stream ID is required")

	// ErrNoEvents is returned when attempting to append zero events.
	ErrNoEvents = errors.New("veloxide: no events to append")

	// ErrInvalidSequence is returned when an invalid expected sequence is specified.
	ErrInvalidSequence = errors.New("veloxide: invalid sequence")

	// ErrAdapterClosed is returned when operations are attempted on a closed adapter.
	ErrAdapterClosed = errors.New("veloxide: adapter is closed")

	// ErrViewNotFound is returned when no view exists for an aggregate ID.
	ErrViewNotFound = errors.New("veloxide: view not found")
)

// EventRecord represents an event to be appended to a stream.
// This is the adapter-level, serialized representation.
type EventRecord struct {
	// EventType is the event type identifier.
	EventType string

	// EventVersion is the payload schema version.
	EventVersion string

	// Data is the serialized event payload.
	Data []byte

	// Metadata contains contextual key-value pairs.
	Metadata map[string]string
}

// StoredEvent represents a persisted event with its storage metadata.
type StoredEvent struct {
	// ID is the unique event identifier.
	ID string

	// StreamID is the stream this event belongs to.
	StreamID string

	// EventType is the event type identifier.
	EventType string

	// EventVersion is the payload schema version.
	EventVersion string

	// Data is the serialized event payload.
	Data []byte

	// Metadata contains contextual key-value pairs.
	Metadata map[string]string

	// Sequence is the 1-based position within the stream.
	Sequence int64

	// Timestamp is when the event was committed.
	Timestamp time.Time
}

// StreamInfo contains metadata about an event stream.
type StreamInfo struct {
	// StreamID is the stream identifier.
	StreamID string

	// Category is the aggregate type (first part of the stream ID).
	Category string

	// LastSequence is the sequence of the most recent event.
	LastSequence int64

	// EventCount is the number of events in the stream.
	EventCount int64

	// CreatedAt is when the first event was stored.
	CreatedAt time.Time

	// UpdatedAt is when the last event was stored.
	UpdatedAt time.Time
}

// EventStoreAdapter is the interface event log backends must implement:
// a durable, append-only sequence of events per stream with monotonically
// increasing sequence numbers.
type EventStoreAdapter interface {
	// Append stores events to the specified stream with optimistic
	// concurrency control. expectedSequence is the sequence of the last
	// event the writer observed:
	//   - AnySequence (-1): skip the check
	//   - NoStream (0): stream must not exist
	//   - StreamExists (-2): stream must exist
	//   - any positive number: stream must be at exactly this sequence
	// New events are assigned sequences expectedSequence+1, +2, ... and the
	// call fails with a ConcurrencyError if the stream moved in between.
	// Returns the stored events with their assigned sequences.
	Append(ctx context.Context, streamID string, events []EventRecord, expectedSequence int64) ([]StoredEvent, error)

	// Load retrieves events from a stream with sequence greater than
	// fromSequence, in ascending order. A stream with no history yields an
	// empty slice, not an error. Use fromSequence=0 to load everything.
	Load(ctx context.Context, streamID string, fromSequence int64) ([]StoredEvent, error)

	// GetStreamInfo returns metadata about a stream.
	// Returns ErrStreamNotFound if the stream does not exist.
	GetStreamInfo(ctx context.Context, streamID string) (*StreamInfo, error)

	// Initialize sets up the required storage schema.
	Initialize(ctx context.Context) error

	// Close releases any resources held by the adapter.
	Close() error
}

// ViewRecord represents a persisted read model for one aggregate ID.
type ViewRecord struct {
	// ViewName identifies the projection that owns the record.
	ViewName string

	// ViewID is the aggregate ID the view belongs to.
	ViewID string

	// Data is the serialized view payload.
	Data []byte

	// LastSequence is the sequence of the last event folded into the view.
	// The projector uses it to skip envelopes it has already applied.
	LastSequence int64

	// UpdatedAt is when the view was last persisted.
	UpdatedAt time.Time
}

// ViewStoreAdapter is a simple key-value store for materialized views,
// keyed by (view name, aggregate ID). It never derives views from the event
// log; it only persists what the projector hands it.
type ViewStoreAdapter interface {
	// LoadView retrieves the view for the given projection and aggregate ID.
	// Returns ErrViewNotFound if no view has been persisted yet.
	LoadView(ctx context.Context, viewName, viewID string) (*ViewRecord, error)

	// SaveView creates or replaces the view for the given projection and
	// aggregate ID. The write is all-or-nothing: payload and lastSequence
	// are persisted together.
	SaveView(ctx context.Context, viewName, viewID string, data []byte, lastSequence int64) error
}

// HealthChecker provides health check capabilities.
type HealthChecker interface {
	// Ping checks if the adapter can reach its backend.
	Ping(ctx context.Context) error
}
