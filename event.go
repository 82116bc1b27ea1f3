package veloxide

import (
	"fmt"
	"strings"
	"time"
)

// Sequence constants for optimistic concurrency control.
const (
	// AnySequence skips the sequence check, allowing append regardless of the
	// stream's current position.
	AnySequence int64 = -1

	// NoStream indicates the stream must not exist (for opening new streams).
	NoStream int64 = 0

	// StreamExists indicates the stream must exist.
	StreamExists int64 = -2
)

// DomainEvent is implemented by every domain event variant. Events are
// immutable facts: once committed they are never changed or removed.
//
// Events should carry derived values (e.g. the resulting balance) rather than
// have them recomputed on replay, so that applying an event stays trivial.
type DomainEvent interface {
	// EventType returns the type identifier persisted with the event
	// (e.g. "AccountOpened").
	EventType() string

	// EventVersion returns the schema version of the event payload
	// (e.g. "1.0").
	EventVersion() string
}

// Metadata is free-form contextual information attached to every event in a
// commit: request time, origin, correlation IDs and the like.
type Metadata map[string]string

// With returns a copy of the metadata with an additional key-value pair.
// The receiver is not modified.
func (m Metadata) With(key, value string) Metadata {
	out := make(Metadata, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = value
	return out
}

// Get returns the value for key, or the empty string if absent.
func (m Metadata) Get(key string) string {
	if m == nil {
		return ""
	}
	return m[key]
}

// Envelope wraps a committed event with its ordering and context.
//
// For a given aggregate ID, sequence numbers form a gapless ascending run
// starting at 1. The event log store is the single source of truth for this
// ordering.
type Envelope struct {
	// AggregateID identifies the aggregate instance this event belongs to.
	AggregateID string

	// Sequence is the 1-based position of the event within the aggregate's
	// stream.
	Sequence int64

	// EventType is the persisted type identifier of the payload.
	EventType string

	// EventVersion is the payload schema version.
	EventVersion string

	// Payload is the deserialized domain event.
	Payload DomainEvent

	// Metadata carries the contextual key-value pairs recorded at commit.
	Metadata Metadata

	// CommittedAt is when the event was appended to the log.
	CommittedAt time.Time
}

// StreamID uniquely identifies one aggregate's event stream. It consists of
// the aggregate type (category) and the aggregate instance ID.
type StreamID struct {
	Category string
	ID       string
}

// NewStreamID creates a StreamID from an aggregate type and instance ID.
func NewStreamID(category, id string) StreamID {
	return StreamID{Category: category, ID: id}
}

// ParseStreamID parses a stream ID string in the format "category-id".
func ParseStreamID(s string) (StreamID, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return StreamID{}, fmt.Errorf("veloxide: invalid stream ID format %q, expected 'category-id'", s)
	}
	return StreamID{Category: parts[0], ID: parts[1]}, nil
}

// String returns the stream ID as "category-id".
func (s StreamID) String() string {
	return s.Category + "-" + s.ID
}

// Validate checks that both parts of the StreamID are set.
func (s StreamID) Validate() error {
	if s.Category == "" {
		return fmt.Errorf("veloxide: stream category is required")
	}
	if s.ID == "" {
		return fmt.Errorf("veloxide: stream ID is required")
	}
	return nil
}
