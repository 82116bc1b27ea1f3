package adapters

import (
	"fmt"
	"strings"
)

// Sequence constants for optimistic concurrency control.
// These define the special expectedSequence values accepted by Append.
const (
	// AnySequence skips the sequence check.
	AnySequence int64 = -1

	// NoStream requires the stream to not exist.
	NoStream int64 = 0

	// StreamExists requires the stream to exist.
	StreamExists int64 = -2
)

// ExtractCategory extracts the category from a stream ID.
// Stream IDs follow the format "category-id" (e.g. "account-A1"); the
// category is the portion before the first hyphen. A stream ID without a
// hyphen is returned unchanged.
func ExtractCategory(streamID string) string {
	if streamID == "" {
		return ""
	}
	parts := strings.SplitN(streamID, "-", 2)
	return parts[0]
}

// ConcurrencyError provides details about a failed optimistic concurrency
// check during Append.
type ConcurrencyError struct {
	StreamID         string
	ExpectedSequence int64
	ActualSequence   int64
}

// NewConcurrencyError creates a new ConcurrencyError.
func NewConcurrencyError(streamID string, expected, actual int64) *ConcurrencyError {
	return &ConcurrencyError{
		StreamID:         streamID,
		ExpectedSequence: expected,
		ActualSequence:   actual,
	}
}

// Error implements the error interface.
func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("veloxide: concurrency conflict on stream %q: expected sequence %d, got %d",
		e.StreamID, e.ExpectedSequence, e.ActualSequence)
}

// Is reports whether this error matches ErrConcurrencyConflict.
func (e *ConcurrencyError) Is(target error) bool {
	return target == ErrConcurrencyConflict
}

// Unwrap returns the underlying sentinel for errors.Unwrap.
func (e *ConcurrencyError) Unwrap() error {
	return ErrConcurrencyConflict
}

// StreamNotFoundError provides details about a missing stream.
type StreamNotFoundError struct {
	StreamID string
}

// NewStreamNotFoundError creates a new StreamNotFoundError.
func NewStreamNotFoundError(streamID string) *StreamNotFoundError {
	return &StreamNotFoundError{StreamID: streamID}
}

// Error implements the error interface.
func (e *StreamNotFoundError) Error() string {
	return fmt.Sprintf("veloxide: stream %q not found", e.StreamID)
}

// Is reports whether this error matches ErrStreamNotFound.
func (e *StreamNotFoundError) Is(target error) bool {
	return target == ErrStreamNotFound
}

// CheckSequence validates the expected sequence against the stream's current
// position. This implements the optimistic concurrency logic shared by all
// adapters.
//
// Returns nil if the check passes, a ConcurrencyError if another writer got
// there first, or ErrInvalidSequence for a malformed expectation.
func CheckSequence(streamID string, expected, current int64, exists bool) error {
	switch expected {
	case AnySequence:
		return nil
	case NoStream:
		if exists {
			return NewConcurrencyError(streamID, expected, current)
		}
		return nil
	case StreamExists:
		if !exists {
			return NewStreamNotFoundError(streamID)
		}
		return nil
	default:
		if expected < 0 {
			return ErrInvalidSequence
		}
		if current != expected {
			return NewConcurrencyError(streamID, expected, current)
		}
		return nil
	}
}

// CopyMetadata returns a copy of a metadata map, or nil for empty input.
// Adapters copy metadata on write so stored records cannot be mutated by the
// caller afterwards.
func CopyMetadata(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
