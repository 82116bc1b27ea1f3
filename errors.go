// Package veloxide provides the event-sourced aggregate core: an append-only
// event log with optimistic concurrency, pure aggregate state machines, a
// command executor, and materialized read views kept consistent with the log.
package veloxide

import (
	"errors"
	"fmt"

	"github.com/liamwh/veloxide/adapters"
)

// Sentinel errors for common error conditions.
// Use errors.Is() to check for these errors.
// Store-level errors are aliases to the adapters package for compatibility.
var (
	// ErrConcurrencyConflict indicates an optimistic concurrency violation:
	// the state used for the decision is stale and the caller should reload
	// and retry the whole command.
	ErrConcurrencyConflict = adapters.ErrConcurrencyConflict

	// ErrStreamNotFound indicates the requested stream does not exist.
	ErrStreamNotFound = adapters.ErrStreamNotFound

	// ErrEmptyStreamID indicates an empty stream ID was provided.
	ErrEmptyStreamID = adapters.ErrEmptyStreamID

	// ErrNoEvents indicates no events were provided for append.
	ErrNoEvents = adapters.ErrNoEvents

	// ErrInvalidSequence indicates an invalid expected sequence was provided.
	ErrInvalidSequence = adapters.ErrInvalidSequence

	// ErrAdapterClosed indicates the adapter has been closed.
	ErrAdapterClosed = adapters.ErrAdapterClosed

	// ErrViewNotFound indicates no view exists yet for an aggregate ID.
	ErrViewNotFound = adapters.ErrViewNotFound

	// ErrProjectionGap indicates a projector received an envelope beyond the
	// next expected sequence. The view halts at its consistent prefix; a full
	// replay of the stream reconciles it.
	ErrProjectionGap = errors.New("veloxide: projection sequence gap")

	// ErrSerializationFailed indicates event serialization or
	// deserialization failed. This is an infrastructure failure, distinct
	// from a business rejection.
	ErrSerializationFailed = errors.New("veloxide: serialization failed")

	// ErrEventTypeNotRegistered indicates an unknown event type was
	// encountered during deserialization.
	ErrEventTypeNotRegistered = errors.New("veloxide: event type not registered")

	// ErrCommandRejected indicates the aggregate rejected the command.
	// No events were appended and no subscribers were notified.
	ErrCommandRejected = errors.New("veloxide: command rejected")

	// ErrUnknownCommand indicates the aggregate has no transition for the
	// command type.
	ErrUnknownCommand = errors.New("veloxide: unknown command type")

	// ErrValidationFailed indicates command validation failed.
	ErrValidationFailed = errors.New("veloxide: validation failed")

	// ErrNilCommand indicates a nil command was passed.
	ErrNilCommand = errors.New("veloxide: nil command")

	// ErrEmptyAggregateID indicates an empty aggregate ID was provided.
	ErrEmptyAggregateID = errors.New("veloxide: aggregate ID is required")
)

// CommandRejectedError wraps a business rejection from an aggregate's Handle
// method. The underlying domain error is preserved verbatim for the caller;
// it is always recoverable by choosing a different command or inputs.
type CommandRejectedError struct {
	AggregateID string
	CommandType string
	Err         error
}

// Error returns the error message.
func (e *CommandRejectedError) Error() string {
	return fmt.Sprintf("veloxide: command %q rejected for aggregate %q: %v",
		e.CommandType, e.AggregateID, e.Err)
}

// Is reports whether this error matches the target error.
func (e *CommandRejectedError) Is(target error) bool {
	return target == ErrCommandRejected
}

// Unwrap returns the domain error for errors.Unwrap and errors.Is.
func (e *CommandRejectedError) Unwrap() error {
	return e.Err
}

// NewCommandRejectedError creates a new CommandRejectedError.
func NewCommandRejectedError(aggregateID, cmdType string, err error) *CommandRejectedError {
	return &CommandRejectedError{AggregateID: aggregateID, CommandType: cmdType, Err: err}
}

// SerializationError provides detailed information about a serialization
// failure.
type SerializationError struct {
	EventType string
	Operation string // "serialize" or "deserialize"
	Cause     error
}

// Error returns the error message.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("veloxide: failed to %s event type %q: %v",
		e.Operation, e.EventType, e.Cause)
}

// Is reports whether this error matches the target error.
func (e *SerializationError) Is(target error) bool {
	return target == ErrSerializationFailed
}

// Unwrap returns the underlying cause for errors.Unwrap().
func (e *SerializationError) Unwrap() error {
	return e.Cause
}

// NewSerializationError creates a new SerializationError.
func NewSerializationError(eventType, operation string, cause error) *SerializationError {
	return &SerializationError{EventType: eventType, Operation: operation, Cause: cause}
}

// ProjectionGapError reports an envelope that arrived beyond the next
// sequence a view expects, leaving events unfolded between them.
type ProjectionGapError struct {
	Projection   string
	AggregateID  string
	LastSequence int64
	GotSequence  int64
}

// Error returns the error message.
func (e *ProjectionGapError) Error() string {
	return fmt.Sprintf("veloxide: projection %q for aggregate %q expected sequence %d, got %d",
		e.Projection, e.AggregateID, e.LastSequence+1, e.GotSequence)
}

// Is reports whether this error matches the target error.
func (e *ProjectionGapError) Is(target error) bool {
	return target == ErrProjectionGap
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *ProjectionGapError) Unwrap() error {
	return ErrProjectionGap
}

// NewProjectionGapError creates a new ProjectionGapError.
func NewProjectionGapError(projection, aggregateID string, lastSequence, gotSequence int64) *ProjectionGapError {
	return &ProjectionGapError{Projection: projection, AggregateID: aggregateID, LastSequence: lastSequence, GotSequence: gotSequence}
}

// EventTypeNotRegisteredError reports an event type with no registered
// factory.
type EventTypeNotRegisteredError struct {
	EventType string
}

// Error returns the error message.
func (e *EventTypeNotRegisteredError) Error() string {
	return fmt.Sprintf("veloxide: event type %q not registered", e.EventType)
}

// Is reports whether this error matches the target error.
func (e *EventTypeNotRegisteredError) Is(target error) bool {
	return target == ErrEventTypeNotRegistered
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *EventTypeNotRegisteredError) Unwrap() error {
	return ErrEventTypeNotRegistered
}

// NewEventTypeNotRegisteredError creates a new EventTypeNotRegisteredError.
func NewEventTypeNotRegisteredError(eventType string) *EventTypeNotRegisteredError {
	return &EventTypeNotRegisteredError{EventType: eventType}
}
