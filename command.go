package veloxide

import "fmt"

// Command represents an intent to change the state of one aggregate.
// Commands are never persisted; they are either translated into events by the
// aggregate's Handle method or rejected with an error.
type Command interface {
	// CommandType returns the type identifier for this command
	// (e.g. "OpenAccount").
	CommandType() string

	// Validate checks the structural validity of the command (required
	// fields, well-formed identifiers). Business rules belong in the
	// aggregate's Handle method, not here.
	Validate() error
}

// ValidationError describes a command that failed structural validation.
type ValidationError struct {
	CommandType string
	Field       string
	Message     string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("veloxide: validation failed for command %q field %q: %s",
			e.CommandType, e.Field, e.Message)
	}
	return fmt.Sprintf("veloxide: validation failed for command %q: %s", e.CommandType, e.Message)
}

// Is reports whether this error matches the target error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationError creates a new ValidationError.
func NewValidationError(cmdType, field, message string) *ValidationError {
	return &ValidationError{CommandType: cmdType, Field: field, Message: message}
}
