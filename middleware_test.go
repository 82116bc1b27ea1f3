package veloxide

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthrough(err error) ExecuteFunc {
	return func(ctx context.Context, aggregateID string, cmd Command, metadata Metadata) error {
		return err
	}
}

func TestValidationMiddleware(t *testing.T) {
	called := false
	next := func(ctx context.Context, aggregateID string, cmd Command, metadata Metadata) error {
		called = true
		return nil
	}
	exec := ValidationMiddleware()(next)

	err := exec(context.Background(), "c1", createCounter{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.False(t, called, "invalid command must not reach the handler")

	require.NoError(t, exec(context.Background(), "c1", createCounter{CounterID: "c1"}, nil))
	assert.True(t, called)
}

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError("CreateCounter", "counter_id", "must not be empty")
	assert.Contains(t, err.Error(), "CreateCounter")
	assert.Contains(t, err.Error(), "counter_id")
}

func TestLoggingMiddleware_PassesThrough(t *testing.T) {
	boom := errors.New("boom")
	exec := LoggingMiddleware(nil)(passthrough(boom))
	assert.ErrorIs(t, exec(context.Background(), "c1", noop{}, nil), boom)

	exec = LoggingMiddleware(NopLogger())(passthrough(nil))
	assert.NoError(t, exec(context.Background(), "c1", noop{}, nil))
}

func TestRecoveryMiddleware(t *testing.T) {
	var captured error
	exec := RecoveryMiddleware(func(err error) { captured = err })(
		func(ctx context.Context, aggregateID string, cmd Command, metadata Metadata) error {
			panic("handler bug")
		},
	)

	var err error
	assert.NotPanics(t, func() {
		err = exec(context.Background(), "c1", noop{}, nil)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler bug")
	assert.Equal(t, err, captured)
}

func TestRecoveryMiddleware_NoPanic(t *testing.T) {
	exec := RecoveryMiddleware(nil)(passthrough(nil))
	assert.NoError(t, exec(context.Background(), "c1", noop{}, nil))
}
