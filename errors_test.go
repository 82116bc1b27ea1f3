package veloxide

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandRejectedError(t *testing.T) {
	domain := errors.New("insufficient funds")
	err := NewCommandRejectedError("acct-1", "WithdrawMoney", domain)

	assert.ErrorIs(t, err, ErrCommandRejected)
	assert.ErrorIs(t, err, domain)
	assert.Contains(t, err.Error(), "WithdrawMoney")
	assert.Contains(t, err.Error(), "acct-1")
	assert.Equal(t, domain, errors.Unwrap(err))
}

func TestSerializationError(t *testing.T) {
	cause := errors.New("unexpected end of input")
	err := NewSerializationError("CounterCreated", "deserialize", cause)

	assert.ErrorIs(t, err, ErrSerializationFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "CounterCreated")
	assert.Contains(t, err.Error(), "deserialize")
}

func TestEventTypeNotRegisteredError(t *testing.T) {
	err := NewEventTypeNotRegisteredError("Mystery")

	assert.ErrorIs(t, err, ErrEventTypeNotRegistered)
	assert.Contains(t, err.Error(), "Mystery")
}

func TestProjectionGapError(t *testing.T) {
	err := NewProjectionGapError("counter_view", "c1", 2, 4)

	assert.ErrorIs(t, err, ErrProjectionGap)
	assert.Contains(t, err.Error(), "counter_view")
	assert.Contains(t, err.Error(), "expected sequence 3, got 4")
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrConcurrencyConflict,
		ErrStreamNotFound,
		ErrCommandRejected,
		ErrUnknownCommand,
		ErrValidationFailed,
		ErrSerializationFailed,
		ErrViewNotFound,
		ErrProjectionGap,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
