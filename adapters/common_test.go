package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckSequence(t *testing.T) {
	tests := []struct {
		name     string
		expected int64
		current  int64
		exists   bool
		wantErr  error
	}{
		{"any sequence, no stream", AnySequence, 0, false, nil},
		{"any sequence, existing stream", AnySequence, 5, true, nil},
		{"no stream, stream absent", NoStream, 0, false, nil},
		{"no stream, stream present", NoStream, 3, true, ErrConcurrencyConflict},
		{"stream exists, stream present", StreamExists, 3, true, nil},
		{"stream exists, stream absent", StreamExists, 0, false, ErrStreamNotFound},
		{"exact match", 5, 5, true, nil},
		{"stale expectation", 3, 5, true, ErrConcurrencyConflict},
		{"ahead of stream", 7, 5, true, ErrConcurrencyConflict},
		{"malformed negative", -7, 0, false, ErrInvalidSequence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSequence("counter-c1", tt.expected, tt.current, tt.exists)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestConcurrencyError_Details(t *testing.T) {
	err := NewConcurrencyError("counter-c1", 3, 5)
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.Contains(t, err.Error(), "counter-c1")
	assert.Equal(t, int64(3), err.ExpectedSequence)
	assert.Equal(t, int64(5), err.ActualSequence)
}

func TestStreamNotFoundError(t *testing.T) {
	err := NewStreamNotFoundError("counter-c1")
	assert.ErrorIs(t, err, ErrStreamNotFound)
	assert.Contains(t, err.Error(), "counter-c1")
}

func TestExtractCategory(t *testing.T) {
	assert.Equal(t, "account", ExtractCategory("account-A1"))
	assert.Equal(t, "account", ExtractCategory("account-550e8400-e29b"))
	assert.Equal(t, "plain", ExtractCategory("plain"))
	assert.Equal(t, "", ExtractCategory(""))
}

func TestCopyMetadata(t *testing.T) {
	assert.Nil(t, CopyMetadata(nil))
	assert.Nil(t, CopyMetadata(map[string]string{}))

	src := map[string]string{"a": "1"}
	dst := CopyMetadata(src)
	src["a"] = "mutated"
	assert.Equal(t, "1", dst["a"])
}
