package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liamwh/veloxide/adapters"
)

func record(eventType string, data string) adapters.EventRecord {
	return adapters.EventRecord{
		EventType:    eventType,
		EventVersion: "1.0",
		Data:         []byte(data),
	}
}

func TestAdapter_AppendAssignsGaplessSequences(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()

	stored, err := a.Append(ctx, "counter-c1", []adapters.EventRecord{
		record("CounterCreated", `{}`),
		record("CounterIncremented", `{"amount":1}`),
	}, 0)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	assert.Equal(t, int64(1), stored[0].Sequence)
	assert.Equal(t, int64(2), stored[1].Sequence)
	assert.NotEmpty(t, stored[0].ID)
	assert.NotEqual(t, stored[0].ID, stored[1].ID)
	assert.False(t, stored[0].Timestamp.IsZero())

	more, err := a.Append(ctx, "counter-c1", []adapters.EventRecord{
		record("CounterIncremented", `{"amount":2}`),
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), more[0].Sequence)
}

func TestAdapter_AppendValidations(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()

	_, err := a.Append(ctx, "", []adapters.EventRecord{record("E", `{}`)}, 0)
	assert.ErrorIs(t, err, adapters.ErrEmptyStreamID)

	_, err = a.Append(ctx, "counter-c1", nil, 0)
	assert.ErrorIs(t, err, adapters.ErrNoEvents)

	_, err = a.Append(ctx, "counter-c1", []adapters.EventRecord{record("E", `{}`)}, -9)
	assert.ErrorIs(t, err, adapters.ErrInvalidSequence)
}

func TestAdapter_AppendConcurrencyConflict(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()

	_, err := a.Append(ctx, "counter-c1", []adapters.EventRecord{record("E", `{}`)}, 0)
	require.NoError(t, err)

	_, err = a.Append(ctx, "counter-c1", []adapters.EventRecord{record("E", `{}`)}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, adapters.ErrConcurrencyConflict)

	var conflict *adapters.ConcurrencyError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, int64(0), conflict.ExpectedSequence)
	assert.Equal(t, int64(1), conflict.ActualSequence)
}

func TestAdapter_ConcurrentWritersSingleWinner(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	errs := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = a.Append(ctx, "counter-c1", []adapters.EventRecord{record("E", `{}`)}, 0)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, adapters.ErrConcurrencyConflict)
		}
	}
	assert.Equal(t, 1, won, "exactly one writer appends at expected sequence 0")

	events, err := a.Load(ctx, "counter-c1", 0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestAdapter_Load(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()

	_, err := a.Append(ctx, "counter-c1", []adapters.EventRecord{
		record("A", `{}`), record("B", `{}`), record("C", `{}`),
	}, 0)
	require.NoError(t, err)

	all, err := a.Load(ctx, "counter-c1", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A", all[0].EventType)

	tail, err := a.Load(ctx, "counter-c1", 1)
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Equal(t, int64(2), tail[0].Sequence)
}

func TestAdapter_LoadMissingStream(t *testing.T) {
	a := NewAdapter()

	events, err := a.Load(context.Background(), "counter-missing", 0)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestAdapter_GetStreamInfo(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()

	_, err := a.Append(ctx, "counter-c1", []adapters.EventRecord{
		record("A", `{}`), record("B", `{}`),
	}, 0)
	require.NoError(t, err)

	info, err := a.GetStreamInfo(ctx, "counter-c1")
	require.NoError(t, err)
	assert.Equal(t, "counter-c1", info.StreamID)
	assert.Equal(t, "counter", info.Category)
	assert.Equal(t, int64(2), info.LastSequence)
	assert.Equal(t, int64(2), info.EventCount)

	_, err = a.GetStreamInfo(ctx, "counter-missing")
	assert.ErrorIs(t, err, adapters.ErrStreamNotFound)
}

func TestAdapter_Close(t *testing.T) {
	a := NewAdapter()
	require.NoError(t, a.Close())

	_, err := a.Append(context.Background(), "counter-c1", []adapters.EventRecord{record("E", `{}`)}, 0)
	assert.ErrorIs(t, err, adapters.ErrAdapterClosed)

	_, err = a.Load(context.Background(), "counter-c1", 0)
	assert.ErrorIs(t, err, adapters.ErrAdapterClosed)
}

func TestAdapter_StoredMetadataIsCopied(t *testing.T) {
	a := NewAdapter()
	ctx := context.Background()

	meta := map[string]string{"origin": "test"}
	rec := record("E", `{}`)
	rec.Metadata = meta

	stored, err := a.Append(ctx, "counter-c1", []adapters.EventRecord{rec}, 0)
	require.NoError(t, err)

	meta["origin"] = "mutated"
	assert.Equal(t, "test", stored[0].Metadata["origin"])
}
