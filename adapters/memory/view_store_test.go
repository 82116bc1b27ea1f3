package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liamwh/veloxide/adapters"
)

func TestViewStore_RoundTrip(t *testing.T) {
	s := NewViewStore()
	ctx := context.Background()

	require.NoError(t, s.SaveView(ctx, "account_view", "A1", []byte(`{"balance":100}`), 3))

	rec, err := s.LoadView(ctx, "account_view", "A1")
	require.NoError(t, err)
	assert.Equal(t, "account_view", rec.ViewName)
	assert.Equal(t, "A1", rec.ViewID)
	assert.Equal(t, []byte(`{"balance":100}`), rec.Data)
	assert.Equal(t, int64(3), rec.LastSequence)
	assert.False(t, rec.UpdatedAt.IsZero())
}

func TestViewStore_Missing(t *testing.T) {
	s := NewViewStore()

	_, err := s.LoadView(context.Background(), "account_view", "missing")
	assert.ErrorIs(t, err, adapters.ErrViewNotFound)
}

func TestViewStore_SaveReplaces(t *testing.T) {
	s := NewViewStore()
	ctx := context.Background()

	require.NoError(t, s.SaveView(ctx, "account_view", "A1", []byte(`{"balance":100}`), 3))
	require.NoError(t, s.SaveView(ctx, "account_view", "A1", []byte(`{"balance":50}`), 4))

	rec, err := s.LoadView(ctx, "account_view", "A1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"balance":50}`), rec.Data)
	assert.Equal(t, int64(4), rec.LastSequence)
	assert.Equal(t, 1, s.Len())
}

func TestViewStore_KeysAreIndependent(t *testing.T) {
	s := NewViewStore()
	ctx := context.Background()

	require.NoError(t, s.SaveView(ctx, "account_view", "A1", []byte(`1`), 1))
	require.NoError(t, s.SaveView(ctx, "account_view", "A2", []byte(`2`), 1))
	require.NoError(t, s.SaveView(ctx, "ledger_view", "A1", []byte(`3`), 1))

	assert.Equal(t, 3, s.Len())

	rec, err := s.LoadView(ctx, "ledger_view", "A1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`3`), rec.Data)
}

func TestViewStore_DataIsCopied(t *testing.T) {
	s := NewViewStore()
	ctx := context.Background()

	data := []byte(`{"balance":100}`)
	require.NoError(t, s.SaveView(ctx, "account_view", "A1", data, 1))
	data[2] = 'x'

	rec, err := s.LoadView(ctx, "account_view", "A1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"balance":100}`), rec.Data)

	rec.Data[2] = 'y'
	again, err := s.LoadView(ctx, "account_view", "A1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"balance":100}`), again.Data)
}
