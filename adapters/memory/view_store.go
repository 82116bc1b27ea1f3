package memory

import (
	"context"
	"sync"
	"time"

	"github.com/liamwh/veloxide/adapters"
)

var _ adapters.ViewStoreAdapter = (*ViewStore)(nil)

// ViewStore is an in-memory implementation of ViewStoreAdapter: a plain
// key-value map keyed by (view name, aggregate ID).
type ViewStore struct {
	mu    sync.RWMutex
	views map[viewKey]adapters.ViewRecord
}

type viewKey struct {
	name string
	id   string
}

// NewViewStore creates a new in-memory view store.
func NewViewStore() *ViewStore {
	return &ViewStore{
		views: make(map[viewKey]adapters.ViewRecord),
	}
}

// LoadView retrieves the view for the given projection and aggregate ID.
func (s *ViewStore) LoadView(ctx context.Context, viewName, viewID string) (*adapters.ViewRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.views[viewKey{name: viewName, id: viewID}]
	if !ok {
		return nil, adapters.ErrViewNotFound
	}

	// Copy the payload so callers cannot mutate the stored record.
	out := rec
	out.Data = append([]byte(nil), rec.Data...)
	return &out, nil
}

// SaveView creates or replaces the view for the given projection and
// aggregate ID.
func (s *ViewStore) SaveView(ctx context.Context, viewName, viewID string, data []byte, lastSequence int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.views[viewKey{name: viewName, id: viewID}] = adapters.ViewRecord{
		ViewName:     viewName,
		ViewID:       viewID,
		Data:         append([]byte(nil), data...),
		LastSequence: lastSequence,
		UpdatedAt:    time.Now(),
	}
	return nil
}

// Len returns the number of stored views.
func (s *ViewStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}
