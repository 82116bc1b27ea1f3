package veloxide

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/liamwh/veloxide/adapters"
)

// View is a denormalized, read-optimized projection of one aggregate's
// events. Update folds a single committed envelope into the view; it is the
// read-side mirror of Aggregate.Apply and must never fail.
//
// A view is always derivable by folding the full event history in order.
// The persisted copy is purely a read-performance cache, not a source of
// truth.
type View interface {
	Update(env Envelope)
}

// viewPtr constrains a type parameter to a pointer to V that implements
// View, so projectors can allocate and fold views generically.
type viewPtr[V any] interface {
	*V
	View
}

// ViewRepository persists and retrieves one view type, keyed by aggregate
// ID. Load never recomputes from the event log; it is a plain key-value
// read.
type ViewRepository[V any] struct {
	name  string
	store adapters.ViewStoreAdapter
}

// NewViewRepository creates a repository for one view type. The name keys
// the projection's records in the view store and must be stable across
// restarts.
func NewViewRepository[V any](name string, store adapters.ViewStoreAdapter) *ViewRepository[V] {
	return &ViewRepository[V]{name: name, store: store}
}

// Name returns the projection name this repository serves.
func (r *ViewRepository[V]) Name() string { return r.name }

// Load retrieves the view for an aggregate ID along with the sequence of the
// last event folded into it. Returns ErrViewNotFound if no view has been
// persisted yet.
func (r *ViewRepository[V]) Load(ctx context.Context, aggregateID string) (*V, int64, error) {
	rec, err := r.store.LoadView(ctx, r.name, aggregateID)
	if err != nil {
		return nil, 0, err
	}

	view := new(V)
	if err := json.Unmarshal(rec.Data, view); err != nil {
		return nil, 0, NewSerializationError(r.name, "deserialize", err)
	}
	return view, rec.LastSequence, nil
}

// Save persists the view and the sequence of the last folded event as one
// all-or-nothing write.
func (r *ViewRepository[V]) Save(ctx context.Context, aggregateID string, view *V, lastSequence int64) error {
	data, err := json.Marshal(view)
	if err != nil {
		return NewSerializationError(r.name, "serialize", err)
	}
	return r.store.SaveView(ctx, r.name, aggregateID, data, lastSequence)
}

// Projector is a subscriber that keeps one view type consistent with the
// event log: on each committed batch it loads the current view (or starts a
// default one), folds the new envelopes in order, and persists the result.
//
// The projector is idempotent. Envelopes at or below the view's recorded
// last sequence are skipped, so redelivering a batch after a partial failure
// never double-counts. An envelope beyond the next expected sequence means a
// prior save was lost; the projector halts at its consistent prefix with a
// ProjectionGapError, and replaying the full stream reconciles the view.
type Projector[V any, PV viewPtr[V]] struct {
	repo   *ViewRepository[V]
	logger Logger
}

// NewProjector creates a projector over the given repository.
func NewProjector[V any, PV viewPtr[V]](repo *ViewRepository[V], logger Logger) *Projector[V, PV] {
	if logger == nil {
		logger = &noopLogger{}
	}
	return &Projector[V, PV]{repo: repo, logger: logger}
}

// Name returns the projection name.
func (p *Projector[V, PV]) Name() string { return p.repo.Name() }

// Dispatch folds the committed envelopes into the aggregate's view and
// persists it.
func (p *Projector[V, PV]) Dispatch(ctx context.Context, aggregateID string, events []Envelope) error {
	view, lastSequence, err := p.repo.Load(ctx, aggregateID)
	if errors.Is(err, ErrViewNotFound) {
		view = new(V)
		lastSequence = 0
	} else if err != nil {
		return fmt.Errorf("veloxide: projector %q failed to load view for %q: %w", p.Name(), aggregateID, err)
	}

	updated := false
	var gapErr error
	for _, env := range events {
		if env.Sequence <= lastSequence {
			p.logger.Debug("skipping already-projected envelope",
				"projection", p.Name(), "aggregate_id", aggregateID, "sequence", env.Sequence)
			continue
		}
		if env.Sequence != lastSequence+1 {
			// An earlier save must have failed. Folding past the gap would
			// advance last_sequence over the missed events and the skip
			// guard would then lock them out forever, so the view halts at
			// its consistent prefix until the stream is replayed.
			gapErr = NewProjectionGapError(p.Name(), aggregateID, lastSequence, env.Sequence)
			break
		}
		PV(view).Update(env)
		lastSequence = env.Sequence
		updated = true
	}

	if updated {
		if err := p.repo.Save(ctx, aggregateID, view, lastSequence); err != nil {
			return fmt.Errorf("veloxide: projector %q failed to save view for %q: %w", p.Name(), aggregateID, err)
		}
	}
	return gapErr
}
