package veloxide

import (
	"context"
	"fmt"
)

// ExecuteFunc is the signature of one command execution. Middleware wraps it.
type ExecuteFunc func(ctx context.Context, aggregateID string, cmd Command, metadata Metadata) error

// Middleware wraps command execution with additional behavior (validation,
// logging, metrics, tracing). Middleware runs in registration order.
type Middleware func(next ExecuteFunc) ExecuteFunc

// Executor orchestrates one command against one aggregate: it loads the
// aggregate's event history, replays it to reconstruct current state, asks
// the aggregate to handle the command, commits the produced events with a
// concurrency guard, and notifies subscribers with the committed envelopes.
//
// Many Execute calls may run concurrently against the same aggregate ID; the
// per-aggregate total order is enforced only at the commit step. When two
// writers race, one wins and the other receives ErrConcurrencyConflict. The
// executor never retries on conflict; retry policy belongs to the caller.
type Executor struct {
	store        *EventStore
	newAggregate AggregateFactory
	dispatcher   *Dispatcher
	logger       Logger
	exec         ExecuteFunc
	middleware   []Middleware
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithSubscribers registers subscribers to be notified after each successful
// commit, in the given order.
func WithSubscribers(subscribers ...Subscriber) ExecutorOption {
	return func(e *Executor) {
		e.dispatcher.Subscribe(subscribers...)
	}
}

// WithLogger sets the executor's logger.
func WithLogger(l Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = l
		e.dispatcher.logger = l
	}
}

// WithMiddleware adds middleware around command execution.
func WithMiddleware(middleware ...Middleware) ExecutorOption {
	return func(e *Executor) {
		e.middleware = append(e.middleware, middleware...)
	}
}

// NewExecutor creates an Executor for one aggregate kind. The factory is
// invoked once per Execute call to produce a fresh aggregate in its initial
// state; external services the aggregate needs are closed over by the
// factory.
func NewExecutor(store *EventStore, factory AggregateFactory, opts ...ExecutorOption) *Executor {
	e := &Executor{
		store:        store,
		newAggregate: factory,
		dispatcher:   NewDispatcher(nil),
		logger:       &noopLogger{},
	}

	for _, opt := range opts {
		opt(e)
	}

	// Apply middleware in reverse so it executes in registration order.
	chain := e.execute
	for i := len(e.middleware) - 1; i >= 0; i-- {
		chain = e.middleware[i](chain)
	}
	e.exec = chain

	return e
}

// Execute runs one command against the aggregate identified by aggregateID.
//
// On a business rejection the returned error matches ErrCommandRejected and
// wraps the domain error verbatim; nothing is appended and no subscribers
// are notified. On a lost optimistic concurrency race the error matches
// ErrConcurrencyConflict. Anything else is an infrastructure failure.
func (e *Executor) Execute(ctx context.Context, aggregateID string, cmd Command, metadata Metadata) error {
	if cmd == nil {
		return ErrNilCommand
	}
	if aggregateID == "" {
		return ErrEmptyAggregateID
	}
	return e.exec(ctx, aggregateID, cmd, metadata)
}

func (e *Executor) execute(ctx context.Context, aggregateID string, cmd Command, metadata Metadata) error {
	aggregate := e.newAggregate()

	history, err := e.store.LoadHistory(ctx, aggregate.AggregateType(), aggregateID)
	if err != nil {
		return fmt.Errorf("veloxide: failed to load history for %q: %w", aggregateID, err)
	}

	// Replay: fold the full history into a fresh state. State lives only for
	// the duration of this call.
	var lastSequence int64
	for _, env := range history {
		aggregate.Apply(env.Payload)
		lastSequence = env.Sequence
	}

	events, err := aggregate.Handle(ctx, cmd)
	if err != nil {
		return NewCommandRejectedError(aggregateID, cmd.CommandType(), err)
	}
	if len(events) == 0 {
		return nil
	}

	committed, err := e.store.Commit(ctx, aggregate.AggregateType(), aggregateID, lastSequence, events, metadata)
	if err != nil {
		return err
	}

	e.dispatcher.Dispatch(ctx, aggregateID, committed)
	return nil
}

// Dispatcher returns the executor's subscriber dispatcher.
func (e *Executor) Dispatcher() *Dispatcher {
	return e.dispatcher
}

// Store returns the executor's event store.
func (e *Executor) Store() *EventStore {
	return e.store
}
