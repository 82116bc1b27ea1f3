package veloxide

import "context"

// Aggregate is the contract for event-sourced aggregates: a state machine
// whose current state is derived exclusively from its ordered event history.
//
// Implementations own a plain state structure that is mutated only through
// Apply. State is ephemeral: the executor reconstructs it from the event log
// on every command and discards it afterwards.
type Aggregate interface {
	// AggregateType returns the category of this aggregate (e.g. "account").
	// It is used as the stream category and should be unique in the system.
	AggregateType() string

	// Handle decides whether the command is acceptable given the current
	// state and, if so, which events follow from it. It must not mutate
	// state, and apart from calls to injected external services it must be
	// free of side effects: nothing is persisted until the executor commits
	// the returned events.
	Handle(ctx context.Context, cmd Command) ([]DomainEvent, error)

	// Apply folds a single event into the aggregate's state. It is total:
	// one case per event variant, and it never fails. Events are applied
	// sequentially, in commit order, exactly once.
	Apply(event DomainEvent)
}

// AggregateFactory creates a fresh aggregate instance in its initial
// ("does not yet exist") state. External services an aggregate kind depends
// on are injected here, keeping the executor generic over aggregate kinds.
type AggregateFactory func() Aggregate
