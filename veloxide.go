// Package veloxide implements an event-sourced aggregate core.
//
// A domain entity's current state is derived exclusively from an ordered,
// append-only log of events. Commands are validated against that replayed
// state to produce new events, appends are guarded by optimistic concurrency
// checks, and materialized read views are folded from committed events.
//
// # Quick start
//
// Create an event store with the in-memory adapter for development:
//
//	registry := veloxide.NewEventRegistry()
//	bank.RegisterEvents(registry)
//
//	store := veloxide.NewEventStore(memory.NewAdapter(),
//	    veloxide.WithSerializer(veloxide.NewJSONSerializer(registry)))
//
// Wire an executor for one aggregate kind, with a projector keeping the read
// model consistent:
//
//	views := veloxide.NewViewRepository[bank.AccountView]("account_view", memory.NewViewStore())
//	projector := veloxide.NewProjector[bank.AccountView, *bank.AccountView](views, logger)
//
//	executor := veloxide.NewExecutor(store,
//	    func() veloxide.Aggregate { return bank.NewAccount(bank.HappyPathServices{}) },
//	    veloxide.WithSubscribers(veloxide.NewLoggingSubscriber(logger), projector),
//	)
//
// Execute commands and read views:
//
//	err := executor.Execute(ctx, "A1", bank.OpenAccount{AccountID: "A1"}, nil)
//	view, _, err := views.Load(ctx, "A1")
//
// For production, use the PostgreSQL adapter from adapters/postgres.
package veloxide

// Version returns the library version string.
func Version() string {
	return "0.3.0"
}
