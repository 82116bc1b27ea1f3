package bank

import (
	"context"

	"github.com/liamwh/veloxide"
	"github.com/liamwh/veloxide/adapters"
)

// Service is the application boundary for the bank domain: it executes
// commands against account aggregates and answers view queries.
type Service struct {
	executor *veloxide.Executor
	views    *veloxide.ViewRepository[AccountView]
}

// NewService wires an executor and a view repository into a bank service.
func NewService(executor *veloxide.Executor, views *veloxide.ViewRepository[AccountView]) *Service {
	return &Service{executor: executor, views: views}
}

// SerializerFactory builds a payload codec over a populated event registry.
type SerializerFactory func(*veloxide.EventRegistry) veloxide.Serializer

// NewDefaultService assembles a complete bank service on top of the given
// adapters: JSON serialization with all account events registered, the
// account view projector subscribed, plus any extra subscribers.
func NewDefaultService(eventStore adapters.EventStoreAdapter, viewStore adapters.ViewStoreAdapter, services AccountAPI, opts ...veloxide.ExecutorOption) *Service {
	return NewServiceWithSerializer(eventStore, viewStore, services, func(r *veloxide.EventRegistry) veloxide.Serializer {
		return veloxide.NewJSONSerializer(r)
	}, opts...)
}

// NewServiceWithSerializer is NewDefaultService with the payload codec
// supplied by the caller, e.g. the msgpack serializer.
func NewServiceWithSerializer(eventStore adapters.EventStoreAdapter, viewStore adapters.ViewStoreAdapter, services AccountAPI, newSerializer SerializerFactory, opts ...veloxide.ExecutorOption) *Service {
	registry := veloxide.NewEventRegistry()
	RegisterEvents(registry)

	store := veloxide.NewEventStore(eventStore,
		veloxide.WithSerializer(newSerializer(registry)),
	)

	views := veloxide.NewViewRepository[AccountView](ViewName, viewStore)
	projector := veloxide.NewProjector[AccountView, *AccountView](views, veloxide.NopLogger())

	opts = append([]veloxide.ExecutorOption{
		veloxide.WithSubscribers(projector),
	}, opts...)

	executor := veloxide.NewExecutor(store, NewAccountFactory(services), opts...)
	return NewService(executor, views)
}

// ExecuteCommand runs a command against the account with the given ID.
func (s *Service) ExecuteCommand(ctx context.Context, accountID string, cmd veloxide.Command) error {
	return s.executor.Execute(ctx, accountID, cmd, nil)
}

// ExecuteCommandWithMetadata runs a command with the given metadata attached
// to every resulting event.
func (s *Service) ExecuteCommandWithMetadata(ctx context.Context, accountID string, cmd veloxide.Command, metadata veloxide.Metadata) error {
	return s.executor.Execute(ctx, accountID, cmd, metadata)
}

// AccountView returns the materialized view for the given account, or
// veloxide.ErrViewNotFound when no events have been projected for it.
func (s *Service) AccountView(ctx context.Context, accountID string) (*AccountView, error) {
	view, _, err := s.views.Load(ctx, accountID)
	return view, err
}

// Executor exposes the underlying command executor, e.g. for attaching
// additional subscribers.
func (s *Service) Executor() *veloxide.Executor { return s.executor }
