package veloxide

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Serializer handles event payload serialization and deserialization.
type Serializer interface {
	// Serialize converts a domain event to bytes.
	Serialize(event DomainEvent) ([]byte, error)

	// Deserialize converts bytes back to a domain event. The eventType is
	// used to select the registered target type.
	Deserialize(eventType string, data []byte) (DomainEvent, error)
}

// EventFactory produces a new zero-value instance of one event variant,
// ready to be deserialized into.
type EventFactory func() DomainEvent

// EventRegistry maps persisted event type names to event factories. It is
// shared by serializer implementations so the same registrations serve JSON
// and binary codecs alike.
type EventRegistry struct {
	mu        sync.RWMutex
	factories map[string]EventFactory
}

// NewEventRegistry creates a new empty EventRegistry.
func NewEventRegistry() *EventRegistry {
	return &EventRegistry{
		factories: make(map[string]EventFactory),
	}
}

// Register adds factories for one or more event variants. The registration
// key is taken from the produced event's EventType().
func (r *EventRegistry) Register(factories ...EventFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range factories {
		r.factories[f().EventType()] = f
	}
}

// New returns a fresh zero-value event for the given type name.
func (r *EventRegistry) New(eventType string) (DomainEvent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[eventType]
	if !ok {
		return nil, false
	}
	return f(), true
}

// RegisteredTypes returns the registered event type names.
func (r *EventRegistry) RegisteredTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	return types
}

// Count returns the number of registered event types.
func (r *EventRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

// JSONSerializer is the default Serializer implementation using JSON
// encoding.
type JSONSerializer struct {
	registry *EventRegistry
}

// NewJSONSerializer creates a new JSONSerializer backed by the given
// registry. A nil registry gets replaced with an empty one.
func NewJSONSerializer(registry *EventRegistry) *JSONSerializer {
	if registry == nil {
		registry = NewEventRegistry()
	}
	return &JSONSerializer{registry: registry}
}

// Registry returns the underlying EventRegistry.
func (s *JSONSerializer) Registry() *EventRegistry {
	return s.registry
}

// Serialize converts a domain event to JSON bytes.
func (s *JSONSerializer) Serialize(event DomainEvent) ([]byte, error) {
	if event == nil {
		return nil, NewSerializationError("nil", "serialize", fmt.Errorf("event cannot be nil"))
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, NewSerializationError(event.EventType(), "serialize", err)
	}
	return data, nil
}

// Deserialize converts JSON bytes back to a domain event of the registered
// type. Unregistered types are an error: the event log must never contain
// events the application cannot interpret.
func (s *JSONSerializer) Deserialize(eventType string, data []byte) (DomainEvent, error) {
	if len(data) == 0 {
		return nil, NewSerializationError(eventType, "deserialize", fmt.Errorf("data cannot be empty"))
	}

	event, ok := s.registry.New(eventType)
	if !ok {
		return nil, NewEventTypeNotRegisteredError(eventType)
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, NewSerializationError(eventType, "deserialize", err)
	}
	return event, nil
}
