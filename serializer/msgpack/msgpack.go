// Package msgpack provides a MessagePack serializer for veloxide.
//
// MessagePack is a binary serialization format that produces smaller payloads
// than JSON. It is useful for high-throughput event streams where payload
// size matters more than human readability.
//
// Basic usage:
//
//	registry := veloxide.NewEventRegistry()
//	bank.RegisterEvents(registry)
//	serializer := msgpack.NewSerializer(registry)
//
//	store := veloxide.NewEventStore(adapter, veloxide.WithSerializer(serializer))
package msgpack

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/liamwh/veloxide"
)

// Serializer is a MessagePack implementation of veloxide.Serializer.
// Event types are resolved through the shared event registry.
type Serializer struct {
	registry *veloxide.EventRegistry
}

// NewSerializer creates a MessagePack serializer backed by the given
// registry. A nil registry is replaced with an empty one.
func NewSerializer(registry *veloxide.EventRegistry) *Serializer {
	if registry == nil {
		registry = veloxide.NewEventRegistry()
	}
	return &Serializer{registry: registry}
}

// Serialize encodes an event to MessagePack bytes.
func (s *Serializer) Serialize(event veloxide.DomainEvent) ([]byte, error) {
	data, err := msgpack.Marshal(event)
	if err != nil {
		return nil, veloxide.NewSerializationError(event.EventType(), "serialize", err)
	}
	return data, nil
}

// Deserialize decodes MessagePack bytes into a registered event type.
func (s *Serializer) Deserialize(eventType string, data []byte) (veloxide.DomainEvent, error) {
	event, ok := s.registry.New(eventType)
	if !ok {
		return nil, veloxide.NewEventTypeNotRegisteredError(eventType)
	}
	if err := msgpack.Unmarshal(data, event); err != nil {
		return nil, veloxide.NewSerializationError(eventType, "deserialize", err)
	}
	return event, nil
}

var _ veloxide.Serializer = (*Serializer)(nil)
