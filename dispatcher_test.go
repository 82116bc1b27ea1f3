package veloxide

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_DeliversInRegistrationOrder(t *testing.T) {
	var order []string
	sub := func(name string) Subscriber {
		return NewSubscriberFunc(name, func(ctx context.Context, aggregateID string, events []Envelope) error {
			order = append(order, name)
			return nil
		})
	}

	d := NewDispatcher(nil, sub("a"), sub("b"))
	d.Subscribe(sub("c"))

	d.Dispatch(context.Background(), "agg-1", []Envelope{{Sequence: 1}})

	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 3, d.Count())
}

func TestDispatcher_FailureIsIsolated(t *testing.T) {
	var reached []string

	d := NewDispatcher(nil,
		NewSubscriberFunc("failing", func(ctx context.Context, aggregateID string, events []Envelope) error {
			reached = append(reached, "failing")
			return errors.New("downstream unavailable")
		}),
		NewSubscriberFunc("healthy", func(ctx context.Context, aggregateID string, events []Envelope) error {
			reached = append(reached, "healthy")
			return nil
		}),
	)

	d.Dispatch(context.Background(), "agg-1", []Envelope{{Sequence: 1}})
	assert.Equal(t, []string{"failing", "healthy"}, reached)
}

func TestDispatcher_PanicIsIsolated(t *testing.T) {
	var reached []string

	d := NewDispatcher(nil,
		NewSubscriberFunc("panicking", func(ctx context.Context, aggregateID string, events []Envelope) error {
			panic("projection bug")
		}),
		NewSubscriberFunc("healthy", func(ctx context.Context, aggregateID string, events []Envelope) error {
			reached = append(reached, "healthy")
			return nil
		}),
	)

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), "agg-1", []Envelope{{Sequence: 1}})
	})
	assert.Equal(t, []string{"healthy"}, reached)
}

func TestLoggingSubscriber(t *testing.T) {
	s := NewLoggingSubscriber(nil)
	assert.Equal(t, "logging", s.Name())

	err := s.Dispatch(context.Background(), "agg-1", []Envelope{
		{Sequence: 1, EventType: "CounterCreated", Payload: &counterCreated{CounterID: "agg-1"}},
	})
	assert.NoError(t, err)
}
