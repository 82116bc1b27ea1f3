package veloxide

import (
	"context"
	"fmt"
)

// Subscriber consumes batches of newly committed envelopes for an aggregate
// ID, in commit order. Subscribers only ever see the envelopes just
// committed, never historical ones.
type Subscriber interface {
	// Name identifies the subscriber in logs.
	Name() string

	// Dispatch processes the committed envelopes. Dispatch is invoked
	// synchronously after a successful append, once per executed command.
	Dispatch(ctx context.Context, aggregateID string, events []Envelope) error
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc struct {
	name string
	fn   func(ctx context.Context, aggregateID string, events []Envelope) error
}

// NewSubscriberFunc creates a Subscriber from a function.
func NewSubscriberFunc(name string, fn func(ctx context.Context, aggregateID string, events []Envelope) error) *SubscriberFunc {
	return &SubscriberFunc{name: name, fn: fn}
}

// Name returns the subscriber's name.
func (s *SubscriberFunc) Name() string { return s.name }

// Dispatch invokes the wrapped function.
func (s *SubscriberFunc) Dispatch(ctx context.Context, aggregateID string, events []Envelope) error {
	return s.fn(ctx, aggregateID, events)
}

// Dispatcher fans committed envelopes out to a fixed, ordered list of
// subscribers. A subscriber's failure (error or panic) is logged and must
// not prevent the remaining subscribers from running: by the time the
// dispatcher runs, the write has already succeeded, so subscriber errors are
// never propagated to the command's caller.
type Dispatcher struct {
	subscribers []Subscriber
	logger      Logger
}

// NewDispatcher creates a Dispatcher over the given subscribers.
func NewDispatcher(logger Logger, subscribers ...Subscriber) *Dispatcher {
	if logger == nil {
		logger = &noopLogger{}
	}
	return &Dispatcher{subscribers: subscribers, logger: logger}
}

// Subscribe appends subscribers to the dispatch list.
func (d *Dispatcher) Subscribe(subscribers ...Subscriber) {
	d.subscribers = append(d.subscribers, subscribers...)
}

// Count returns the number of registered subscribers.
func (d *Dispatcher) Count() int {
	return len(d.subscribers)
}

// Dispatch delivers the envelopes to every subscriber in registration order.
func (d *Dispatcher) Dispatch(ctx context.Context, aggregateID string, events []Envelope) {
	for _, sub := range d.subscribers {
		if err := d.dispatchOne(ctx, sub, aggregateID, events); err != nil {
			d.logger.Error("subscriber dispatch failed",
				"subscriber", sub.Name(), "aggregate_id", aggregateID, "error", err)
		}
	}
}

func (d *Dispatcher) dispatchOne(ctx context.Context, sub Subscriber, aggregateID string, events []Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("veloxide: subscriber %q panicked: %v", sub.Name(), r)
		}
	}()
	return sub.Dispatch(ctx, aggregateID, events)
}

// LoggingSubscriber logs every committed envelope. It is the simplest
// possible subscriber and is useful as an audit trail during development.
type LoggingSubscriber struct {
	logger Logger
}

// NewLoggingSubscriber creates a LoggingSubscriber.
func NewLoggingSubscriber(logger Logger) *LoggingSubscriber {
	if logger == nil {
		logger = &noopLogger{}
	}
	return &LoggingSubscriber{logger: logger}
}

// Name returns the subscriber's name.
func (s *LoggingSubscriber) Name() string { return "logging" }

// Dispatch logs each envelope in the committed batch.
func (s *LoggingSubscriber) Dispatch(ctx context.Context, aggregateID string, events []Envelope) error {
	for _, env := range events {
		s.logger.Info("event committed",
			"aggregate_id", aggregateID,
			"sequence", env.Sequence,
			"event_type", env.EventType,
			"payload", fmt.Sprintf("%+v", env.Payload))
	}
	return nil
}
