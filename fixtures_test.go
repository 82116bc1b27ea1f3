package veloxide

import (
	"context"
	"errors"
	"fmt"
)

// Test fixture: a minimal counter aggregate used across the package tests.

type counterCreated struct {
	CounterID string `json:"counter_id"`
}

func (e *counterCreated) EventType() string    { return "CounterCreated" }
func (e *counterCreated) EventVersion() string { return "1.0" }

type counterIncremented struct {
	Amount int `json:"amount"`
	Total  int `json:"total"`
}

func (e *counterIncremented) EventType() string    { return "CounterIncremented" }
func (e *counterIncremented) EventVersion() string { return "1.0" }

type createCounter struct {
	CounterID string
}

func (c createCounter) CommandType() string { return "CreateCounter" }

func (c createCounter) Validate() error {
	if c.CounterID == "" {
		return NewValidationError(c.CommandType(), "counter_id", "must not be empty")
	}
	return nil
}

type incrementCounter struct {
	Amount int
}

func (c incrementCounter) CommandType() string { return "IncrementCounter" }
func (c incrementCounter) Validate() error     { return nil }

// noop is a command the counter aggregate accepts without producing events.
type noop struct{}

func (noop) CommandType() string { return "Noop" }
func (noop) Validate() error     { return nil }

var errCounterExists = errors.New("counter already exists")
var errNegativeIncrement = errors.New("cannot increment by a negative amount")

type counter struct {
	id     string
	total  int
	exists bool
}

func newCounter() Aggregate { return &counter{} }

func (c *counter) AggregateType() string { return "counter" }

func (c *counter) Handle(ctx context.Context, cmd Command) ([]DomainEvent, error) {
	switch cmd := cmd.(type) {
	case createCounter:
		if c.exists {
			return nil, errCounterExists
		}
		return []DomainEvent{&counterCreated{CounterID: cmd.CounterID}}, nil
	case incrementCounter:
		if cmd.Amount < 0 {
			return nil, errNegativeIncrement
		}
		return []DomainEvent{&counterIncremented{Amount: cmd.Amount, Total: c.total + cmd.Amount}}, nil
	case noop:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.CommandType())
	}
}

func (c *counter) Apply(event DomainEvent) {
	switch e := event.(type) {
	case *counterCreated:
		c.id = e.CounterID
		c.exists = true
	case *counterIncremented:
		c.total = e.Total
	}
}

func newCounterRegistry() *EventRegistry {
	r := NewEventRegistry()
	r.Register(
		func() DomainEvent { return &counterCreated{} },
		func() DomainEvent { return &counterIncremented{} },
	)
	return r
}

// counterView mirrors the counter state on the read side.
type counterView struct {
	CounterID  string `json:"counter_id"`
	Total      int    `json:"total"`
	Increments int    `json:"increments"`
}

func (v *counterView) Update(env Envelope) {
	switch e := env.Payload.(type) {
	case *counterCreated:
		v.CounterID = e.CounterID
	case *counterIncremented:
		v.Total = e.Total
		v.Increments++
	}
}
