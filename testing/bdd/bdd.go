// Package bdd provides Given-When-Then test fixtures for event-sourced
// aggregates: establish prior events, handle a command, assert on the
// resulting events or error.
package bdd

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/liamwh/veloxide"
)

// TB is an alias for testing.TB to allow mocking in fixture tests.
type TB = testing.TB

// TestFixture drives a single Given-When-Then scenario.
type TestFixture struct {
	t           TB
	aggregate   veloxide.Aggregate
	givenEvents []veloxide.DomainEvent

	produced []veloxide.DomainEvent
	result   error
	executed bool
}

// Given sets up the aggregate with its prior events. The events are folded
// through Apply when the command runs.
func Given(t TB, aggregate veloxide.Aggregate, events ...veloxide.DomainEvent) *TestFixture {
	t.Helper()
	return &TestFixture{
		t:           t,
		aggregate:   aggregate,
		givenEvents: events,
	}
}

// When replays the given events and handles the command.
func (f *TestFixture) When(cmd veloxide.Command) *TestFixture {
	return f.WhenContext(context.Background(), cmd)
}

// WhenContext is When with a caller-supplied context, for commands whose
// handling calls external services.
func (f *TestFixture) WhenContext(ctx context.Context, cmd veloxide.Command) *TestFixture {
	f.t.Helper()

	for _, event := range f.givenEvents {
		f.aggregate.Apply(event)
	}

	f.produced, f.result = f.aggregate.Handle(ctx, cmd)
	f.executed = true
	return f
}

// Then asserts the command succeeded and produced exactly the expected
// events, in order.
func (f *TestFixture) Then(expectedEvents ...veloxide.DomainEvent) {
	f.t.Helper()
	f.requireExecuted("Then")

	if f.result != nil {
		f.t.Fatalf("expected success but got error: %v", f.result)
	}

	if len(f.produced) != len(expectedEvents) {
		f.t.Fatalf("expected %d events, got %d\nexpected: %+v\nactual:   %+v",
			len(expectedEvents), len(f.produced), expectedEvents, f.produced)
	}

	for i, expected := range expectedEvents {
		if !reflect.DeepEqual(f.produced[i], expected) {
			f.t.Errorf("event %d mismatch:\nexpected: %+v\nactual:   %+v",
				i, expected, f.produced[i])
		}
	}
}

// ThenError asserts the command was rejected with the expected error.
func (f *TestFixture) ThenError(expectedErr error) {
	f.t.Helper()
	f.requireExecuted("ThenError")

	if f.result == nil {
		f.t.Fatal("expected error but got success")
	}
	if !errors.Is(f.result, expectedErr) {
		f.t.Errorf("expected error %v, got %v", expectedErr, f.result)
	}
}

// ThenErrorContains asserts the rejection message contains a substring.
func (f *TestFixture) ThenErrorContains(substring string) {
	f.t.Helper()
	f.requireExecuted("ThenErrorContains")

	if f.result == nil {
		f.t.Fatal("expected error but got success")
	}
	if !strings.Contains(f.result.Error(), substring) {
		f.t.Errorf("expected error containing %q, got %q", substring, f.result.Error())
	}
}

// ThenNoEvents asserts the command succeeded without producing events.
func (f *TestFixture) ThenNoEvents() {
	f.t.Helper()
	f.requireExecuted("ThenNoEvents")

	if f.result != nil {
		f.t.Fatalf("expected success but got error: %v", f.result)
	}
	if len(f.produced) != 0 {
		f.t.Errorf("expected no events, got %d: %+v", len(f.produced), f.produced)
	}
}

func (f *TestFixture) requireExecuted(step string) {
	f.t.Helper()
	if !f.executed {
		f.t.Fatalf("bdd: %s() must be called after When()", step)
	}
}
