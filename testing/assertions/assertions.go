// Package assertions provides event assertion helpers for tests of
// event-sourced code.
package assertions

import (
	"testing"

	"github.com/liamwh/veloxide"
)

// TB is an alias for testing.TB to allow mocking in tests.
type TB = testing.TB

// EventTypes checks that the events have the expected types, in order.
func EventTypes(t TB, events []veloxide.DomainEvent, types ...string) {
	t.Helper()

	if len(events) != len(types) {
		t.Fatalf("expected %d events, got %d", len(types), len(events))
	}
	for i, expected := range types {
		if actual := events[i].EventType(); actual != expected {
			t.Errorf("event %d: expected type %s, got %s", i, expected, actual)
		}
	}
}

// EnvelopeTypes checks that the envelopes carry the expected event types,
// in order.
func EnvelopeTypes(t TB, envelopes []veloxide.Envelope, types ...string) {
	t.Helper()

	if len(envelopes) != len(types) {
		t.Fatalf("expected %d envelopes, got %d", len(types), len(envelopes))
	}
	for i, expected := range types {
		if envelopes[i].EventType != expected {
			t.Errorf("envelope %d: expected type %s, got %s", i, expected, envelopes[i].EventType)
		}
	}
}

// GaplessSequences checks that envelope sequences start at the given
// sequence and increase by exactly one.
func GaplessSequences(t TB, envelopes []veloxide.Envelope, first int64) {
	t.Helper()

	for i, env := range envelopes {
		want := first + int64(i)
		if env.Sequence != want {
			t.Errorf("envelope %d: expected sequence %d, got %d", i, want, env.Sequence)
		}
	}
}
