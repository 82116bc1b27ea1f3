// Package memory provides in-memory implementations of the event log and
// view store adapters. They are thread-safe and primarily intended for
// testing and development.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/liamwh/veloxide/adapters"
)

// Sequence constants re-exported from the adapters package for convenience.
const (
	AnySequence  = adapters.AnySequence
	NoStream     = adapters.NoStream
	StreamExists = adapters.StreamExists
)

// Ensure Adapter implements the required interfaces.
var (
	_ adapters.EventStoreAdapter = (*Adapter)(nil)
	_ adapters.HealthChecker     = (*Adapter)(nil)
)

// Adapter is an in-memory implementation of EventStoreAdapter.
type Adapter struct {
	mu      sync.RWMutex
	streams map[string]*streamData
	closed  bool
}

type streamData struct {
	info   adapters.StreamInfo
	events []adapters.StoredEvent
}

// NewAdapter creates a new in-memory event log adapter.
func NewAdapter() *Adapter {
	return &Adapter{
		streams: make(map[string]*streamData),
	}
}

// Initialize is a no-op for the memory adapter.
func (a *Adapter) Initialize(ctx context.Context) error {
	return nil
}

// Append stores events to the specified stream with optimistic concurrency
// control.
func (a *Adapter) Append(ctx context.Context, streamID string, events []adapters.EventRecord, expectedSequence int64) ([]adapters.StoredEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, adapters.ErrAdapterClosed
	}
	if streamID == "" {
		return nil, adapters.ErrEmptyStreamID
	}
	if len(events) == 0 {
		return nil, adapters.ErrNoEvents
	}

	stream, exists := a.streams[streamID]
	currentSequence := int64(0)
	if exists {
		currentSequence = stream.info.LastSequence
	}

	if err := adapters.CheckSequence(streamID, expectedSequence, currentSequence, exists); err != nil {
		return nil, err
	}

	now := time.Now()
	if !exists {
		stream = &streamData{
			info: adapters.StreamInfo{
				StreamID:  streamID,
				Category:  adapters.ExtractCategory(streamID),
				CreatedAt: now,
				UpdatedAt: now,
			},
		}
		a.streams[streamID] = stream
	}

	stored := make([]adapters.StoredEvent, len(events))
	for i, event := range events {
		currentSequence++
		rec := adapters.StoredEvent{
			ID:           uuid.New().String(),
			StreamID:     streamID,
			EventType:    event.EventType,
			EventVersion: event.EventVersion,
			Data:         event.Data,
			Metadata:     adapters.CopyMetadata(event.Metadata),
			Sequence:     currentSequence,
			Timestamp:    now,
		}
		stream.events = append(stream.events, rec)
		stored[i] = rec
	}

	stream.info.LastSequence = currentSequence
	stream.info.EventCount = int64(len(stream.events))
	stream.info.UpdatedAt = now

	return stored, nil
}

// Load retrieves events from a stream with sequence greater than
// fromSequence, in ascending order.
func (a *Adapter) Load(ctx context.Context, streamID string, fromSequence int64) ([]adapters.StoredEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return nil, adapters.ErrAdapterClosed
	}
	if streamID == "" {
		return nil, adapters.ErrEmptyStreamID
	}

	stream, exists := a.streams[streamID]
	if !exists {
		return []adapters.StoredEvent{}, nil
	}

	events := make([]adapters.StoredEvent, 0, len(stream.events))
	for _, event := range stream.events {
		if event.Sequence > fromSequence {
			events = append(events, event)
		}
	}
	return events, nil
}

// GetStreamInfo returns metadata about a stream.
func (a *Adapter) GetStreamInfo(ctx context.Context, streamID string) (*adapters.StreamInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return nil, adapters.ErrAdapterClosed
	}

	stream, exists := a.streams[streamID]
	if !exists {
		return nil, adapters.NewStreamNotFoundError(streamID)
	}

	info := stream.info
	return &info, nil
}

// Ping reports whether the adapter is usable.
func (a *Adapter) Ping(ctx context.Context) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return adapters.ErrAdapterClosed
	}
	return nil
}

// Close releases the adapter. Subsequent operations fail with
// ErrAdapterClosed.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}
