// Package postgres provides PostgreSQL implementations of the event log and
// view store adapters, using the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/liamwh/veloxide/adapters"
)

// Sequence constants for optimistic concurrency control.
const (
	AnySequence  int64 = -1
	NoStream     int64 = 0
	StreamExists int64 = -2
)

// Sentinel errors re-exported from the adapters package for errors.Is
// compatibility.
var (
	ErrAdapterClosed       = adapters.ErrAdapterClosed
	ErrEmptyStreamID       = adapters.ErrEmptyStreamID
	ErrNoEvents            = adapters.ErrNoEvents
	ErrConcurrencyConflict = adapters.ErrConcurrencyConflict
	ErrStreamNotFound      = adapters.ErrStreamNotFound
	ErrInvalidSequence     = adapters.ErrInvalidSequence
	ErrViewNotFound        = adapters.ErrViewNotFound
)

// Ensure Adapter implements the required interfaces.
var (
	_ adapters.EventStoreAdapter = (*Adapter)(nil)
	_ adapters.ViewStoreAdapter  = (*Adapter)(nil)
	_ adapters.HealthChecker     = (*Adapter)(nil)
)

// Adapter is a PostgreSQL implementation of the event log and view store.
// One adapter serves both: an append-only events table and a key-value
// views table share the same schema and connection pool.
type Adapter struct {
	db     *sql.DB
	schema string
	closed bool
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithSchema sets the database schema name. Default "veloxide".
func WithSchema(schema string) Option {
	return func(a *Adapter) {
		a.schema = schema
	}
}

// WithMaxConnections sets the maximum number of open connections.
func WithMaxConnections(n int) Option {
	return func(a *Adapter) {
		a.db.SetMaxOpenConns(n)
	}
}

// WithConnectionMaxLifetime sets the maximum connection lifetime.
func WithConnectionMaxLifetime(d time.Duration) Option {
	return func(a *Adapter) {
		a.db.SetConnMaxLifetime(d)
	}
}

// NewAdapter creates a new PostgreSQL adapter from a connection string.
func NewAdapter(connStr string, opts ...Option) (*Adapter, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("veloxide/postgres: failed to open database: %w", err)
	}
	return NewAdapterWithDB(db, opts...), nil
}

// NewAdapterWithDB creates a new adapter with an existing database handle.
func NewAdapterWithDB(db *sql.DB, opts ...Option) *Adapter {
	a := &Adapter{
		db:     db,
		schema: "veloxide",
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Initialize creates the required schema and tables.
func (a *Adapter) Initialize(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, a.schema),

		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.streams (
			stream_id     VARCHAR(500) PRIMARY KEY,
			category      VARCHAR(250) NOT NULL,
			last_sequence BIGINT NOT NULL DEFAULT 0,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, a.schema),

		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.events (
			event_id      UUID NOT NULL DEFAULT gen_random_uuid(),
			stream_id     VARCHAR(500) NOT NULL,
			sequence      BIGINT NOT NULL,
			event_type    VARCHAR(500) NOT NULL,
			event_version VARCHAR(50) NOT NULL DEFAULT '1.0',
			payload       JSONB NOT NULL,
			metadata      JSONB,
			committed_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (stream_id, sequence)
		)`, a.schema),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_streams_category ON %s.streams(category)`, a.schema),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_events_type ON %s.events(event_type)`, a.schema),

		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.views (
			view_name     VARCHAR(250) NOT NULL,
			view_id       VARCHAR(500) NOT NULL,
			payload       JSONB NOT NULL,
			last_sequence BIGINT NOT NULL DEFAULT 0,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (view_name, view_id)
		)`, a.schema),
	}

	for _, stmt := range stmts {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("veloxide/postgres: failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Append stores events to the specified stream with optimistic concurrency
// control. The stream row is locked FOR UPDATE for the duration of the
// transaction, serializing writers per aggregate ID; the UNIQUE constraint
// on (stream_id, sequence) is the final guard against overlapping appends.
func (a *Adapter) Append(ctx context.Context, streamID string, events []adapters.EventRecord, expectedSequence int64) ([]adapters.StoredEvent, error) {
	if a.closed {
		return nil, ErrAdapterClosed
	}
	if streamID == "" {
		return nil, ErrEmptyStreamID
	}
	if len(events) == 0 {
		return nil, ErrNoEvents
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("veloxide/postgres: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var currentSequence int64
	var streamExists bool

	err = tx.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT last_sequence FROM %s.streams
		WHERE stream_id = $1
		FOR UPDATE`, a.schema), streamID).Scan(&currentSequence)

	switch {
	case err == sql.ErrNoRows:
		streamExists = false
	case err != nil:
		return nil, fmt.Errorf("veloxide/postgres: failed to get stream sequence: %w", err)
	default:
		streamExists = true
	}

	if err := adapters.CheckSequence(streamID, expectedSequence, currentSequence, streamExists); err != nil {
		return nil, err
	}

	if !streamExists {
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %s.streams (stream_id, category, last_sequence)
			VALUES ($1, $2, 0)`, a.schema), streamID, adapters.ExtractCategory(streamID))
		if err != nil {
			return nil, fmt.Errorf("veloxide/postgres: failed to create stream: %w", err)
		}
	}

	stored := make([]adapters.StoredEvent, len(events))
	for i, event := range events {
		currentSequence++

		metadataJSON, err := json.Marshal(event.Metadata)
		if err != nil {
			return nil, fmt.Errorf("veloxide/postgres: failed to marshal metadata: %w", err)
		}

		var eventID string
		var committedAt time.Time

		err = tx.QueryRowContext(ctx, fmt.Sprintf(`
			INSERT INTO %s.events (stream_id, sequence, event_type, event_version, payload, metadata)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING event_id, committed_at`, a.schema),
			streamID, currentSequence, event.EventType, event.EventVersion, event.Data, metadataJSON,
		).Scan(&eventID, &committedAt)
		if err != nil {
			return nil, fmt.Errorf("veloxide/postgres: failed to insert event: %w", err)
		}

		stored[i] = adapters.StoredEvent{
			ID:           eventID,
			StreamID:     streamID,
			EventType:    event.EventType,
			EventVersion: event.EventVersion,
			Data:         event.Data,
			Metadata:     event.Metadata,
			Sequence:     currentSequence,
			Timestamp:    committedAt,
		}
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE %s.streams
		SET last_sequence = $1, updated_at = NOW()
		WHERE stream_id = $2`, a.schema), currentSequence, streamID)
	if err != nil {
		return nil, fmt.Errorf("veloxide/postgres: failed to update stream sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("veloxide/postgres: failed to commit transaction: %w", err)
	}

	return stored, nil
}

// Load retrieves events from a stream with sequence greater than
// fromSequence, in ascending order.
func (a *Adapter) Load(ctx context.Context, streamID string, fromSequence int64) ([]adapters.StoredEvent, error) {
	if a.closed {
		return nil, ErrAdapterClosed
	}
	if streamID == "" {
		return nil, ErrEmptyStreamID
	}

	rows, err := a.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT event_id, stream_id, sequence, event_type, event_version, payload, metadata, committed_at
		FROM %s.events
		WHERE stream_id = $1 AND sequence > $2
		ORDER BY sequence`, a.schema), streamID, fromSequence)
	if err != nil {
		return nil, fmt.Errorf("veloxide/postgres: failed to load events: %w", err)
	}
	defer rows.Close()

	events := make([]adapters.StoredEvent, 0)
	for rows.Next() {
		var event adapters.StoredEvent
		var metadataJSON []byte

		err := rows.Scan(
			&event.ID,
			&event.StreamID,
			&event.Sequence,
			&event.EventType,
			&event.EventVersion,
			&event.Data,
			&metadataJSON,
			&event.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("veloxide/postgres: failed to scan event: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &event.Metadata); err != nil {
				return nil, fmt.Errorf("veloxide/postgres: failed to unmarshal metadata: %w", err)
			}
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("veloxide/postgres: error iterating events: %w", err)
	}
	return events, nil
}

// GetStreamInfo returns metadata about a stream.
func (a *Adapter) GetStreamInfo(ctx context.Context, streamID string) (*adapters.StreamInfo, error) {
	if a.closed {
		return nil, ErrAdapterClosed
	}
	if streamID == "" {
		return nil, ErrEmptyStreamID
	}

	info := &adapters.StreamInfo{}
	err := a.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT s.stream_id, s.category, s.last_sequence, s.created_at, s.updated_at,
		       (SELECT COUNT(*) FROM %s.events e WHERE e.stream_id = s.stream_id)
		FROM %s.streams s
		WHERE s.stream_id = $1`, a.schema, a.schema), streamID).Scan(
		&info.StreamID,
		&info.Category,
		&info.LastSequence,
		&info.CreatedAt,
		&info.UpdatedAt,
		&info.EventCount,
	)
	if err == sql.ErrNoRows {
		return nil, adapters.NewStreamNotFoundError(streamID)
	}
	if err != nil {
		return nil, fmt.Errorf("veloxide/postgres: failed to get stream info: %w", err)
	}
	return info, nil
}

// LoadView retrieves the view for the given projection and aggregate ID.
func (a *Adapter) LoadView(ctx context.Context, viewName, viewID string) (*adapters.ViewRecord, error) {
	if a.closed {
		return nil, ErrAdapterClosed
	}

	rec := &adapters.ViewRecord{}
	err := a.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT view_name, view_id, payload, last_sequence, updated_at
		FROM %s.views
		WHERE view_name = $1 AND view_id = $2`, a.schema), viewName, viewID).Scan(
		&rec.ViewName,
		&rec.ViewID,
		&rec.Data,
		&rec.LastSequence,
		&rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrViewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("veloxide/postgres: failed to load view: %w", err)
	}
	return rec, nil
}

// SaveView upserts the view for the given projection and aggregate ID.
// Payload and last sequence are written in one statement, so a partially
// updated view is never observable.
func (a *Adapter) SaveView(ctx context.Context, viewName, viewID string, data []byte, lastSequence int64) error {
	if a.closed {
		return ErrAdapterClosed
	}

	_, err := a.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s.views (view_name, view_id, payload, last_sequence, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (view_name, view_id)
		DO UPDATE SET payload = $3, last_sequence = $4, updated_at = NOW()`, a.schema),
		viewName, viewID, data, lastSequence)
	if err != nil {
		return fmt.Errorf("veloxide/postgres: failed to save view: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (a *Adapter) Ping(ctx context.Context) error {
	if a.closed {
		return ErrAdapterClosed
	}
	return a.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (a *Adapter) Close() error {
	a.closed = true
	return a.db.Close()
}
