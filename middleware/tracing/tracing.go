// Package tracing provides OpenTelemetry instrumentation for veloxide.
//
// Basic usage:
//
//	tracer := tracing.NewTracer(tracing.WithServiceName("bank"))
//
//	executor := veloxide.NewExecutor(store, factory,
//		veloxide.WithMiddleware(tracer.CommandMiddleware()),
//	)
//
//	adapter := tracer.WrapEventStore(memory.NewAdapter())
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/liamwh/veloxide"
	"github.com/liamwh/veloxide/adapters"
)

const tracerName = "github.com/liamwh/veloxide"

// Span attribute keys.
const (
	AttrCommandType      = "veloxide.command.type"
	AttrAggregateID      = "veloxide.aggregate.id"
	AttrStreamID         = "veloxide.stream.id"
	AttrEventCount       = "veloxide.event.count"
	AttrExpectedSequence = "veloxide.expected_sequence"
	AttrSubscriberName   = "veloxide.subscriber.name"
	AttrServiceName      = "service.name"
)

// Tracer creates spans for command execution, event storage and
// subscriber dispatch.
type Tracer struct {
	tracer      trace.Tracer
	serviceName string
}

// Option configures a Tracer.
type Option func(*tracerConfig)

type tracerConfig struct {
	provider    trace.TracerProvider
	serviceName string
}

// WithTracerProvider sets the provider. Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *tracerConfig) {
		c.provider = tp
	}
}

// WithServiceName sets the service.name attribute on every span.
func WithServiceName(name string) Option {
	return func(c *tracerConfig) {
		c.serviceName = name
	}
}

// NewTracer creates a Tracer.
func NewTracer(opts ...Option) *Tracer {
	cfg := &tracerConfig{
		provider:    otel.GetTracerProvider(),
		serviceName: "veloxide",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Tracer{
		tracer:      cfg.provider.Tracer(tracerName),
		serviceName: cfg.serviceName,
	}
}

// CommandMiddleware returns executor middleware that wraps each command
// execution in a span named "command.<type>".
func (t *Tracer) CommandMiddleware() veloxide.Middleware {
	return func(next veloxide.ExecuteFunc) veloxide.ExecuteFunc {
		return func(ctx context.Context, aggregateID string, cmd veloxide.Command, metadata veloxide.Metadata) error {
			ctx, span := t.tracer.Start(ctx, fmt.Sprintf("command.%s", cmd.CommandType()),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(
					attribute.String(AttrServiceName, t.serviceName),
					attribute.String(AttrCommandType, cmd.CommandType()),
					attribute.String(AttrAggregateID, aggregateID),
				),
			)
			defer span.End()

			err := next(ctx, aggregateID, cmd, metadata)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			return err
		}
	}
}

// EventStoreMiddleware wraps an EventStoreAdapter so storage operations
// appear as child spans.
type EventStoreMiddleware struct {
	adapter adapters.EventStoreAdapter
	tracer  *Tracer
}

// WrapEventStore wraps an adapter with tracing.
func (t *Tracer) WrapEventStore(adapter adapters.EventStoreAdapter) *EventStoreMiddleware {
	return &EventStoreMiddleware{adapter: adapter, tracer: t}
}

func (w *EventStoreMiddleware) Append(ctx context.Context, streamID string, events []adapters.EventRecord, expectedSequence int64) ([]adapters.StoredEvent, error) {
	ctx, span := w.tracer.tracer.Start(ctx, "eventstore.append",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrStreamID, streamID),
			attribute.Int(AttrEventCount, len(events)),
			attribute.Int64(AttrExpectedSequence, expectedSequence),
		),
	)
	defer span.End()

	stored, err := w.adapter.Append(ctx, streamID, events, expectedSequence)
	w.finish(span, err)
	return stored, err
}

func (w *EventStoreMiddleware) Load(ctx context.Context, streamID string, fromSequence int64) ([]adapters.StoredEvent, error) {
	ctx, span := w.tracer.tracer.Start(ctx, "eventstore.load",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String(AttrStreamID, streamID)),
	)
	defer span.End()

	events, err := w.adapter.Load(ctx, streamID, fromSequence)
	if err == nil {
		span.SetAttributes(attribute.Int(AttrEventCount, len(events)))
	}
	w.finish(span, err)
	return events, err
}

func (w *EventStoreMiddleware) GetStreamInfo(ctx context.Context, streamID string) (*adapters.StreamInfo, error) {
	return w.adapter.GetStreamInfo(ctx, streamID)
}

func (w *EventStoreMiddleware) Initialize(ctx context.Context) error {
	return w.adapter.Initialize(ctx)
}

func (w *EventStoreMiddleware) Close() error {
	return w.adapter.Close()
}

func (w *EventStoreMiddleware) finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

var _ adapters.EventStoreAdapter = (*EventStoreMiddleware)(nil)

// SubscriberMiddleware wraps a Subscriber so each dispatch appears as
// a span named "dispatch.<subscriber>".
type SubscriberMiddleware struct {
	subscriber veloxide.Subscriber
	tracer     *Tracer
}

// WrapSubscriber wraps a subscriber with tracing.
func (t *Tracer) WrapSubscriber(subscriber veloxide.Subscriber) *SubscriberMiddleware {
	return &SubscriberMiddleware{subscriber: subscriber, tracer: t}
}

func (w *SubscriberMiddleware) Name() string { return w.subscriber.Name() }

func (w *SubscriberMiddleware) Dispatch(ctx context.Context, aggregateID string, events []veloxide.Envelope) error {
	ctx, span := w.tracer.tracer.Start(ctx, fmt.Sprintf("dispatch.%s", w.subscriber.Name()),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(AttrSubscriberName, w.subscriber.Name()),
			attribute.String(AttrAggregateID, aggregateID),
			attribute.Int(AttrEventCount, len(events)),
		),
	)
	defer span.End()

	err := w.subscriber.Dispatch(ctx, aggregateID, events)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return err
}

var _ veloxide.Subscriber = (*SubscriberMiddleware)(nil)
