// Package metrics provides Prometheus instrumentation for veloxide.
//
// Basic usage:
//
//	m := metrics.New(metrics.WithServiceName("bank"))
//	m.MustRegister()
//
//	executor := veloxide.NewExecutor(store, factory,
//		veloxide.WithMiddleware(m.CommandMiddleware()),
//	)
//
//	// Wrap the storage adapter to time append/load operations:
//	adapter := m.WrapEventStore(memory.NewAdapter())
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/liamwh/veloxide"
	"github.com/liamwh/veloxide/adapters"
)

// Metric label names.
const (
	LabelCommandType = "command_type"
	LabelEventType   = "event_type"
	LabelOperation   = "operation"
	LabelStatus      = "status"
	LabelErrorType   = "error_type"
	LabelService     = "service"
	LabelSubscriber  = "subscriber"
)

// Status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Operation values.
const (
	OperationAppend = "append"
	OperationLoad   = "load"
)

// Metrics holds the Prometheus collectors for command execution, event
// storage and subscriber dispatch.
type Metrics struct {
	namespace   string
	subsystem   string
	serviceName string

	commandsTotal    *prometheus.CounterVec
	commandDuration  *prometheus.HistogramVec
	commandsInFlight *prometheus.GaugeVec

	storeOperationsTotal   *prometheus.CounterVec
	storeOperationDuration *prometheus.HistogramVec
	eventsAppendedTotal    *prometheus.CounterVec
	eventsLoadedTotal      *prometheus.CounterVec

	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec

	errorsTotal *prometheus.CounterVec
}

// Option configures Metrics.
type Option func(*Metrics)

// WithNamespace sets the Prometheus namespace. Default "veloxide".
func WithNamespace(namespace string) Option {
	return func(m *Metrics) {
		m.namespace = namespace
	}
}

// WithSubsystem sets the Prometheus subsystem.
func WithSubsystem(subsystem string) Option {
	return func(m *Metrics) {
		m.subsystem = subsystem
	}
}

// WithServiceName sets the service name label.
func WithServiceName(name string) Option {
	return func(m *Metrics) {
		m.serviceName = name
	}
}

// New creates a Metrics instance.
func New(opts ...Option) *Metrics {
	m := &Metrics{
		namespace:   "veloxide",
		serviceName: "unknown",
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initMetrics()
	return m
}

func (m *Metrics) initMetrics() {
	m.commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "commands_total",
			Help:      "Total number of commands executed.",
		},
		[]string{LabelService, LabelCommandType, LabelStatus},
	)

	m.commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "command_duration_seconds",
			Help:      "Duration of command execution in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelService, LabelCommandType},
	)

	m.commandsInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "commands_in_flight",
			Help:      "Number of commands currently executing.",
		},
		[]string{LabelService, LabelCommandType},
	)

	m.storeOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "eventstore_operations_total",
			Help:      "Total number of event store operations.",
		},
		[]string{LabelService, LabelOperation, LabelStatus},
	)

	m.storeOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "eventstore_operation_duration_seconds",
			Help:      "Duration of event store operations in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelService, LabelOperation},
	)

	m.eventsAppendedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_appended_total",
			Help:      "Total number of events appended to streams.",
		},
		[]string{LabelService, LabelEventType},
	)

	m.eventsLoadedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_loaded_total",
			Help:      "Total number of events loaded from streams.",
		},
		[]string{LabelService},
	)

	m.dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "subscriber_dispatch_total",
			Help:      "Total number of envelope batches dispatched to subscribers.",
		},
		[]string{LabelService, LabelSubscriber, LabelStatus},
	)

	m.dispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "subscriber_dispatch_duration_seconds",
			Help:      "Duration of subscriber dispatch in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelService, LabelSubscriber},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_total",
			Help:      "Total number of errors by type.",
		},
		[]string{LabelService, LabelErrorType},
	)
}

// Collectors returns all Prometheus collectors for registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.commandsTotal,
		m.commandDuration,
		m.commandsInFlight,
		m.storeOperationsTotal,
		m.storeOperationDuration,
		m.eventsAppendedTotal,
		m.eventsLoadedTotal,
		m.dispatchTotal,
		m.dispatchDuration,
		m.errorsTotal,
	}
}

// MustRegister registers all collectors with the default registry.
// Panics if registration fails.
func (m *Metrics) MustRegister() {
	prometheus.MustRegister(m.Collectors()...)
}

// Register registers all collectors with the given registry.
func (m *Metrics) Register(registry prometheus.Registerer) error {
	for _, collector := range m.Collectors() {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// CommandMiddleware returns executor middleware that records command
// counts, durations and in-flight gauges.
func (m *Metrics) CommandMiddleware() veloxide.Middleware {
	return func(next veloxide.ExecuteFunc) veloxide.ExecuteFunc {
		return func(ctx context.Context, aggregateID string, cmd veloxide.Command, metadata veloxide.Metadata) error {
			cmdType := cmd.CommandType()

			m.commandsInFlight.WithLabelValues(m.serviceName, cmdType).Inc()
			defer m.commandsInFlight.WithLabelValues(m.serviceName, cmdType).Dec()

			start := time.Now()
			err := next(ctx, aggregateID, cmd, metadata)
			m.commandDuration.WithLabelValues(m.serviceName, cmdType).Observe(time.Since(start).Seconds())

			status := StatusSuccess
			if err != nil {
				status = StatusError
				m.errorsTotal.WithLabelValues(m.serviceName, errorTypeName(err)).Inc()
			}
			m.commandsTotal.WithLabelValues(m.serviceName, cmdType, status).Inc()

			return err
		}
	}
}

// errorTypeName maps sentinel errors to stable label values.
func errorTypeName(err error) string {
	switch {
	case errors.Is(err, veloxide.ErrConcurrencyConflict):
		return "concurrency_conflict"
	case errors.Is(err, veloxide.ErrStreamNotFound):
		return "stream_not_found"
	case errors.Is(err, veloxide.ErrValidationFailed):
		return "validation_failed"
	case errors.Is(err, veloxide.ErrCommandRejected):
		return "command_rejected"
	case errors.Is(err, veloxide.ErrUnknownCommand):
		return "unknown_command"
	case errors.Is(err, veloxide.ErrSerializationFailed):
		return "serialization_failed"
	case errors.Is(err, veloxide.ErrEventTypeNotRegistered):
		return "event_type_not_registered"
	case errors.Is(err, veloxide.ErrNilCommand):
		return "nil_command"
	case errors.Is(err, veloxide.ErrEmptyAggregateID):
		return "empty_aggregate_id"
	case errors.Is(err, adapters.ErrEmptyStreamID):
		return "empty_stream_id"
	case errors.Is(err, adapters.ErrNoEvents):
		return "no_events"
	case errors.Is(err, adapters.ErrInvalidSequence):
		return "invalid_sequence"
	case errors.Is(err, adapters.ErrAdapterClosed):
		return "adapter_closed"
	case errors.Is(err, adapters.ErrViewNotFound):
		return "view_not_found"
	default:
		return "unknown"
	}
}

// EventStoreMiddleware wraps an EventStoreAdapter with operation metrics.
type EventStoreMiddleware struct {
	adapter adapters.EventStoreAdapter
	metrics *Metrics
}

// WrapEventStore wraps an adapter so every Append and Load is counted
// and timed.
func (m *Metrics) WrapEventStore(adapter adapters.EventStoreAdapter) *EventStoreMiddleware {
	return &EventStoreMiddleware{adapter: adapter, metrics: m}
}

func (w *EventStoreMiddleware) Append(ctx context.Context, streamID string, events []adapters.EventRecord, expectedSequence int64) ([]adapters.StoredEvent, error) {
	start := time.Now()
	stored, err := w.adapter.Append(ctx, streamID, events, expectedSequence)
	w.record(OperationAppend, start, err)

	if err == nil {
		for _, event := range stored {
			w.metrics.eventsAppendedTotal.WithLabelValues(w.metrics.serviceName, event.EventType).Inc()
		}
	}
	return stored, err
}

func (w *EventStoreMiddleware) Load(ctx context.Context, streamID string, fromSequence int64) ([]adapters.StoredEvent, error) {
	start := time.Now()
	events, err := w.adapter.Load(ctx, streamID, fromSequence)
	w.record(OperationLoad, start, err)

	if err == nil {
		w.metrics.eventsLoadedTotal.WithLabelValues(w.metrics.serviceName).Add(float64(len(events)))
	}
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

func (w *EventStoreMiddleware) record(operation string, start time.Time, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
		w.metrics.errorsTotal.WithLabelValues(w.metrics.serviceName, errorTypeName(err)).Inc()
	}
	w.metrics.storeOperationsTotal.WithLabelValues(w.metrics.serviceName, operation, status).Inc()
	w.metrics.storeOperationDuration.WithLabelValues(w.metrics.serviceName, operation).Observe(time.Since(start).Seconds())
}

var _ adapters.EventStoreAdapter = (*EventStoreMiddleware)(nil)

// SubscriberMiddleware wraps a Subscriber with dispatch metrics.
type SubscriberMiddleware struct {
	subscriber veloxide.Subscriber
	metrics    *Metrics
}

// WrapSubscriber wraps a subscriber so every dispatched batch is counted
// and timed under the subscriber's name.
func (m *Metrics) WrapSubscriber(subscriber veloxide.Subscriber) *SubscriberMiddleware {
	return &SubscriberMiddleware{subscriber: subscriber, metrics: m}
}

func (w *SubscriberMiddleware) Name() string { return w.subscriber.Name() }

func (w *SubscriberMiddleware) Dispatch(ctx context.Context, aggregateID string, events []veloxide.Envelope) error {
	start := time.Now()
	err := w.subscriber.Dispatch(ctx, aggregateID, events)

	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	w.metrics.dispatchTotal.WithLabelValues(w.metrics.serviceName, w.subscriber.Name(), status).Inc()
	w.metrics.dispatchDuration.WithLabelValues(w.metrics.serviceName, w.subscriber.Name()).Observe(time.Since(start).Seconds())

	return err
}

var _ veloxide.Subscriber = (*SubscriberMiddleware)(nil)
