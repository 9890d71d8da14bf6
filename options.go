package refqueue

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/timzifer/refqueue/internal/telemetry"
)

// Metrics counts queue operations in process. One instance may be shared
// by several queues.
type Metrics = telemetry.QueueMetrics

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot = telemetry.Snapshot

// DefaultMetrics returns the process-wide Metrics.
func DefaultMetrics() *Metrics {
	return telemetry.DefaultQueueMetrics()
}

// NewMetrics returns an empty Metrics.
func NewMetrics() *Metrics {
	return &telemetry.QueueMetrics{}
}

// Option configures a Queue.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	recorders []telemetry.Recorder
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger used for debug records. Nil keeps the default,
// which discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics counts operations into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.recorders = append(o.recorders, m)
		}
	}
}

// WithMeter reports operations as OpenTelemetry counters on meter.
func WithMeter(meter metric.Meter) Option {
	return func(o *options) {
		if meter != nil {
			o.recorders = append(o.recorders, telemetry.NewOTelRecorder(meter))
		}
	}
}

// WithGlobalMeter reports operations through the global MeterProvider.
func WithGlobalMeter() Option {
	return func(o *options) {
		o.recorders = append(o.recorders, telemetry.NewGlobalOTelRecorder())
	}
}
