package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope name for refqueue metrics.
const MeterName = "github.com/timzifer/refqueue"

// OTelRecorder reports queue operations as OpenTelemetry counters.
//
// Instruments:
//   - refqueue.operations (Int64Counter): operation calls, with attribute op
//   - refqueue.elements (Int64Counter): elements affected, with attribute op
type OTelRecorder struct {
	operations metric.Int64Counter
	elements   metric.Int64Counter
}

// NewGlobalOTelRecorder uses the global MeterProvider. Without one
// configured the instruments are noops.
func NewGlobalOTelRecorder() *OTelRecorder {
	return NewOTelRecorder(otel.Meter(MeterName))
}

// NewOTelRecorder creates the instruments once on meter.
func NewOTelRecorder(meter metric.Meter) *OTelRecorder {
	operations, oErr := meter.Int64Counter(
		"refqueue.operations",
		metric.WithDescription("Number of queue operations that changed or traversed the queue"),
		metric.WithUnit("{operation}"),
	)
	_ = oErr // the API returns a noop instrument on error

	elements, eErr := meter.Int64Counter(
		"refqueue.elements",
		metric.WithDescription("Number of elements affected by queue operations"),
		metric.WithUnit("{element}"),
	)
	_ = eErr

	return &OTelRecorder{operations: operations, elements: elements}
}

// Record implements Recorder.
func (r *OTelRecorder) Record(op Op, n int) {
	if n <= 0 {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("op", string(op)))
	r.operations.Add(ctx, 1, attrs)
	r.elements.Add(ctx, int64(n), attrs)
}
