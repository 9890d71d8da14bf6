package telemetry_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/timzifer/refqueue/internal/telemetry"
)

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return rm
}

func sumByOp(t *testing.T, rm metricdata.ResourceMetrics, name string) map[string]int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("expected Sum[int64] data for %s", name)
			}
			result := make(map[string]int64)
			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value(attribute.Key("op"))
				result[op.AsString()] = dp.Value
			}
			return result
		}
	}
	t.Fatalf("%s metric not found", name)
	return nil
}

func TestOTelRecorderCounts(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	r := telemetry.NewOTelRecorder(mp.Meter("test"))

	r.Record(telemetry.OpPush, 1)
	r.Record(telemetry.OpPush, 1)
	r.Record(telemetry.OpRemove, 2)
	r.Record(telemetry.OpPop, 0)

	rm := collectMetrics(t, reader)

	ops := sumByOp(t, rm, "refqueue.operations")
	if ops["push"] != 2 || ops["remove"] != 1 {
		t.Fatalf("unexpected operations %v", ops)
	}
	if _, ok := ops["pop"]; ok {
		t.Fatalf("expected zero-count pop to be dropped, got %v", ops)
	}

	elements := sumByOp(t, rm, "refqueue.elements")
	if elements["push"] != 2 || elements["remove"] != 2 {
		t.Fatalf("unexpected elements %v", elements)
	}
}

func TestGlobalOTelRecorderIsNoopByDefault(t *testing.T) {
	r := telemetry.NewGlobalOTelRecorder()
	r.Record(telemetry.OpPush, 1)
}
