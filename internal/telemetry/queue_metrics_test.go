package telemetry

import (
	"testing"
)

func TestDefaultQueueMetricsSingleton(t *testing.T) {
	if DefaultQueueMetrics() != DefaultQueueMetrics() {
		t.Fatalf("expected default metrics to return singleton instance")
	}
}

func TestQueueMetricsRecordSnapshotReset(t *testing.T) {
	var m QueueMetrics

	m.Record(OpPush, 1)
	m.Record(OpPush, 1)
	m.Record(OpPop, 1)
	m.Record(OpRemove, 2)
	m.Record(OpTraverse, 1)
	m.Record(OpReclaim, 3)
	m.Record(OpDestroy, 4)
	m.Record(OpPush, 0)
	m.Record(Op("bogus"), 5)

	want := Snapshot{Pushes: 2, Pops: 1, Removals: 2, Traversals: 1, Reclaimed: 3, Destroyed: 4}
	if got := m.Snapshot(); got != want {
		t.Fatalf("unexpected snapshot %+v, want %+v", got, want)
	}

	m.Reset()
	if got := m.Snapshot(); got != (Snapshot{}) {
		t.Fatalf("expected metrics to reset to zero, got %+v", got)
	}
}

func TestTee(t *testing.T) {
	if _, ok := Tee().(Nop); !ok {
		t.Fatalf("expected empty tee to be Nop")
	}

	var a QueueMetrics
	if Tee(nil, &a) != Recorder(&a) {
		t.Fatalf("expected single recorder to be returned as is")
	}

	var b QueueMetrics
	r := Tee(&a, nil, &b)
	r.Record(OpPush, 3)
	if a.Snapshot().Pushes != 3 || b.Snapshot().Pushes != 3 {
		t.Fatalf("expected both recorders to see 3 pushes, got %d and %d", a.Snapshot().Pushes, b.Snapshot().Pushes)
	}
}
