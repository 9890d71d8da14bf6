package telemetry

import (
	"sync/atomic"
)

// Op names a queue operation class.
type Op string

const (
	OpPush     Op = "push"
	OpPop      Op = "pop"
	OpRemove   Op = "remove"
	OpTraverse Op = "traverse"
	OpReclaim  Op = "reclaim"
	OpDestroy  Op = "destroy"
)

// Recorder receives the number of elements affected by an operation.
type Recorder interface {
	Record(op Op, n int)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Record(Op, int) {}

// Tee fans a record out to several recorders. Nil entries are skipped.
func Tee(recorders ...Recorder) Recorder {
	kept := make(tee, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			kept = append(kept, r)
		}
	}
	switch len(kept) {
	case 0:
		return Nop{}
	case 1:
		return kept[0]
	}
	return kept
}

type tee []Recorder

func (t tee) Record(op Op, n int) {
	for _, r := range t {
		r.Record(op, n)
	}
}

// QueueMetrics counts queue operations in process. It is safe for
// concurrent use, so one instance may be shared by several queues.
type QueueMetrics struct {
	pushes     atomic.Uint64
	pops       atomic.Uint64
	removals   atomic.Uint64
	traversals atomic.Uint64
	reclaimed  atomic.Uint64
	destroyed  atomic.Uint64
}

// Snapshot is a point-in-time copy of QueueMetrics.
type Snapshot struct {
	Pushes     uint64
	Pops       uint64
	Removals   uint64
	Traversals uint64
	Reclaimed  uint64
	Destroyed  uint64
}

var defaultQueueMetrics QueueMetrics

// DefaultQueueMetrics returns the process-wide metrics.
func DefaultQueueMetrics() *QueueMetrics {
	return &defaultQueueMetrics
}

// Record implements Recorder. Unknown ops and non-positive counts are ignored.
func (m *QueueMetrics) Record(op Op, n int) {
	if n <= 0 {
		return
	}
	delta := uint64(n)
	switch op {
	case OpPush:
		m.pushes.Add(delta)
	case OpPop:
		m.pops.Add(delta)
	case OpRemove:
		m.removals.Add(delta)
	case OpTraverse:
		m.traversals.Add(delta)
	case OpReclaim:
		m.reclaimed.Add(delta)
	case OpDestroy:
		m.destroyed.Add(delta)
	}
}

// Snapshot returns the collected values.
func (m *QueueMetrics) Snapshot() Snapshot {
	return Snapshot{
		Pushes:     m.pushes.Load(),
		Pops:       m.pops.Load(),
		Removals:   m.removals.Load(),
		Traversals: m.traversals.Load(),
		Reclaimed:  m.reclaimed.Load(),
		Destroyed:  m.destroyed.Load(),
	}
}

// Reset zeroes all counters.
func (m *QueueMetrics) Reset() {
	m.pushes.Store(0)
	m.pops.Store(0)
	m.removals.Store(0)
	m.traversals.Store(0)
	m.reclaimed.Store(0)
	m.destroyed.Store(0)
}
