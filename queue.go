package refqueue

import (
	"iter"
	"log/slog"

	"github.com/timzifer/refqueue/internal/chain"
	"github.com/timzifer/refqueue/internal/telemetry"
)

// Queue is an insertion-ordered container of element references. Elements
// are compared by ==, so pointer element types give identity semantics.
// With an interface type argument such as any, Remove panics if the queue
// holds values whose dynamic type is not comparable (slices, maps, funcs),
// exactly as == does.
//
// All methods accept a nil *Queue and report that nothing happened.
// A Queue is not safe for concurrent use.
type Queue[T comparable] struct {
	items    *chain.Chain[T]
	logger   *slog.Logger
	recorder telemetry.Recorder
}

// New creates an empty queue.
func New[T comparable](opts ...Option) *Queue[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	q := &Queue[T]{
		logger:   o.logger,
		recorder: telemetry.Tee(o.recorders...),
	}
	q.items = chain.New[T](q.reclaimed)
	return q
}

func (q *Queue[T]) reclaimed(n int) {
	q.recorder.Record(telemetry.OpReclaim, n)
	q.logger.Debug("reclaimed entries removed during traversal", slog.Int("entries", n))
}

// Destroy releases every remaining element, calling destroy on each one in
// order when destroy is non-nil, and retires the queue: later pushes fail.
// Without destroy the caller keeps ownership of the elements.
//
// Destroy may be called from a ForEach callback; the traversal stops once
// the callback returns.
func (q *Queue[T]) Destroy(destroy func(T)) {
	if q == nil || q.items.Destroyed() {
		return
	}

	walking := q.items.Walking()
	values := q.items.Destroy()
	q.recorder.Record(telemetry.OpDestroy, len(values))
	q.logger.Debug("queue destroyed",
		slog.Int("entries", len(values)),
		slog.Bool("during_traversal", walking),
	)

	if destroy == nil {
		return
	}
	for _, v := range values {
		destroy(v)
	}
}

// PushTail appends v. It returns false if the queue is nil or destroyed.
func (q *Queue[T]) PushTail(v T) bool {
	if q == nil || !q.items.PushBack(v) {
		return false
	}
	q.recorder.Record(telemetry.OpPush, 1)
	return true
}

// PushHead prepends v. It returns false if the queue is nil or destroyed.
func (q *Queue[T]) PushHead(v T) bool {
	if q == nil || !q.items.PushFront(v) {
		return false
	}
	q.recorder.Record(telemetry.OpPush, 1)
	return true
}

// PopHead removes and returns the first element.
func (q *Queue[T]) PopHead() (zero T, _ bool) {
	if q == nil {
		return zero, false
	}
	v, ok := q.items.PopFront()
	if ok {
		q.recorder.Record(telemetry.OpPop, 1)
	}
	return v, ok
}

// PeekHead returns the first element without removing it.
func (q *Queue[T]) PeekHead() (zero T, _ bool) {
	if q == nil {
		return zero, false
	}
	return q.items.Front()
}

// PeekTail returns the last element without removing it.
func (q *Queue[T]) PeekTail() (zero T, _ bool) {
	if q == nil {
		return zero, false
	}
	return q.items.Back()
}

// ForEach calls visit for every element from head to tail.
//
// visit may remove any element from q, including the one being visited,
// or destroy q. If visit removes the element that follows the one being
// visited, or destroys q, the traversal stops after visit returns.
// Elements pushed by visit may or may not be visited.
func (q *Queue[T]) ForEach(visit func(T)) {
	if q == nil || visit == nil || q.items.Len() == 0 {
		return
	}
	q.recorder.Record(telemetry.OpTraverse, 1)
	q.items.Walk(func(v T) bool {
		visit(v)
		return true
	})
}

// All returns an iterator with the same guarantees as ForEach. Breaking out
// of the loop ends the traversal.
func (q *Queue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if q == nil || q.items.Len() == 0 {
			return
		}
		q.recorder.Record(telemetry.OpTraverse, 1)
		q.items.Walk(yield)
	}
}

// Values returns a snapshot of the elements from head to tail.
func (q *Queue[T]) Values() []T {
	if q == nil {
		return nil
	}
	return q.items.Values()
}

// Find returns the first element for which match returns true. A nil match
// finds nothing.
func (q *Queue[T]) Find(match func(T) bool) (zero T, _ bool) {
	if q == nil || match == nil {
		return zero, false
	}
	return q.items.Find(match)
}

// Remove removes the first element equal to v. The zero value of T never
// matches.
func (q *Queue[T]) Remove(v T) bool {
	var zero T
	if q == nil || v == zero {
		return false
	}
	if _, ok := q.items.RemoveFirst(identical(v)); !ok {
		return false
	}
	q.recorder.Record(telemetry.OpRemove, 1)
	return true
}

// RemoveIf removes and returns the first element for which match returns
// true. Ownership of the element passes to the caller.
func (q *Queue[T]) RemoveIf(match func(T) bool) (zero T, _ bool) {
	if q == nil || match == nil {
		return zero, false
	}
	v, ok := q.items.RemoveFirst(match)
	if ok {
		q.recorder.Record(telemetry.OpRemove, 1)
	}
	return v, ok
}

// RemoveAll removes every element for which match returns true, or every
// element when match is nil, and returns how many were removed. destroy, if
// non-nil, is called once on each removed element after the queue has been
// re-linked.
func (q *Queue[T]) RemoveAll(match func(T) bool, destroy func(T)) int {
	if q == nil {
		return 0
	}

	var removed []T
	if match == nil {
		removed = q.items.Clear()
	} else {
		removed = q.items.RemoveEach(match)
	}
	q.recorder.Record(telemetry.OpRemove, len(removed))

	if destroy != nil {
		for _, v := range removed {
			destroy(v)
		}
	}
	return len(removed)
}

// Len returns the number of elements.
func (q *Queue[T]) Len() int {
	if q == nil {
		return 0
	}
	return q.items.Len()
}

// IsEmpty reports whether the queue holds no elements.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

func identical[T comparable](v T) func(T) bool {
	return func(x T) bool { return x == v }
}
