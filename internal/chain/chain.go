package chain

import (
	"sync/atomic"
)

type node[T any] struct {
	value   T
	next    *node[T]
	removed bool
}

// Chain is a singly-linked list of values with head and tail access.
// The zero value is an empty, usable chain.
type Chain[T any] struct {
	head      *node[T]
	tail      *node[T]
	len       int
	depth     atomic.Int32
	graveyard []*node[T]
	destroyed bool
	onReclaim func(int)
}

// New creates an empty chain. onReclaim, if non-nil, is called with the
// number of parked nodes each time the outermost guard releases them.
func New[T any](onReclaim func(int)) *Chain[T] {
	return &Chain[T]{onReclaim: onReclaim}
}

// Len returns the number of live nodes.
func (c *Chain[T]) Len() int {
	return c.len
}

// Destroyed reports whether Destroy has been called.
func (c *Chain[T]) Destroyed() bool {
	return c.destroyed
}

// Walking reports whether a traversal guard is currently held.
func (c *Chain[T]) Walking() bool {
	return c.depth.Load() > 0
}

// PushBack appends value. It fails only on a destroyed chain.
func (c *Chain[T]) PushBack(value T) bool {
	if c.destroyed {
		return false
	}

	n := &node[T]{value: value}
	if c.tail == nil {
		c.head = n
	} else {
		c.tail.next = n
	}
	c.tail = n
	c.len++
	return true
}

// PushFront prepends value. It fails only on a destroyed chain.
func (c *Chain[T]) PushFront(value T) bool {
	if c.destroyed {
		return false
	}

	n := &node[T]{value: value, next: c.head}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
	c.len++
	return true
}

// PopFront removes and returns the head value.
func (c *Chain[T]) PopFront() (zero T, _ bool) {
	if c.head == nil {
		return zero, false
	}

	n := c.head
	value := n.value
	c.unlink(nil, n)
	return value, true
}

// Front returns the head value without removing it.
func (c *Chain[T]) Front() (zero T, _ bool) {
	if c.head == nil {
		return zero, false
	}
	return c.head.value, true
}

// Back returns the tail value without removing it.
func (c *Chain[T]) Back() (zero T, _ bool) {
	if c.tail == nil {
		return zero, false
	}
	return c.tail.value, true
}

// Find returns the first value, head to tail, for which match is true.
func (c *Chain[T]) Find(match func(T) bool) (zero T, _ bool) {
	for n := c.head; n != nil; n = n.next {
		if match(n.value) {
			return n.value, true
		}
	}
	return zero, false
}

// RemoveFirst unlinks the first value for which match is true and returns it.
func (c *Chain[T]) RemoveFirst(match func(T) bool) (zero T, _ bool) {
	var prev *node[T]
	for n := c.head; n != nil; prev, n = n, n.next {
		if !match(n.value) {
			continue
		}
		value := n.value
		c.unlink(prev, n)
		return value, true
	}
	return zero, false
}

// RemoveEach unlinks every value for which match is true and returns the
// removed values in chain order. The chain is fully re-linked before the
// slice is returned, so callers may release the values afterwards.
func (c *Chain[T]) RemoveEach(match func(T) bool) []T {
	var removed []T
	var prev *node[T]
	for n := c.head; n != nil; {
		next := n.next
		if match(n.value) {
			removed = append(removed, n.value)
			c.unlink(prev, n)
		} else {
			prev = n
		}
		n = next
	}
	return removed
}

// Clear unlinks every node and returns the values in chain order.
func (c *Chain[T]) Clear() []T {
	return c.RemoveEach(func(T) bool { return true })
}

// Destroy clears the chain and refuses further pushes. The returned values
// are those that were live, in chain order. A second call returns nil.
func (c *Chain[T]) Destroy() []T {
	if c.destroyed {
		return nil
	}
	values := c.Clear()
	c.destroyed = true
	return values
}

// Values returns a snapshot of the live values in chain order.
func (c *Chain[T]) Values() []T {
	if c.len == 0 {
		return nil
	}

	result := make([]T, 0, c.len)
	for n := c.head; n != nil; n = n.next {
		result = append(result, n.value)
	}
	return result
}

// Walk calls visit for each live value from head to tail until visit
// returns false. visit may push to, remove from or destroy the chain.
// The successor of each node is fetched before visit runs; if visit
// removes that successor, or destroys the chain, Walk stops. Nodes added
// by visit may or may not be visited.
func (c *Chain[T]) Walk(visit func(T) bool) {
	if c.head == nil {
		return
	}

	c.acquire()
	defer c.release()

	for n := c.head; n != nil; {
		next := n.next
		if !visit(n.value) || c.destroyed {
			return
		}
		if next != nil && next.removed {
			return
		}
		n = next
	}
}

func (c *Chain[T]) acquire() {
	c.depth.Add(1)
}

func (c *Chain[T]) release() {
	if c.depth.Add(-1) != 0 {
		return
	}

	reclaimed := len(c.graveyard)
	if reclaimed == 0 {
		return
	}
	for i, n := range c.graveyard {
		c.bury(n)
		c.graveyard[i] = nil
	}
	c.graveyard = c.graveyard[:0]

	if c.onReclaim != nil {
		c.onReclaim(reclaimed)
	}
}

// unlink removes n from the live chain. prev is the live node before n, or
// nil when n is the head.
func (c *Chain[T]) unlink(prev, n *node[T]) {
	if prev == nil {
		c.head = n.next
	} else {
		prev.next = n.next
	}
	if c.tail == n {
		c.tail = prev
	}
	c.len--

	n.removed = true
	if c.depth.Load() > 0 {
		c.graveyard = append(c.graveyard, n)
		return
	}
	c.bury(n)
}

func (c *Chain[T]) bury(n *node[T]) {
	var zero T
	n.next = nil
	n.value = zero
}
