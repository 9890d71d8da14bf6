// Package refqueue provides a generic, insertion-ordered queue of element
// references with push to either end, pop from the head, predicate search
// and removal, and a traversal that tolerates mutation from its callback.
//
// Elements are owned by the caller. The queue only releases them through a
// destroy function the caller passes to Destroy or RemoveAll.
//
// ForEach holds a traversal guard while it runs. Elements removed during a
// traversal are unlinked at once but their nodes are only reclaimed when
// the outermost traversal ends, so the callback may remove the element it
// is visiting, any later element, or destroy the queue altogether. Removing
// the element that comes next, or destroying the queue, ends the traversal:
//
//	q := refqueue.New[*Conn]()
//	q.ForEach(func(c *Conn) {
//	    if c.Closed() {
//	        q.Remove(c)
//	    }
//	})
//
// Queues are meant for a single goroutine. Share one across goroutines only
// behind external synchronisation.
package refqueue
