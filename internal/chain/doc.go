// Package chain provides the singly-linked node chain behind refqueue.Queue.
//
// A Chain tracks head, tail and the number of live nodes. Walk holds a
// traversal guard for its duration. Nodes unlinked while any guard is held
// are only marked removed, so a traversal holding a fetched successor can
// tell it is gone and stop. Such nodes are parked in a graveyard and
// reclaimed when the outermost guard is released.
//
// The guard counter is atomic so reentrant calls from a visit callback
// observe a consistent depth. A Chain is still not safe for concurrent use
// from multiple goroutines.
package chain
