package event

import "sync/atomic"

// Stats contains emitter statistics.
type Stats struct {
	// Emitted is the number of Emit calls that passed validation.
	Emitted uint64

	// Delivered is the number of subscriber invocations that returned
	// without error.
	Delivered uint64

	// Unmatched is the number of Emit calls that found no subscriber.
	Unmatched uint64

	// Handled is the number of dispatches stopped early because a
	// subscriber marked the event handled.
	Handled uint64

	// Failed is the number of subscriber invocations that returned an error,
	// recovered panics included.
	Failed uint64

	// Panicked is the number of recovered subscriber panics.
	Panicked uint64

	// Kinds is the number of kinds with at least one subscriber.
	Kinds int

	// Subscriptions is the total number of (kind, subscriber) pairs.
	Subscriptions int
}

// counters holds the live statistics of an Emitter.
type counters struct {
	emitted   atomic.Uint64
	delivered atomic.Uint64
	unmatched atomic.Uint64
	handled   atomic.Uint64
	failed    atomic.Uint64
	panicked  atomic.Uint64
}

func (c *counters) reset() {
	c.emitted.Store(0)
	c.delivered.Store(0)
	c.unmatched.Store(0)
	c.handled.Store(0)
	c.failed.Store(0)
	c.panicked.Store(0)
}
