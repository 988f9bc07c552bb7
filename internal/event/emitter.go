package event

import (
	"reflect"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// Emitter routes events to subscribers registered against the event's kind
// or any of its ancestors.
//
// Dispatch is synchronous. Emit walks from the event's concrete kind up to
// Root and calls every subscriber it finds, most specific kind first and in
// subscription order within a kind. A subscriber reachable through several
// kinds on the walk is called once, for the most specific one. A subscriber
// that marks the event handled stops the walk.
//
// The subscription table is guarded by a lock that is never held while a
// subscriber runs, so subscribers may call Emit, Subscribe and Unsubscribe
// on the same emitter. Each Emit call tracks its own invoked subscribers, so
// nested dispatches do not disturb each other.
type Emitter struct {
	mu    sync.RWMutex
	table *table

	owner         any
	logger        logrus.FieldLogger
	recoverPanics bool

	stats counters
}

// NewEmitter creates an emitter with the given options.
func NewEmitter(opts ...Option) *Emitter {
	em := &Emitter{
		table:  newTable(),
		logger: discardLogger(),
	}
	for _, opt := range opts {
		opt(em)
	}
	return em
}

// Owner returns the call context passed to callable subscribers.
func (em *Emitter) Owner() any {
	return em.owner
}

// Subscribe registers listener for each of the given kinds. listener is a
// *Func (see Listen) or a comparable Handler.
//
// Subscribing a listener to a kind it is already subscribed to is a no-op.
// Returns true if at least one kind gained the listener.
func (em *Emitter) Subscribe(listener any, kinds ...*Kind) (bool, error) {
	if err := checkListener(listener); err != nil {
		return false, err
	}
	if err := checkKinds(kinds); err != nil {
		return false, err
	}

	em.mu.Lock()
	added := 0
	for _, kind := range kinds {
		if em.table.add(kind, listener) {
			added++
		}
	}
	em.mu.Unlock()

	if added > 0 {
		em.logger.WithFields(logrus.Fields{
			"subscriber": subscriberName(listener),
			"kinds":      kindNames(kinds),
			"added":      added,
		}).Debug("Created event subscription")
	}
	return added > 0, nil
}

// Unsubscribe removes listener from each of the given kinds. With no kinds
// it removes listener from every kind it is subscribed to.
//
// Returns true if anything was removed.
func (em *Emitter) Unsubscribe(listener any, kinds ...*Kind) (bool, error) {
	if err := checkListener(listener); err != nil {
		return false, err
	}
	if err := checkKinds(kinds); err != nil {
		return false, err
	}

	em.mu.Lock()
	if len(kinds) == 0 {
		kinds = em.table.kinds()
	}
	removed := 0
	for _, kind := range kinds {
		if em.table.remove(kind, listener) {
			removed++
		}
	}
	em.mu.Unlock()

	if removed > 0 {
		em.logger.WithFields(logrus.Fields{
			"subscriber": subscriberName(listener),
			"removed":    removed,
		}).Debug("Removed event subscription")
	}
	return removed > 0, nil
}

// Clear drops every subscription.
func (em *Emitter) Clear() {
	em.mu.Lock()
	kinds, subs := em.table.size()
	em.table.clear()
	em.mu.Unlock()

	if subs > 0 {
		em.logger.WithFields(logrus.Fields{
			"kinds":         kinds,
			"subscriptions": subs,
		}).Debug("Removed all event subscriptions")
	}
}

// Emit delivers e to its subscribers and returns once they have all run,
// one of them marked e handled, or one of them failed.
//
// Returns true if at least one subscriber was invoked. A subscriber error is
// returned unchanged and stops the dispatch; the subscription table is left
// as it is.
func (em *Emitter) Emit(e Event) (bool, error) {
	if isNil(e) {
		return false, invalidArgument("event is nil")
	}
	kind := e.Kind()
	if kind == nil {
		return false, invalidArgument("event %T has no kind", e)
	}

	em.stats.emitted.Add(1)

	invoked := make(map[any]struct{})
	delivered := false

	for cur := kind; cur != nil; cur = cur.Parent() {
		for _, sub := range em.subscribersOf(cur) {
			if _, seen := invoked[sub]; seen {
				continue
			}
			invoked[sub] = struct{}{}
			delivered = true

			if err := em.invoke(sub, e); err != nil {
				em.stats.failed.Add(1)
				em.logger.WithFields(logrus.Fields{
					"event":      kind.Name(),
					"kind":       cur.Name(),
					"subscriber": subscriberName(sub),
				}).WithError(err).Debug("Event subscriber failed")
				return true, err
			}
			em.stats.delivered.Add(1)

			if e.Handled() {
				em.stats.handled.Add(1)
				em.logger.WithFields(logrus.Fields{
					"event":      kind.Name(),
					"kind":       cur.Name(),
					"subscriber": subscriberName(sub),
					"delivered":  len(invoked),
				}).Trace("Event handled")
				return true, nil
			}
		}
	}

	if !delivered {
		em.stats.unmatched.Add(1)
	}
	em.logger.WithFields(logrus.Fields{
		"event":     kind.Name(),
		"delivered": len(invoked),
	}).Trace("Emitted event")

	return delivered, nil
}

// subscribersOf returns the current subscriber list for kind.
func (em *Emitter) subscribersOf(kind *Kind) []any {
	em.mu.RLock()
	defer em.mu.RUnlock()
	return em.table.get(kind)
}

// invoke calls sub, converting a panic into a *PanicError when recovery is on.
func (em *Emitter) invoke(sub any, e Event) (err error) {
	if em.recoverPanics {
		defer func() {
			if r := recover(); r != nil {
				em.stats.panicked.Add(1)
				err = &PanicError{
					Kind:  e.Kind().Name(),
					Value: r,
					Stack: string(debug.Stack()),
				}
			}
		}()
	}
	return invoke(em.owner, sub, e)
}

// Kinds returns the kinds that currently have subscribers, in the order
// they were first subscribed to.
func (em *Emitter) Kinds() []*Kind {
	em.mu.RLock()
	defer em.mu.RUnlock()
	return em.table.kinds()
}

// Subscribers returns a copy of the subscriber list for kind.
func (em *Emitter) Subscribers(kind *Kind) []any {
	em.mu.RLock()
	defer em.mu.RUnlock()

	subs := em.table.get(kind)
	if len(subs) == 0 {
		return nil
	}
	out := make([]any, len(subs))
	copy(out, subs)
	return out
}

// Stats returns current emitter statistics.
// Counters are read individually and may be slightly inconsistent while
// events are being emitted concurrently.
func (em *Emitter) Stats() Stats {
	em.mu.RLock()
	kinds, subs := em.table.size()
	em.mu.RUnlock()

	return Stats{
		Emitted:       em.stats.emitted.Load(),
		Delivered:     em.stats.delivered.Load(),
		Unmatched:     em.stats.unmatched.Load(),
		Handled:       em.stats.handled.Load(),
		Failed:        em.stats.failed.Load(),
		Panicked:      em.stats.panicked.Load(),
		Kinds:         kinds,
		Subscriptions: subs,
	}
}

// ResetStats resets all counters to zero.
func (em *Emitter) ResetStats() {
	em.stats.reset()
}

func checkKinds(kinds []*Kind) error {
	for i, k := range kinds {
		if k == nil {
			return invalidArgument("kind at position %d is nil", i)
		}
	}
	return nil
}

func kindNames(kinds []*Kind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}

// isNil reports whether e is nil or a typed nil pointer.
func isNil(e Event) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
