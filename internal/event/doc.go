// Package event provides kind-aware synchronous event dispatch for Cascade.
//
// An Emitter holds a table of subscribers keyed by Kind. Kinds form a tree
// rooted at Root, and an event is delivered to the subscribers of its own
// kind and of every ancestor kind, most specific first:
//
//	                 event            (Root)
//	                   │
//	                event.ui
//	                   │
//	             event.ui.tree
//	                   │
//	      event.ui.tree.collapsed     <- Emit starts here
//
// Producers emit the most specific kind available; consumers subscribe to
// whatever level of detail they need. Because specific subscribers run
// first, they can veto broader ones by marking the event handled.
//
// # Kinds
//
//	var (
//	    UI            = event.Root.Derive("ui")
//	    TreeCollapsed = UI.Derive("tree").Derive("collapsed")
//	)
//
// A Catalog creates and looks up kinds by name for code that only has
// strings, such as scenarios and scripts.
//
// # Events
//
// Concrete events embed Base:
//
//	type RowCollapsed struct {
//	    event.Base
//	    Row int
//	}
//
//	evt := &RowCollapsed{Base: event.NewBase(TreeCollapsed, tree, nil), Row: 7}
//
// # Subscribers
//
// A subscriber is either a callable created with Listen, which receives the
// emitter's owner as call context, or a comparable value implementing
// Handler:
//
//	em := event.NewEmitter(event.WithOwner(app))
//
//	onUI := event.Listen(func(owner any, e event.Event) error {
//	    return nil
//	})
//	em.Subscribe(onUI, UI)
//	em.Subscribe(treeView, TreeCollapsed) // treeView implements Handler
//
//	delivered, err := em.Emit(evt)
//
// Subscribing the same subscriber to a kind twice is a no-op. A subscriber
// that is subscribed to several kinds on one ancestor chain runs once per
// Emit, for the most specific kind.
//
// # Errors
//
// Argument problems are reported with ErrInvalidArgument before anything
// changes. A subscriber error stops the dispatch and is returned from Emit
// unchanged. Panics propagate unless WithPanicRecovery is set, in which case
// they are returned as *PanicError.
//
// # Thread Safety
//
// Subscribe, Unsubscribe, Clear and Emit are safe for concurrent use.
// Dispatch itself is sequential in the goroutine calling Emit, and events
// are not synchronized: an event must not be emitted from two goroutines at
// once.
//
// # Subpackages
//
//   - topic: dot-notation paths used to name kinds
package event
