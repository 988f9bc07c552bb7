package event

// Event is the record passed by reference to every subscriber during one
// dispatch. Concrete events embed Base and add their own fields.
type Event interface {
	// Kind returns the concrete kind of the event. Dispatch walks from this
	// kind up to Root.
	Kind() *Kind

	// Sender returns the originator of the event. It is never interpreted by
	// the emitter.
	Sender() any

	// Bag returns the optional payload, or nil when absent.
	Bag() any

	// SetBag replaces the payload. Setting nil clears it.
	SetBag(v any)

	// HasBag reports whether a payload is present.
	HasBag() bool

	// Handled reports whether a subscriber marked the event handled.
	Handled() bool

	// SetHandled marks the event handled. Once true after a subscriber
	// returns, the emitter stops delivering the event.
	SetHandled(v bool)
}

// Base is the standard Event implementation. Embed it in concrete events:
//
//	type RowCollapsed struct {
//	    event.Base
//	    Row int
//	}
//
//	evt := &RowCollapsed{Base: event.NewBase(RowCollapsedKind, tree, nil), Row: 3}
type Base struct {
	kind    *Kind
	sender  any
	bag     any
	handled bool
}

// NewBase creates a Base for embedding. bag may be nil.
func NewBase(kind *Kind, sender any, bag any) Base {
	return Base{
		kind:   kind,
		sender: sender,
		bag:    bag,
	}
}

// New creates a standalone event of the given kind.
func New(kind *Kind, sender any, bag any) *Base {
	b := NewBase(kind, sender, bag)
	return &b
}

// Kind returns the concrete kind of the event.
func (b *Base) Kind() *Kind {
	return b.kind
}

// Sender returns the originator of the event.
func (b *Base) Sender() any {
	return b.sender
}

// Bag returns the payload, or nil when absent.
func (b *Base) Bag() any {
	return b.bag
}

// SetBag replaces the payload.
func (b *Base) SetBag(v any) {
	b.bag = v
}

// HasBag reports whether a payload is present.
func (b *Base) HasBag() bool {
	return b.bag != nil
}

// Handled reports whether the event was marked handled.
func (b *Base) Handled() bool {
	return b.handled
}

// SetHandled sets the handled flag.
func (b *Base) SetHandled(v bool) {
	b.handled = v
}
