package event

import (
	"reflect"
)

// Handler is implemented by object subscribers. HandleEvent is the reserved
// dispatch method: the emitter calls it with the event and nothing else.
//
// The implementing value must be comparable, since it is also the identity
// used by Subscribe and Unsubscribe. Pointer receivers are the usual choice.
type Handler interface {
	HandleEvent(e Event) error
}

// HandlerFunc is the signature of callable subscribers. owner is the call
// context the emitter was created with (see WithOwner), possibly nil.
type HandlerFunc func(owner any, e Event) error

// Func is a callable subscriber. Funcs are created with Listen and are
// compared by pointer, so keep the returned value to unsubscribe later.
type Func struct {
	fn   HandlerFunc
	name string
}

// Listen wraps fn as a callable subscriber.
func Listen(fn HandlerFunc) *Func {
	return &Func{fn: fn}
}

// ListenNamed is like Listen but gives the subscriber a name used in logs.
func ListenNamed(name string, fn HandlerFunc) *Func {
	return &Func{fn: fn, name: name}
}

// String returns the subscriber name.
func (f *Func) String() string {
	if f.name == "" {
		return "func"
	}
	return f.name
}

// checkListener validates a subscriber before it reaches the table.
func checkListener(listener any) error {
	switch l := listener.(type) {
	case nil:
		return invalidArgument("listener is nil")
	case *Func:
		if l == nil || l.fn == nil {
			return invalidArgument("listener func is nil")
		}
		return nil
	case Handler:
		v := reflect.ValueOf(l)
		switch v.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.Slice:
			if v.IsNil() {
				return invalidArgument("listener %T is nil", l)
			}
		}
		if !v.Comparable() {
			return invalidArgument("listener %T is not comparable; wrap functions with Listen", l)
		}
		return nil
	default:
		return invalidArgument("listener %T is neither *Func nor Handler", listener)
	}
}

// invoke calls a subscriber with the event. Callables receive owner as their
// call context; objects receive only the event.
func invoke(owner any, sub any, e Event) error {
	switch s := sub.(type) {
	case *Func:
		return s.fn(owner, e)
	case Handler:
		return s.HandleEvent(e)
	}
	return nil
}

// subscriberName returns a printable name for logging.
func subscriberName(sub any) string {
	switch s := sub.(type) {
	case *Func:
		return s.String()
	case interface{ String() string }:
		return s.String()
	}
	return reflect.TypeOf(sub).String()
}
