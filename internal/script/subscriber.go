package script

import (
	"fmt"
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cascade/internal/event"
)

// HandleMethod is the method an object subscriber table must provide.
const HandleMethod = "handle_event"

// Func returns a callable subscriber backed by the global Lua function
// name. The function is called as fn(owner, ev); the function value is
// captured now, so redefining the global later has no effect.
func (r *Runtime) Func(name string) (*event.Func, error) {
	fn, err := r.HandlerFunc(name)
	if err != nil {
		return nil, err
	}
	return event.ListenNamed("lua:"+name, fn), nil
}

// HandlerFunc is like Func but returns the bare handler function, for
// callers that wrap it in their own subscriber.
func (r *Runtime) HandlerFunc(name string) (event.HandlerFunc, error) {
	if r.closed {
		return nil, ErrClosed
	}
	fn, err := r.function(name)
	if err != nil {
		return nil, err
	}
	label := "lua:" + name
	return func(owner any, e event.Event) error {
		return r.dispatch(label, e, func(ev lua.LValue) error {
			return r.call(name, fn, r.bridge.toLua(owner), ev)
		})
	}, nil
}

func (r *Runtime) function(name string) (*lua.LFunction, error) {
	v := r.L.GetGlobal(name)
	switch fn := v.(type) {
	case *lua.LFunction:
		return fn, nil
	case *lua.LNilType:
		return nil, fmt.Errorf("%w: %s", ErrUndefined, name)
	default:
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotCallable, name, v.Type())
	}
}

// Object is an object subscriber backed by a Lua table with a
// handle_event(self, ev) method. Subscribe the pointer; it is the identity.
type Object struct {
	rt   *Runtime
	name string
	self *lua.LTable
}

// Object returns an object subscriber for the global table name. The
// method is looked up on every call, so metatables and later redefinitions
// are honored.
func (r *Runtime) Object(name string) (*Object, error) {
	if r.closed {
		return nil, ErrClosed
	}
	v := r.L.GetGlobal(name)
	tbl, ok := v.(*lua.LTable)
	if !ok {
		if v == lua.LNil {
			return nil, fmt.Errorf("%w: %s", ErrUndefined, name)
		}
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotCallable, name, v.Type())
	}
	if _, ok := r.L.GetField(tbl, HandleMethod).(*lua.LFunction); !ok {
		return nil, fmt.Errorf("%w: %s has no %s method", ErrNotCallable, name, HandleMethod)
	}
	return &Object{rt: r, name: name, self: tbl}, nil
}

// HandleEvent calls self:handle_event(ev).
func (o *Object) HandleEvent(e event.Event) error {
	label := o.String()
	return o.rt.dispatch(label, e, func(ev lua.LValue) error {
		method, ok := o.rt.L.GetField(o.self, HandleMethod).(*lua.LFunction)
		if !ok {
			return fmt.Errorf("%w: %s has no %s method", ErrNotCallable, o.name, HandleMethod)
		}
		return o.rt.call(o.name, method, o.self, ev)
	})
}

// String returns the subscriber name used in logs.
func (o *Object) String() string {
	return "lua:" + o.name
}

// dispatch presents e to Lua as a table, runs fn with it and copies the
// handled flag and bag back into e.
func (r *Runtime) dispatch(label string, e event.Event, fn func(ev lua.LValue) error) error {
	if r.closed {
		return fmt.Errorf("%s: %w", label, ErrClosed)
	}

	ev, bag := r.eventTable(e)
	var before any
	if _, isTable := bag.(*lua.LTable); isTable {
		before = r.bridge.toGo(bag)
	}
	if err := fn(ev); err != nil {
		return err
	}
	r.readBack(ev, bag, before, e)
	return nil
}

// eventTable builds {kind=, sender=, bag=, handled=} for e. It returns the
// Lua bag value so readBack can tell whether the script replaced it.
func (r *Runtime) eventTable(e event.Event) (*lua.LTable, lua.LValue) {
	t := r.L.CreateTable(0, 4)
	t.RawSetString("kind", lua.LString(e.Kind().Name()))
	t.RawSetString("sender", r.bridge.toLua(e.Sender()))
	bag := lua.LValue(lua.LNil)
	if e.HasBag() {
		bag = r.bridge.toLua(e.Bag())
	}
	t.RawSetString("bag", bag)
	t.RawSetString("handled", lua.LBool(e.Handled()))
	return t, bag
}

// readBack copies the handled flag into e. The bag is copied back only when
// the script replaced it or edited a table bag in place; an untouched bag
// stays the original Go value with its original type. A bag that did
// change comes back in bridge form: map[string]any, []any, int64, float64.
func (r *Runtime) readBack(t *lua.LTable, bag lua.LValue, before any, e event.Event) {
	e.SetHandled(lua.LVAsBool(t.RawGetString("handled")))

	after := t.RawGetString("bag")
	if after != bag {
		e.SetBag(r.bridge.toGo(after))
		return
	}
	if _, isTable := after.(*lua.LTable); !isTable {
		return
	}
	if now := r.bridge.toGo(after); !reflect.DeepEqual(now, before) {
		e.SetBag(now)
	}
}
