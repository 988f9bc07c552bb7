package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/cascade/internal/event"
)

// Dispatcher receives events raised by Lua code. *event.Emitter satisfies
// it.
type Dispatcher interface {
	Emit(e event.Event) (bool, error)
}

// BindEmitter installs the global emit(kind, bag, sender) so Lua code can
// raise events on em. kind is resolved through catalog; bag and sender are
// optional. emit returns true when a subscriber ran. A failing subscriber
// raises a Lua error that surfaces, unchanged, from the Go caller. A
// panicking Go subscriber unwinds the Lua code and the panic continues in
// the Go caller of the Lua function.
func (r *Runtime) BindEmitter(em Dispatcher, catalog *event.Catalog) {
	if r.closed {
		return
	}
	r.L.SetGlobal("emit", r.L.NewFunction(func(L *lua.LState) int {
		kind, err := catalog.Resolve(L.CheckString(1))
		if err != nil {
			return r.raise(L, err)
		}
		bag := r.bridge.toGo(L.Get(2))
		sender := r.bridge.toGo(L.Get(3))

		var delivered bool
		if !r.guard(func() { delivered, err = em.Emit(event.New(kind, sender, bag)) }) {
			L.RaiseError("go panic: %v", r.panicking)
			return 0
		}
		if err != nil {
			return r.raise(L, err)
		}
		L.Push(lua.LBool(delivered))
		return 1
	}))
}
