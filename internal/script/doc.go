// Package script hosts event subscribers written in Lua.
//
// A Runtime wraps a sandboxed gopher-lua state. Lua functions become
// callable subscribers with Func and Lua tables with a handle_event method
// become object subscribers with Object. Either kind is subscribed on an
// event.Emitter like any Go subscriber:
//
//	rt := script.New()
//	defer rt.Close()
//
//	if err := rt.Load("handlers", src); err != nil {
//	    return err
//	}
//	fn, err := rt.Func("on_collapse")
//	if err != nil {
//	    return err
//	}
//	em.Subscribe(fn, collapsedKind)
//
// Subscribers see the event as a table:
//
//	ev.kind     full kind name, e.g. "event.ui.tree.collapsed"
//	ev.sender   the sender, as Lua data or userdata
//	ev.bag      the payload, or nil
//	ev.handled  set to true to stop dispatch
//
// Changes to ev.handled and ev.bag are copied back to the Go event when the
// subscriber returns. A Lua error is returned from Emit as *Error.
//
// BindEmitter gives scripts a global emit(kind, bag, sender) that dispatches
// synchronously on the same emitter, so Lua subscribers can raise nested
// events.
package script
