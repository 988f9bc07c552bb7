// Package scenario runs scripted sequences of subscribe, unsubscribe, emit
// and clear operations against an emitter and records what happened.
//
// A scenario is a YAML document:
//
//	name: hierarchy
//	owner: editor
//	kinds: [ui.tree.collapsed]
//	listeners:
//	  - name: on_tree
//	  - name: stopper
//	    behaviour: handle
//	steps:
//	  - subscribe: on_tree
//	    kinds: [ui.tree]
//	  - emit: ui.tree.collapsed
//	    bag: {row: 3}
//
// Listener behaviours are record (the default), handle, fail, emit, panic,
// subscribe, unsubscribe and lua. Listeners are callables unless their shape
// is object.
//
// Run returns a Trace with one record per operation and per listener call,
// which the cascade command prints and the tests compare with golden files.
package scenario
