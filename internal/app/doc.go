// Package app wires an event emitter together with the pieces that usually
// surround it: a kind catalog, a logger, a log sink and a Lua runtime.
//
// A Host is one logical scope. It is the owner passed to callable
// subscribers, so a subscriber can reach the emitter, the catalog or the
// logger through it:
//
//	h, err := app.New(app.Options{Name: "editor", Kinds: []string{"ui.tree"}})
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	h.Emitter().Subscribe(event.Listen(func(owner any, e event.Event) error {
//	    owner.(*app.Host).Logger().Info("tree changed")
//	    return nil
//	}), h.Catalog().MustDefine("ui.tree"))
//
//	h.Emit("ui.tree", nil, nil)
package app
