// Package topic provides the dot-notation paths used to name event kinds.
//
// The leftmost segment is the root and each segment to the right narrows
// the meaning:
//
//	event
//	event.ui
//	event.ui.tree
//
// A Topic is only a name. The parent links that dispatch follows live on
// event.Kind; this package builds, validates and splits the names.
//
//	t := topic.Join("event", "ui").Child("tree")
//	t.Base()                 // "tree"
//	t.TrimPrefix("event")    // "ui.tree"
package topic
