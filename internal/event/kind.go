package event

import (
	"fmt"

	"github.com/dshills/cascade/internal/event/topic"
)

// RootName is the name of the Root kind.
const RootName topic.Topic = "event"

// Root is the ancestor of every kind. It has no parent.
var Root = &Kind{name: RootName}

// Kind identifies the type of an event and its place in the kind hierarchy.
//
// Kinds form a tree rooted at Root. Parent resolves the immediate ancestor,
// which is what Emitter walks to reach subscribers of broader kinds. Identity
// is pointer identity: two kinds derived with the same name from the same
// parent are different kinds. Use a Catalog to share kinds by name.
type Kind struct {
	name   topic.Topic
	parent *Kind
	depth  int
}

// Derive creates a kind one level more specific than k.
// It panics if name is not a valid topic segment, so kinds can be declared
// as package-level variables.
//
// Example: event.Root.Derive("ui").Derive("tree") is named "event.ui.tree".
func (k *Kind) Derive(name string) *Kind {
	if !topic.ValidSegment(name) {
		panic(fmt.Sprintf("event: invalid kind segment %q under %s", name, k.name))
	}
	return &Kind{
		name:   k.name.Child(name),
		parent: k,
		depth:  k.depth + 1,
	}
}

// Name returns the full dot-path of the kind.
func (k *Kind) Name() topic.Topic {
	return k.name
}

// String returns the full dot-path of the kind.
func (k *Kind) String() string {
	if k == nil {
		return "<nil>"
	}
	return string(k.name)
}

// Parent returns the immediate ancestor of k, or nil for Root.
func (k *Kind) Parent() *Kind {
	return k.parent
}

// Depth returns the number of ancestors between k and Root. Root has depth 0.
func (k *Kind) Depth() int {
	return k.depth
}

// Ancestors returns k followed by each of its ancestors, most specific first.
// The last element is always the root of k's tree.
func (k *Kind) Ancestors() []*Kind {
	out := make([]*Kind, 0, k.depth+1)
	for cur := k; cur != nil; cur = cur.parent {
		out = append(out, cur)
	}
	return out
}

// Is reports whether k is other or descends from other.
func (k *Kind) Is(other *Kind) bool {
	if other == nil {
		return false
	}
	for cur := k; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}
