package event

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/cascade/internal/event/topic"
)

// Catalog names kinds so that configuration, scripts and tools can refer to
// them by dot-path. It is safe for concurrent use.
//
// Names may be given with or without the leading "event" segment:
// "ui.tree" and "event.ui.tree" refer to the same kind.
type Catalog struct {
	mu    sync.RWMutex
	kinds map[topic.Topic]*Kind
}

// NewCatalog creates a catalog holding only Root.
func NewCatalog() *Catalog {
	return &Catalog{
		kinds: map[topic.Topic]*Kind{RootName: Root},
	}
}

// normalize converts name into a full kind path.
func normalize(name string) (topic.Topic, error) {
	t := topic.Topic(name)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, name)
	}
	if t.Root() != string(RootName) {
		t = topic.Join(string(RootName), name)
	}
	return t, nil
}

// Define returns the kind named name, creating it and any missing
// intermediate kinds under Root.
func (c *Catalog) Define(name string) (*Kind, error) {
	path, err := normalize(name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if k, ok := c.kinds[path]; ok {
		return k, nil
	}

	k := Root
	for _, seg := range path.TrimPrefix(RootName).Segments() {
		next := k.name.Child(seg)
		child, ok := c.kinds[next]
		if !ok {
			child = k.Derive(seg)
			c.kinds[next] = child
		}
		k = child
	}
	return k, nil
}

// MustDefine is like Define but panics on an invalid name.
func (c *Catalog) MustDefine(name string) *Kind {
	k, err := c.Define(name)
	if err != nil {
		panic(err)
	}
	return k
}

// Register adds a kind created with Derive, together with its ancestors.
// It fails with ErrKindConflict if a different kind already uses one of the
// names, and with ErrInvalidKind if k does not descend from Root.
func (c *Catalog) Register(k *Kind) error {
	if k == nil || !k.Is(Root) {
		return fmt.Errorf("%w: %s does not descend from %s", ErrInvalidKind, k, RootName)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	chain := k.Ancestors()
	for _, a := range chain {
		if existing, ok := c.kinds[a.name]; ok && existing != a {
			return fmt.Errorf("%w: %s", ErrKindConflict, a.name)
		}
	}
	for _, a := range chain {
		c.kinds[a.name] = a
	}
	return nil
}

// Lookup returns the kind named name.
func (c *Catalog) Lookup(name string) (*Kind, bool) {
	path, err := normalize(name)
	if err != nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	k, ok := c.kinds[path]
	return k, ok
}

// Resolve is like Lookup but returns ErrUnknownKind when the kind is missing.
func (c *Catalog) Resolve(name string) (*Kind, error) {
	k, ok := c.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
	return k, nil
}

// All returns every kind in the catalog sorted by name.
func (c *Catalog) All() []*Kind {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Kind, 0, len(c.kinds))
	for _, k := range c.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].name < out[j].name
	})
	return out
}

// Len returns the number of kinds in the catalog, Root included.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.kinds)
}
