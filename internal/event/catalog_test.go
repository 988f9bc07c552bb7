package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cascade/internal/event/topic"
)

func TestCatalog_Define(t *testing.T) {
	c := NewCatalog()
	require.Equal(t, 1, c.Len())

	leaf, err := c.Define("ui.tree.collapsed")
	require.NoError(t, err)
	assert.Equal(t, topic.Topic("event.ui.tree.collapsed"), leaf.Name())
	assert.Equal(t, 4, c.Len())

	tree, ok := c.Lookup("ui.tree")
	require.True(t, ok)
	assert.Same(t, tree, leaf.Parent())
	assert.Same(t, Root, leaf.Parent().Parent().Parent())

	again, err := c.Define("event.ui.tree.collapsed")
	require.NoError(t, err)
	assert.Same(t, leaf, again)
	assert.Equal(t, 4, c.Len())
}

func TestCatalog_DefineRoot(t *testing.T) {
	c := NewCatalog()
	k, err := c.Define("event")
	require.NoError(t, err)
	assert.Same(t, Root, k)
}

func TestCatalog_DefineInvalid(t *testing.T) {
	c := NewCatalog()
	for _, name := range []string{"", ".ui", "ui.", "ui..tree", "ui.*"} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Define(name)
			assert.ErrorIs(t, err, ErrInvalidKind)
		})
	}
	assert.Panics(t, func() { c.MustDefine("") })
}

func TestCatalog_Register(t *testing.T) {
	c := NewCatalog()
	ui := Root.Derive("ui")
	button := ui.Derive("button")

	require.NoError(t, c.Register(button))

	got, ok := c.Lookup("ui.button")
	require.True(t, ok)
	assert.Same(t, button, got)

	got, ok = c.Lookup("ui")
	require.True(t, ok)
	assert.Same(t, ui, got)

	// Same kind again is fine.
	require.NoError(t, c.Register(button))

	// A different kind under an existing name conflicts.
	err := c.Register(Root.Derive("ui"))
	assert.ErrorIs(t, err, ErrKindConflict)
}

func TestCatalog_RegisterForeignRoot(t *testing.T) {
	c := NewCatalog()
	foreign := &Kind{name: "other"}
	assert.ErrorIs(t, c.Register(foreign.Derive("x")), ErrInvalidKind)
	assert.ErrorIs(t, c.Register(nil), ErrInvalidKind)
}

func TestCatalog_Resolve(t *testing.T) {
	c := NewCatalog()
	c.MustDefine("net.request")

	k, err := c.Resolve("net.request")
	require.NoError(t, err)
	assert.Equal(t, topic.Topic("event.net.request"), k.Name())

	_, err = c.Resolve("net.response")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, ok := c.Lookup("..")
	assert.False(t, ok)
}

func TestCatalog_AllSorted(t *testing.T) {
	c := NewCatalog()
	c.MustDefine("ui.tree")
	c.MustDefine("net")

	var names []string
	for _, k := range c.All() {
		names = append(names, k.String())
	}
	assert.Equal(t, []string{"event", "event.net", "event.ui", "event.ui.tree"}, names)
}
