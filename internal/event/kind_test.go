package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cascade/internal/event/topic"
)

var (
	kindUI        = Root.Derive("ui")
	kindTree      = kindUI.Derive("tree")
	kindCollapsed = kindTree.Derive("collapsed")
	kindNet       = Root.Derive("net")
)

func TestKind_Derive(t *testing.T) {
	assert.Equal(t, topic.Topic("event.ui.tree.collapsed"), kindCollapsed.Name())
	assert.Equal(t, "event.ui.tree.collapsed", kindCollapsed.String())
	assert.Same(t, kindTree, kindCollapsed.Parent())
	assert.Equal(t, 3, kindCollapsed.Depth())
	assert.Equal(t, 0, Root.Depth())
	assert.Nil(t, Root.Parent())
}

func TestKind_DeriveInvalid(t *testing.T) {
	for _, name := range []string{"", "a.b", "a b", "*"} {
		t.Run(name, func(t *testing.T) {
			assert.Panics(t, func() { Root.Derive(name) })
		})
	}
}

func TestKind_DeriveTwiceIsDistinct(t *testing.T) {
	a := Root.Derive("same")
	b := Root.Derive("same")
	assert.Equal(t, a.Name(), b.Name())
	assert.NotSame(t, a, b)
}

func TestKind_Ancestors(t *testing.T) {
	got := kindCollapsed.Ancestors()
	require.Len(t, got, 4)
	assert.Same(t, kindCollapsed, got[0])
	assert.Same(t, kindTree, got[1])
	assert.Same(t, kindUI, got[2])
	assert.Same(t, Root, got[3])

	assert.Equal(t, []*Kind{Root}, Root.Ancestors())
}

func TestKind_Is(t *testing.T) {
	tests := []struct {
		name  string
		kind  *Kind
		other *Kind
		want  bool
	}{
		{"self", kindTree, kindTree, true},
		{"parent", kindCollapsed, kindTree, true},
		{"root", kindCollapsed, Root, true},
		{"child", kindUI, kindTree, false},
		{"sibling", kindUI, kindNet, false},
		{"nil", kindUI, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Is(tt.other))
		})
	}
}

func TestKind_StringNil(t *testing.T) {
	var k *Kind
	assert.Equal(t, "<nil>", k.String())
}
