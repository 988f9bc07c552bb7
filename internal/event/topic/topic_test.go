package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegments(t *testing.T) {
	assert.Nil(t, Topic("").Segments())
	assert.Equal(t, []string{"event"}, Topic("event").Segments())
	assert.Equal(t, []string{"event", "ui", "tree"}, Topic("event.ui.tree").Segments())
}

func TestChild(t *testing.T) {
	assert.Equal(t, Topic("ui"), Topic("").Child("ui"))
	assert.Equal(t, Topic("event.ui"), Topic("event").Child("ui"))
	assert.Equal(t, Topic("event.ui.tree"), Join("event", "ui").Child("tree"))
}

func TestBaseAndRoot(t *testing.T) {
	tests := []struct {
		topic Topic
		base  string
		root  string
	}{
		{"", "", ""},
		{"event", "event", "event"},
		{"event.ui", "ui", "event"},
		{"event.ui.tree.collapsed", "collapsed", "event"},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic), func(t *testing.T) {
			assert.Equal(t, tt.base, tt.topic.Base())
			assert.Equal(t, tt.root, tt.topic.Root())
		})
	}
}

func TestHasPrefixAndTrimPrefix(t *testing.T) {
	tests := []struct {
		topic   Topic
		prefix  Topic
		matches bool
		trimmed Topic
	}{
		{"event.ui.tree", "", true, "event.ui.tree"},
		{"event.ui.tree", "event", true, "ui.tree"},
		{"event.ui.tree", "event.ui", true, "tree"},
		{"event.ui.tree", "event.ui.tree", true, ""},
		{"event.uix", "event.ui", false, "event.uix"},
		{"event.ui", "event.ui.tree", false, "event.ui"},
		{"net", "event", false, "net"},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic)+"/"+string(tt.prefix), func(t *testing.T) {
			assert.Equal(t, tt.matches, tt.topic.HasPrefix(tt.prefix))
			assert.Equal(t, tt.trimmed, tt.topic.TrimPrefix(tt.prefix))
		})
	}
}

func TestIsValid(t *testing.T) {
	valid := []Topic{"event", "event.ui", "event.ui_tree.row-3", "Event.UI"}
	invalid := []Topic{"", ".", "event.", ".event", "event..ui", "event.ui tree", "event.ü"}

	for _, tp := range valid {
		assert.True(t, tp.IsValid(), "%q should be valid", tp)
	}
	for _, tp := range invalid {
		assert.False(t, tp.IsValid(), "%q should be invalid", tp)
	}
}

func TestValidSegment(t *testing.T) {
	assert.True(t, ValidSegment("tree"))
	assert.True(t, ValidSegment("row_3-a"))
	assert.False(t, ValidSegment(""))
	assert.False(t, ValidSegment("a.b"))
	assert.False(t, ValidSegment("a b"))
}
