package app

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cascade/internal/event"
)

func newHost(t *testing.T, opts Options) (*Host, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	opts.Logger = logger

	h, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h, hook
}

func TestNewDefaults(t *testing.T) {
	h, err := New(Options{})
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, "cascade", h.Name())
	assert.Equal(t, "cascade", h.String())
	assert.NotNil(t, h.Logger())
	assert.NotNil(t, h.Sink())
	assert.NotNil(t, h.Runtime())
	assert.Same(t, h, h.Emitter().Owner())
	assert.Equal(t, 1, h.Catalog().Len())
}

func TestNewInvalidKind(t *testing.T) {
	_, err := New(Options{Kinds: []string{"ui..tree"}})

	var initErr *InitError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, "catalog", initErr.Component)
	assert.ErrorIs(t, err, event.ErrInvalidKind)
}

func TestHostIsOwner(t *testing.T) {
	h, _ := newHost(t, Options{Name: "editor", Kinds: []string{"ui.tree"}})

	var owner any
	fn := event.Listen(func(o any, _ event.Event) error {
		owner = o
		return nil
	})
	_, err := h.Emitter().Subscribe(fn, h.Catalog().MustDefine("ui"))
	require.NoError(t, err)

	delivered, err := h.Emit("ui.tree", "tree", nil)
	require.NoError(t, err)
	assert.True(t, delivered)
	assert.Same(t, h, owner)
}

func TestEmitUnknownKind(t *testing.T) {
	h, _ := newHost(t, Options{})

	_, err := h.Emit("nope", nil, nil)
	assert.ErrorIs(t, err, event.ErrUnknownKind)
}

func TestDefine(t *testing.T) {
	h, _ := newHost(t, Options{})

	kinds, err := h.Define("ui.tree", "net")
	require.NoError(t, err)
	require.Len(t, kinds, 2)
	assert.Equal(t, "event.ui.tree", kinds[0].String())
	assert.Equal(t, "event.net", kinds[1].String())

	_, err = h.Define("bad name")
	assert.ErrorIs(t, err, event.ErrInvalidKind)
}

func TestTrace(t *testing.T) {
	h, hook := newHost(t, Options{Name: "editor", Kinds: []string{"ui.tree"}})

	require.NoError(t, h.Trace())
	hook.Reset()

	_, err := h.Emit("ui.tree", "tree", map[string]any{"row": 3})
	require.NoError(t, err)

	var traced *logrus.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Message == "event.ui.tree" {
			traced = entry
		}
	}
	require.NotNil(t, traced, "tracer did not write the event")
	assert.Equal(t, "editor", traced.Data["app"])
	assert.Equal(t, DefaultSinkTopic, traced.Data["topic"])
	assert.Equal(t, "tree", traced.Data["from"])

	require.NoError(t, h.Untrace())
	assert.Empty(t, h.Emitter().Kinds())
}

func TestLuaSubscriberThroughHost(t *testing.T) {
	h, _ := newHost(t, Options{Name: "editor", Kinds: []string{"ui.tree", "net"}})

	require.NoError(t, h.Runtime().Load("relay", `
		function relay(owner, ev) emit("net", ev.bag) end
	`))
	relay, err := h.Runtime().Func("relay")
	require.NoError(t, err)

	var got any
	rec := event.Listen(func(_ any, e event.Event) error {
		got = e.Bag()
		return nil
	})

	ui, _ := h.Catalog().Lookup("ui")
	net, _ := h.Catalog().Lookup("net")
	_, err = h.Emitter().Subscribe(relay, ui)
	require.NoError(t, err)
	_, err = h.Emitter().Subscribe(rec, net)
	require.NoError(t, err)

	_, err = h.Emit("ui.tree", nil, "payload")
	require.NoError(t, err)
	assert.Equal(t, "payload", got)
}

func TestRecoverPanics(t *testing.T) {
	h, _ := newHost(t, Options{RecoverPanics: true, Kinds: []string{"net"}})

	boom := event.Listen(func(any, event.Event) error { panic("boom") })
	net, _ := h.Catalog().Lookup("net")
	_, err := h.Emitter().Subscribe(boom, net)
	require.NoError(t, err)

	_, err = h.Emit("net", nil, nil)
	assert.ErrorIs(t, err, event.ErrHandlerPanic)
}

func TestClose(t *testing.T) {
	h, hook := newHost(t, Options{Kinds: []string{"net"}})

	net, _ := h.Catalog().Lookup("net")
	_, err := h.Emitter().Subscribe(event.Listen(func(any, event.Event) error { return nil }), net)
	require.NoError(t, err)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())

	assert.True(t, h.Closed())
	assert.True(t, h.Runtime().Closed())
	assert.Empty(t, h.Emitter().Kinds())

	_, err = h.Emit("net", nil, nil)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, h.Trace(), ErrClosed)

	var closed int
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Host closed" {
			closed++
		}
	}
	assert.Equal(t, 1, closed)
}
