package app

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/cascade/internal/event"
	"github.com/dshills/cascade/internal/logging"
	"github.com/dshills/cascade/internal/script"
)

// DefaultSinkTopic is the topic of messages written by the event tracer.
const DefaultSinkTopic = "events"

// Options configures a Host.
type Options struct {
	// Name identifies the host in logs and is its String form.
	Name string

	// Logger receives emitter, sink and script output. Nil discards it.
	Logger *logrus.Logger

	// RecoverPanics turns subscriber panics into *event.PanicError.
	RecoverPanics bool

	// Kinds are defined in the catalog at startup.
	Kinds []string

	// SinkTopic is the topic of traced events. Defaults to DefaultSinkTopic.
	SinkTopic string

	// ScriptTimeout bounds each top-level Lua call. Zero uses the runtime
	// default.
	ScriptTimeout time.Duration
}

// Host owns an emitter and its collaborators for one logical scope.
type Host struct {
	name    string
	logger  *logrus.Logger
	catalog *event.Catalog
	emitter *event.Emitter
	sink    logging.Sink
	tracer  *logging.EventSink
	runtime *script.Runtime

	closed    atomic.Bool
	closeOnce sync.Once
	opts      Options
}

// New creates a Host and bootstraps its components.
func New(opts Options) (*Host, error) {
	if opts.Name == "" {
		opts.Name = "cascade"
	}
	if opts.SinkTopic == "" {
		opts.SinkTopic = DefaultSinkTopic
	}
	h := &Host{
		name:   opts.Name,
		logger: opts.Logger,
		opts:   opts,
	}
	if h.logger == nil {
		h.logger = logging.Discard()
	}

	if err := h.bootstrap(); err != nil {
		return nil, err
	}
	return h, nil
}

// bootstrap initializes components in dependency order.
func (h *Host) bootstrap() error {
	log := h.logger.WithField("host", h.name)

	// 1. Catalog
	h.catalog = event.NewCatalog()
	for _, name := range h.opts.Kinds {
		if _, err := h.catalog.Define(name); err != nil {
			return &InitError{Component: "catalog", Err: err}
		}
	}

	// 2. Emitter, with the host as call context
	h.emitter = event.NewEmitter(
		event.WithOwner(h),
		event.WithLogger(log.WithField("component", "emitter")),
		event.WithPanicRecovery(h.opts.RecoverPanics),
	)

	// 3. Sink
	h.sink = logging.NewConsoleSink(h.logger, h.name)
	h.tracer = logging.NewEventSink(h.sink, h.opts.SinkTopic)

	// 4. Scripts
	scriptOpts := []script.Option{script.WithLogger(log.WithField("component", "script"))}
	if h.opts.ScriptTimeout > 0 {
		scriptOpts = append(scriptOpts, script.WithTimeout(h.opts.ScriptTimeout))
	}
	h.runtime = script.New(scriptOpts...)
	h.runtime.BindEmitter(h.emitter, h.catalog)

	log.WithField("kinds", h.catalog.Len()).Debug("Host started")
	return nil
}

// Name returns the host name.
func (h *Host) Name() string {
	return h.name
}

// String returns the host name, so subscribers printing their owner see it.
func (h *Host) String() string {
	return h.name
}

// Logger returns the host logger.
func (h *Host) Logger() *logrus.Logger {
	return h.logger
}

// Catalog returns the kind catalog.
func (h *Host) Catalog() *event.Catalog {
	return h.catalog
}

// Emitter returns the emitter.
func (h *Host) Emitter() *event.Emitter {
	return h.emitter
}

// Sink returns the log sink.
func (h *Host) Sink() logging.Sink {
	return h.sink
}

// Runtime returns the Lua runtime. Its emit global dispatches on Emitter.
func (h *Host) Runtime() *script.Runtime {
	return h.runtime
}

// Define adds kinds to the catalog and returns them in order.
func (h *Host) Define(names ...string) ([]*event.Kind, error) {
	kinds := make([]*event.Kind, 0, len(names))
	for _, name := range names {
		k, err := h.catalog.Define(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Emit resolves kind in the catalog and emits a new event of that kind.
func (h *Host) Emit(kind string, sender, bag any) (bool, error) {
	if h.closed.Load() {
		return false, ErrClosed
	}
	k, err := h.catalog.Resolve(kind)
	if err != nil {
		return false, err
	}
	return h.emitter.Emit(event.New(k, sender, bag))
}

// Trace subscribes the event tracer, which writes every event it sees to
// the sink. With no kinds it traces everything.
func (h *Host) Trace(kinds ...*event.Kind) error {
	if h.closed.Load() {
		return ErrClosed
	}
	if len(kinds) == 0 {
		kinds = []*event.Kind{event.Root}
	}
	_, err := h.emitter.Subscribe(h.tracer, kinds...)
	return err
}

// Untrace removes the event tracer from every kind.
func (h *Host) Untrace() error {
	_, err := h.emitter.Unsubscribe(h.tracer)
	return err
}

// Closed reports whether Close has been called.
func (h *Host) Closed() bool {
	return h.closed.Load()
}

// Close drops every subscription and releases the Lua runtime. It is safe
// to call more than once.
func (h *Host) Close() error {
	var err error
	h.closeOnce.Do(func() {
		h.closed.Store(true)

		// Reverse initialization order.
		err = h.runtime.Close()
		h.emitter.Clear()

		stats := h.emitter.Stats()
		h.logger.WithFields(logrus.Fields{
			"host":      h.name,
			"emitted":   stats.Emitted,
			"delivered": stats.Delivered,
		}).Debug("Host closed")
	})
	return err
}
