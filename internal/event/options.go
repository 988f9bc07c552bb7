package event

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Option configures an Emitter.
type Option func(*Emitter)

// WithOwner sets the call context passed to callable subscribers. The owner
// is typically the object that holds the emitter; it may be nil.
func WithOwner(owner any) Option {
	return func(em *Emitter) {
		em.owner = owner
	}
}

// WithLogger sets the logger used for subscription and dispatch diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(em *Emitter) {
		if logger != nil {
			em.logger = logger
		}
	}
}

// WithPanicRecovery controls whether a panicking subscriber is converted into
// a *PanicError returned by Emit. Disabled by default: panics propagate to
// the caller of Emit like any other failure.
func WithPanicRecovery(enabled bool) Option {
	return func(em *Emitter) {
		em.recoverPanics = enabled
	}
}

// discardLogger returns a logger that drops everything.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
