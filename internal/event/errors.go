package event

import (
	"errors"
	"fmt"

	"github.com/dshills/cascade/internal/event/topic"
)

// Sentinel errors for the event package.
var (
	// ErrInvalidArgument is returned when Emit, Subscribe or Unsubscribe
	// receive an argument they cannot work with. It is detected before any
	// state is changed.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrHandlerPanic is matched by PanicError when panic recovery is enabled.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrInvalidKind is returned when a kind name is empty or malformed.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrKindConflict is returned when a catalog already holds a different
	// kind under the same name.
	ErrKindConflict = errors.New("kind already defined")

	// ErrUnknownKind is returned when a kind name is not in a catalog.
	ErrUnknownKind = errors.New("unknown kind")
)

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// PanicError wraps a panic raised by a subscriber while an emitter with
// panic recovery enabled was dispatching.
type PanicError struct {
	// Kind is the concrete kind of the event being dispatched.
	Kind topic.Topic

	// Value is the value passed to panic().
	Value any

	// Stack is the stack trace at the time of the panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic while dispatching %s: %v", e.Kind, e.Value)
}

// Is allows errors.Is to match PanicError with ErrHandlerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrHandlerPanic
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
