package script

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Errors for runtime operations.
var (
	// ErrClosed is returned when operating on a closed runtime.
	ErrClosed = errors.New("lua runtime is closed")

	// ErrUndefined is returned when a global the caller asked for is nil.
	ErrUndefined = errors.New("lua global not defined")

	// ErrNotCallable is returned when a global is not a function, or an
	// object has no handle_event method.
	ErrNotCallable = errors.New("lua value is not callable")
)

// Error is a failure raised while running Lua code: a syntax error in a
// chunk, a runtime error in a subscriber, or an error returned by a Go
// subscriber that Lua code reached through emit.
type Error struct {
	// Name is the chunk or subscriber that failed.
	Name string

	// Message is the Lua error message without the stack trace.
	Message string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("lua %s: %s", e.Name, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError builds an Error from a gopher-lua failure. cause, when set, is
// the Go error that triggered the Lua error and replaces it in the chain.
func newError(name string, err error, cause error) *Error {
	msg := err.Error()
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		msg = apiErr.Object.String()
	}
	if cause != nil {
		err = cause
	}
	return &Error{Name: name, Message: msg, Err: err}
}
