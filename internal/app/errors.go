package app

import "errors"

// ErrClosed is returned by operations on a closed Host.
var ErrClosed = errors.New("host is closed")

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
