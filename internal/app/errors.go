package app

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrUnboundKey indicates a key chord with no action bound to it.
	ErrUnboundKey = errors.New("key not bound")

	// ErrUnknownFormat indicates a document format other than markdown or JSON.
	ErrUnknownFormat = errors.New("unknown document format")

	// ErrActionFailed indicates an action that ended in an error result
	// without carrying an error of its own.
	ErrActionFailed = errors.New("action failed")

	// ErrNoPath indicates saving a document that has no file.
	ErrNoPath = errors.New("document has no path")

	// ErrNotFound indicates a search with no match.
	ErrNotFound = errors.New("not found")

	// ErrInitialization indicates a session could not be set up.
	ErrInitialization = errors.New("initialization failed")
)

// InitError reports which part of a session failed to initialize.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() []error {
	return []error{ErrInitialization, e.Err}
}

// OperationError is returned by Session methods. Op names the method
// ("press", "run", "open", "select", ...) and Target what it was applied
// to: a key chord, an action name, a path or a position.
type OperationError struct {
	Op     string
	Target string
	Err    error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	msg := e.Op
	if e.Target != "" {
		msg += " " + e.Target
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
