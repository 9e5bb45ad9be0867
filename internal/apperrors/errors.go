// Package apperrors defines the error taxonomy shared by the ride core.
// Callers distinguish kinds with errors.Is / errors.As; none of these are
// retried automatically.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a ride id does not exist in the store.
	ErrNotFound = errors.New("ride not found")

	// ErrValidation marks malformed input to a pure operation.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition marks a lifecycle edge attempted from a state
	// that does not permit it, including a race lost to a concurrent
	// transition.
	ErrInvalidTransition = errors.New("invalid ride transition")

	// ErrTransient marks a store or notifier I/O failure. Store failures
	// propagate; notifier failures are logged and swallowed.
	ErrTransient = errors.New("transient io failure")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

type InvalidTransitionError struct {
	Event   string
	Current string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s ride in status %q", e.Event, e.Current)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

func NewInvalidTransitionError(event, current string) error {
	return &InvalidTransitionError{Event: event, Current: current}
}

type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return ErrTransient }

func NewTransientError(op string, err error) error {
	return &TransientError{Op: op, Err: err}
}
