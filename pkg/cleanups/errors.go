package cleanups

import (
	"errors"
	"fmt"
)

// Sentinel errors for synchronous registry operations.
var (
	// ErrNotFound indicates Remove was called with a record that is not
	// pending, typically because it was already removed or consumed by
	// a run.
	ErrNotFound = errors.New("cleanup not found")

	// ErrListenerNotFound indicates RemoveListener or
	// RemoveGlobalListener was called with an unregistered listener.
	ErrListenerNotFound = errors.New("listener not found")

	// ErrNilFunc is the error Add and AddFront panic with when called
	// with a nil Func. It is a programmer error, so it is reported
	// synchronously rather than through a return value.
	ErrNilFunc = errors.New("nil cleanup func")
)

// PanicError captures a panic raised by a cleanup action.
// It includes the stack trace for debugging.
type PanicError struct {
	// CleanupID is the identifier of the record that panicked.
	CleanupID int64
	// Name is the record's display name, if any.
	Name string
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("cleanup %d (%s) panicked: %v", e.CleanupID, e.Name, e.Value)
	}
	return fmt.Sprintf("cleanup %d panicked: %v", e.CleanupID, e.Value)
}
