// Package history provides persistent audit trails of cleanup
// executions. A Recorder listens to a registry and appends one entry
// per record outcome to a Store; the registry itself never depends on
// history being available.
package history

import (
	"errors"
	"time"

	"github.com/randalmurphal/cleanups/pkg/cleanups"
)

// Entry records the terminal outcome of one cleanup execution.
type Entry struct {
	// RunID identifies the Run call that consumed the record.
	RunID string
	// CleanupID is the record's identifier within its registry.
	CleanupID int64
	// Name is the record's display name, if any.
	Name string
	// Status is the terminal status: skipped, completed, or failed.
	Status cleanups.Status
	// Error is the failure message, empty unless Status is failed.
	Error string
	// StartedAt is when the record's Starting notification fired.
	StartedAt time.Time
	// FinishedAt is when the terminal notification fired.
	FinishedAt time.Time
}

// Store persists execution history.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores one entry.
	Append(e Entry) error

	// ListRun returns all entries for a run, in execution order.
	// Returns an empty slice (not an error) if the run is unknown.
	ListRun(runID string) ([]Entry, error)

	// Runs returns the distinct run IDs present in the store, oldest
	// first.
	Runs() ([]string, error)

	// Close releases any resources (connections, files).
	Close() error
}

// ErrStoreClosed indicates the store has been closed.
var ErrStoreClosed = errors.New("history store closed")
