package cleanups

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Listener observes the execution of cleanup records. Implementations
// are registered per registry with AddListener or for every registry
// in the process with AddGlobalListener; the callbacks occur inside
// Registry.Run.
//
// For each executed record, Starting is invoked first, then exactly
// one of Completed or Failed, never both. A listener that panics is
// isolated: the panic is reported to the registry's diagnostic logger
// and has no effect on the action, other listeners, or the run.
//
// Embed BaseListener to implement only the callbacks of interest.
type Listener interface {
	// Starting is invoked before a record's action executes. Returning
	// true suppresses the execution: the action does not run and
	// neither Completed nor Failed is invoked for the record. All
	// listeners are still notified, and the record is skipped if any
	// of them returns true.
	Starting(r *Registry, c *Cleanup) bool

	// Completed is invoked after the action returns successfully, with
	// the action's return value.
	Completed(r *Registry, c *Cleanup, value any)

	// Failed is invoked after the action returns an error or panics.
	// A panic is delivered as a *PanicError.
	Failed(r *Registry, c *Cleanup, err error)
}

// RunObserver is an optional extension of Listener. Listeners that
// implement it are additionally notified of run boundaries, with the
// run identifier that also appears in the registry's logs.
type RunObserver interface {
	// RunStarted is invoked once per Run call, before the first
	// record, with the number of detached records.
	RunStarted(r *Registry, runID string, pending int)

	// RunFinished is invoked once per Run call, after the last record.
	RunFinished(r *Registry, runID string)
}

// SkipObserver is an optional extension of Listener. Listeners that
// implement it are notified when a record's execution was suppressed
// by a Starting callback.
type SkipObserver interface {
	Skipped(r *Registry, c *Cleanup)
}

// BaseListener is a no-op Listener for embedding.
type BaseListener struct{}

// Starting implements Listener.
func (BaseListener) Starting(*Registry, *Cleanup) bool { return false }

// Completed implements Listener.
func (BaseListener) Completed(*Registry, *Cleanup, any) {}

// Failed implements Listener.
func (BaseListener) Failed(*Registry, *Cleanup, error) {}

// DebugListener writes a line to an output sink for every
// notification, including the stack trace for panicking actions. It is
// a diagnostic aid, not part of the core contract.
type DebugListener struct {
	// W is the output sink. Defaults to os.Stderr when nil.
	W io.Writer

	mu sync.Mutex
}

// Starting implements Listener. It never suppresses execution.
func (d *DebugListener) Starting(_ *Registry, c *Cleanup) bool {
	d.logf("Starting cleanup operation: %s", c)
	return false
}

// Completed implements Listener.
func (d *DebugListener) Completed(_ *Registry, c *Cleanup, value any) {
	d.logf("Cleanup operation completed successfully: %s (returned %v)", c, value)
}

// Failed implements Listener.
func (d *DebugListener) Failed(_ *Registry, c *Cleanup, err error) {
	d.logf("Cleanup operation FAILED: %s (%v)", c, err)
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		d.logf("%s", panicErr.Stack)
	}
}

func (d *DebugListener) logf(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.W
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// LogListener reports every notification through a structured logger.
type LogListener struct {
	// Logger receives the records. Defaults to slog.Default() when nil.
	Logger *slog.Logger
}

// Starting implements Listener. It never suppresses execution.
func (l LogListener) Starting(_ *Registry, c *Cleanup) bool {
	l.logger().Debug("cleanup starting", slog.String("cleanup", c.String()))
	return false
}

// Completed implements Listener.
func (l LogListener) Completed(_ *Registry, c *Cleanup, value any) {
	l.logger().Info("cleanup completed",
		slog.String("cleanup", c.String()),
		slog.Any("value", value),
	)
}

// Failed implements Listener.
func (l LogListener) Failed(_ *Registry, c *Cleanup, err error) {
	l.logger().Error("cleanup failed",
		slog.String("cleanup", c.String()),
		slog.String("error", err.Error()),
	)
}

func (l LogListener) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}
