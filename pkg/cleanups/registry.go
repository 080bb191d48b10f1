package cleanups

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Registry coordinates pending cleanup records for one logical scope.
// All methods are safe for concurrent use.
//
// The zero value is not usable; create registries with New.
type Registry struct {
	mu        sync.Mutex
	pending   []*Cleanup
	nextID    int64
	listeners []Listener

	logger   *slog.Logger
	exitHook bool
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.exitHook {
		registerExitHook(r.Run)
	}
	return r
}

// Add registers fn to run with the given positional arguments and
// appends it to the end of the pending list, so it executes before
// previously registered records. The arguments are copied; mutating
// args after Add does not affect the record.
//
// Add panics with an error wrapping ErrNilFunc if fn is nil.
func (r *Registry) Add(fn Func, args ...any) *Cleanup {
	return r.AddCall(fn, Call{Args: args})
}

// AddCall is the full form of Add, accepting named arguments as well.
func (r *Registry) AddCall(fn Func, call Call) *Cleanup {
	if fn == nil {
		panic(fmt.Errorf("cleanups: Add: %w", ErrNilFunc))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.newCleanup(fn, call)
	r.pending = append(r.pending, c)
	return c
}

// AddFront registers fn at the front of the pending list, so it
// executes after every currently pending record.
//
// AddFront panics with an error wrapping ErrNilFunc if fn is nil.
func (r *Registry) AddFront(fn Func, args ...any) *Cleanup {
	return r.AddFrontCall(fn, Call{Args: args})
}

// AddFrontCall is the full form of AddFront, accepting named arguments
// as well.
func (r *Registry) AddFrontCall(fn Func, call Call) *Cleanup {
	if fn == nil {
		panic(fmt.Errorf("cleanups: AddFront: %w", ErrNilFunc))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.newCleanup(fn, call)
	r.pending = slices.Insert(r.pending, 0, c)
	return c
}

// newCleanup allocates the next id and builds a record.
// Callers must hold r.mu.
func (r *Registry) newCleanup(fn Func, call Call) *Cleanup {
	r.nextID++
	return &Cleanup{
		id:   r.nextID,
		fn:   fn,
		call: call.clone(),
	}
}

// Remove discards a pending record so its action is never invoked.
// It returns ErrNotFound if the record is not currently pending, for
// example because it was already removed or consumed by a run.
func (r *Registry) Remove(c *Cleanup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, pc := range r.pending {
		if pc == c {
			r.pending = slices.Delete(r.pending, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("remove cleanup %s: %w", c, ErrNotFound)
}

// Clear discards all pending records without executing them.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = nil
}

// Contains reports whether c is currently pending.
func (r *Registry) Contains(c *Cleanup) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.pending, c)
}

// Len returns the number of pending records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// AddListener registers an instance-scoped listener. Instance
// listeners are notified after process-wide listeners, in registration
// order.
//
// Listener registrations are only guaranteed to be observed by runs
// that start afterward; synchronize externally if a run may already be
// in flight.
func (r *Registry) AddListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// RemoveListener unregisters an instance-scoped listener.
// It returns ErrListenerNotFound if the listener is not registered.
func (r *Registry) RemoveListener(l Listener) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rl := range r.listeners {
		if rl == l {
			r.listeners = slices.Delete(r.listeners, i, i+1)
			return nil
		}
	}
	return ErrListenerNotFound
}

// Run executes every record that was pending when it was called, in
// reverse registration order, strictly sequentially on the calling
// goroutine.
//
// Run atomically detaches the pending list before executing anything:
// records added concurrently land in a fresh list and are left for a
// future call. The effective listener order, process-wide listeners
// followed by instance listeners, is fixed at the same point.
//
// Run never panics and reports no error. An action that fails or
// panics is reported to listeners through Failed and processing
// continues with the next record. See the Listener documentation for
// how a Starting callback can suppress a record's execution.
func (r *Registry) Run() {
	runID := newRunID()
	detached, n := r.detach(runID)

	r.logger.Debug("cleanup run starting",
		slog.String("run_id", runID),
		slog.Int("pending", len(detached)),
	)

	n.runStarted(runID, len(detached))
	for i := len(detached) - 1; i >= 0; i-- {
		r.execute(n, detached[i])
	}
	n.runFinished(runID)

	r.logger.Debug("cleanup run finished",
		slog.String("run_id", runID),
	)
}

// detach swaps out the pending list and snapshots the effective
// listener order. The instance lock and the global listener lock are
// taken one after the other, never together.
func (r *Registry) detach(runID string) ([]*Cleanup, *notifier) {
	r.mu.Lock()
	detached := r.pending
	r.pending = nil
	instance := slices.Clone(r.listeners)
	r.mu.Unlock()

	for _, c := range detached {
		c.setRunID(runID)
	}

	effective := append(snapshotGlobalListeners(), instance...)
	return detached, &notifier{
		registry:  r,
		listeners: effective,
		logger:    r.logger,
	}
}

// execute runs a single detached record through the notification
// protocol. The record ends in exactly one of three terminal states:
// skipped, completed, or failed.
func (r *Registry) execute(n *notifier, c *Cleanup) {
	if n.starting(c) {
		r.logger.Debug("cleanup skipped by listener",
			slog.String("run_id", c.RunID()),
			slog.String("cleanup", c.String()),
		)
		n.skipped(c)
		return
	}

	value, err := runAction(c)
	if err != nil {
		r.logger.Error("cleanup failed",
			slog.String("run_id", c.RunID()),
			slog.String("cleanup", c.String()),
			slog.String("error", err.Error()),
		)
		n.failed(c, err)
		return
	}

	r.logger.Debug("cleanup completed",
		slog.String("run_id", c.RunID()),
		slog.String("cleanup", c.String()),
	)
	n.completed(c, value)
}

// runAction invokes the record's action, converting a panic into a
// *PanicError so the run loop can report it like any other failure.
func runAction(c *Cleanup) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{
				CleanupID: c.ID(),
				Name:      c.Name(),
				Value:     rec,
				Stack:     string(debug.Stack()),
			}
		}
	}()
	return c.Run()
}

// Scope invokes fn and then runs the registry exactly once, on both
// the normal and the panicking return path. A panic from fn resumes
// propagating after Run completes.
//
// Example:
//
//	reg.Scope(func() {
//	    reg.AddRemoveTree(dir)
//	    stage(dir)
//	})
//	// the directory is gone here, even if stage panicked
func (r *Registry) Scope(fn func()) {
	defer r.Run()
	fn()
}

// newRunID returns a short unique identifier for one Run invocation,
// used to correlate logs, spans, and history entries.
func newRunID() string {
	return "run-" + uuid.New().String()[:8]
}
