package cleanups

import (
	"strconv"
	"sync"
)

// Status represents the outcome of a single record within a run.
type Status string

// Record status constants.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSkipped   Status = "skipped"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Func executes a cleanup action. The Call carries the arguments that
// were bound when the action was registered.
type Func func(call Call) (any, error)

// Call holds the arguments bound to a cleanup action at registration
// time: an ordered positional sequence and an optional named mapping.
type Call struct {
	// Args are the positional arguments, in registration order.
	Args []any

	// Named are the named arguments. May be nil.
	Named map[string]any
}

// clone copies both argument containers so later mutation by the
// caller is not observed. Values inside the containers are shared.
func (c Call) clone() Call {
	out := Call{}
	if c.Args != nil {
		out.Args = make([]any, len(c.Args))
		copy(out.Args, c.Args)
	}
	if c.Named != nil {
		out.Named = make(map[string]any, len(c.Named))
		for k, v := range c.Named {
			out.Named[k] = v
		}
	}
	return out
}

// Cleanup is a single deferred action owned by a Registry. Records are
// created by the Registry's Add methods, never directly.
//
// The bound arguments are frozen at registration. The display name is
// the only mutable attribute and exists for diagnostics only.
type Cleanup struct {
	id   int64
	fn   Func
	call Call

	mu    sync.Mutex
	name  string
	runID string
}

// ID returns the record's identifier. IDs increase monotonically and
// are never reused within the owning Registry's lifetime.
func (c *Cleanup) ID() int64 {
	return c.id
}

// Name returns the display name, or "" if none was set.
func (c *Cleanup) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// SetName assigns a display name used in diagnostics.
func (c *Cleanup) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

// RunID returns the identifier of the run that consumed this record,
// or "" while the record is still pending.
func (c *Cleanup) RunID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runID
}

// setRunID stamps the record with the run that detached it.
func (c *Cleanup) setRunID(runID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runID = runID
}

// Arguments returns a copy of the bound arguments.
func (c *Cleanup) Arguments() Call {
	return c.call.clone()
}

// Run invokes the action with the bound arguments, returning whatever
// the action returns or the error it fails with, unmodified. A panic
// inside the action propagates; Registry.Run recovers it into a
// *PanicError before reporting to listeners.
func (c *Cleanup) Run() (any, error) {
	return c.fn(c.call)
}

// String returns "id: name" if a display name is set, else just the id.
func (c *Cleanup) String() string {
	id := strconv.FormatInt(c.id, 10)
	if name := c.Name(); name != "" {
		return id + ": " + name
	}
	return id
}
