package history

import (
	"log/slog"
	"sync"
	"time"

	"github.com/randalmurphal/cleanups/pkg/cleanups"
)

// Recorder is a cleanups.Listener that appends one Entry per record
// outcome to a Store. Store failures are surfaced only through the
// diagnostic logger; they never affect the cleanup run.
//
// Example:
//
//	store, err := history.NewSQLiteStore("./cleanups.db")
//	...
//	reg.AddListener(history.NewRecorder(store))
type Recorder struct {
	store  Store
	logger *slog.Logger

	mu     sync.Mutex
	starts map[*cleanups.Cleanup]time.Time
}

// NewRecorder creates a Recorder writing to store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{
		store:  store,
		logger: slog.Default(),
		starts: make(map[*cleanups.Cleanup]time.Time),
	}
}

// WithLogger sets the logger used to report store failures.
func (r *Recorder) WithLogger(logger *slog.Logger) *Recorder {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Starting implements cleanups.Listener. It never suppresses
// execution.
func (r *Recorder) Starting(_ *cleanups.Registry, c *cleanups.Cleanup) bool {
	r.mu.Lock()
	r.starts[c] = time.Now()
	r.mu.Unlock()
	return false
}

// Completed implements cleanups.Listener.
func (r *Recorder) Completed(_ *cleanups.Registry, c *cleanups.Cleanup, _ any) {
	r.append(c, cleanups.StatusCompleted, "")
}

// Failed implements cleanups.Listener.
func (r *Recorder) Failed(_ *cleanups.Registry, c *cleanups.Cleanup, err error) {
	r.append(c, cleanups.StatusFailed, err.Error())
}

// Skipped implements cleanups.SkipObserver.
func (r *Recorder) Skipped(_ *cleanups.Registry, c *cleanups.Cleanup) {
	r.append(c, cleanups.StatusSkipped, "")
}

func (r *Recorder) append(c *cleanups.Cleanup, status cleanups.Status, errMsg string) {
	r.mu.Lock()
	started := r.starts[c]
	delete(r.starts, c)
	r.mu.Unlock()

	err := r.store.Append(Entry{
		RunID:      c.RunID(),
		CleanupID:  c.ID(),
		Name:       c.Name(),
		Status:     status,
		Error:      errMsg,
		StartedAt:  started,
		FinishedAt: time.Now(),
	})
	if err != nil {
		r.logger.Warn("failed to record cleanup history",
			slog.String("cleanup", c.String()),
			slog.String("error", err.Error()),
		)
	}
}
