package cleanups

import (
	"log/slog"
	"runtime/debug"
)

// notifier fans a notification out to the effective listener order
// snapshotted at detach time. Each listener is isolated: a panic from
// one callback is reported to the diagnostic logger and never reaches
// the other listeners, the action, or Run's caller.
type notifier struct {
	registry  *Registry
	listeners []Listener
	logger    *slog.Logger
}

// starting notifies every listener and reports whether any of them
// voted to suppress the record's execution. A panicking listener's
// vote counts as false.
func (n *notifier) starting(c *Cleanup) bool {
	skip := false
	for _, l := range n.listeners {
		if n.dispatch("starting", func() bool {
			return l.Starting(n.registry, c)
		}) {
			skip = true
		}
	}
	return skip
}

func (n *notifier) completed(c *Cleanup, value any) {
	for _, l := range n.listeners {
		n.dispatch("completed", func() bool {
			l.Completed(n.registry, c, value)
			return false
		})
	}
}

func (n *notifier) failed(c *Cleanup, err error) {
	for _, l := range n.listeners {
		n.dispatch("failed", func() bool {
			l.Failed(n.registry, c, err)
			return false
		})
	}
}

func (n *notifier) skipped(c *Cleanup) {
	for _, l := range n.listeners {
		so, ok := l.(SkipObserver)
		if !ok {
			continue
		}
		n.dispatch("skipped", func() bool {
			so.Skipped(n.registry, c)
			return false
		})
	}
}

func (n *notifier) runStarted(runID string, pending int) {
	for _, l := range n.listeners {
		ro, ok := l.(RunObserver)
		if !ok {
			continue
		}
		n.dispatch("run started", func() bool {
			ro.RunStarted(n.registry, runID, pending)
			return false
		})
	}
}

func (n *notifier) runFinished(runID string) {
	for _, l := range n.listeners {
		ro, ok := l.(RunObserver)
		if !ok {
			continue
		}
		n.dispatch("run finished", func() bool {
			ro.RunFinished(n.registry, runID)
			return false
		})
	}
}

// dispatch invokes a single listener callback, recovering a panic and
// surfacing it only through the diagnostic logger.
func (n *notifier) dispatch(name string, fn func() bool) (result bool) {
	defer func() {
		if rec := recover(); rec != nil {
			result = false
			n.logger.Warn("cleanup listener panicked",
				slog.String("notification", name),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	return fn()
}
