package cleanups

import "log/slog"

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithLogger sets the logger used for the registry's diagnostic
// channel: run progress and panicking listeners.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithListener attaches an instance-scoped listener at construction,
// before any record can be registered or run. It is how observability
// and history integrations are wired in:
//
//	reg := cleanups.New(
//	    cleanups.WithListener(history.NewRecorder(store)),
//	)
//
// A nil listener is ignored.
func WithListener(l Listener) Option {
	return func(r *Registry) {
		if l != nil {
			r.listeners = append(r.listeners, l)
		}
	}
}

// WithExitHook arranges for the registry's Run to be invoked once by
// Exit or RunExitHooks at process termination.
//
// Example:
//
//	reg := cleanups.New(cleanups.WithExitHook())
func WithExitHook() Option {
	return func(r *Registry) {
		r.exitHook = true
	}
}
