package config

import (
	"fmt"
	"slices"

	"github.com/randalmurphal/cleanups/pkg/cleanups"
	"github.com/randalmurphal/cleanups/pkg/cleanups/history"
)

// Runtime holds the registry options and listeners assembled from a
// Config, plus any backing resources they own.
type Runtime struct {
	// Options are passed to cleanups.New.
	Options []cleanups.Option

	// Listeners are attached to every registry built by NewRegistry.
	Listeners []cleanups.Listener

	// History is the backing store when history is configured, else
	// nil. Owned by the Runtime; released by Close.
	History history.Store
}

// Build translates a Config into a Runtime.
//
// Recognized keys: exit_hook (bool), debug_listener (bool),
// history_backend ("memory" or "sqlite"), history_path (string, sqlite
// only). Unknown keys are ignored.
func Build(cfg Config) (*Runtime, error) {
	rt := &Runtime{}

	if cfg.Bool("exit_hook", false) {
		rt.Options = append(rt.Options, cleanups.WithExitHook())
	}
	if cfg.Bool("debug_listener", false) {
		rt.Listeners = append(rt.Listeners, &cleanups.DebugListener{})
	}

	switch backend := cfg.String("history_backend", ""); backend {
	case "":
	case "memory":
		rt.History = history.NewMemoryStore()
	case "sqlite":
		path := cfg.String("history_path", "")
		if path == "" {
			return nil, fmt.Errorf("history_backend %q requires history_path", backend)
		}
		store, err := history.NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		rt.History = store
	default:
		return nil, fmt.Errorf("unknown history_backend %q", backend)
	}

	if rt.History != nil {
		rt.Listeners = append(rt.Listeners, history.NewRecorder(rt.History))
	}

	return rt, nil
}

// NewRegistry builds a registry with the Runtime's options and
// listeners attached.
func (rt *Runtime) NewRegistry() *cleanups.Registry {
	opts := slices.Clone(rt.Options)
	for _, l := range rt.Listeners {
		opts = append(opts, cleanups.WithListener(l))
	}
	return cleanups.New(opts...)
}

// Close releases resources owned by the Runtime.
func (rt *Runtime) Close() error {
	if rt.History != nil {
		return rt.History.Close()
	}
	return nil
}
