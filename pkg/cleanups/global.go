package cleanups

import (
	"slices"
	"sync"
)

// Process-wide listener set, shared by every Registry. Guarded by its
// own lock, which is never held together with an instance lock.
var (
	globalMu        sync.Mutex
	globalListeners []Listener
)

// AddGlobalListener registers a listener that observes every Registry
// in the process. Global listeners are notified before instance
// listeners, in registration order.
func AddGlobalListener(l Listener) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalListeners = append(globalListeners, l)
}

// RemoveGlobalListener unregisters a process-wide listener.
// It returns ErrListenerNotFound if the listener is not registered.
func RemoveGlobalListener(l Listener) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	for i, gl := range globalListeners {
		if gl == l {
			globalListeners = slices.Delete(globalListeners, i, i+1)
			return nil
		}
	}
	return ErrListenerNotFound
}

// snapshotGlobalListeners returns a fresh copy of the process-wide
// listener set, fixed for the duration of one run.
func snapshotGlobalListeners() []Listener {
	globalMu.Lock()
	defer globalMu.Unlock()
	return slices.Clone(globalListeners)
}

// Default registry, created on first use and run at process exit via
// the exit hooks. Never torn down.
var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide default Registry used by the
// package-level Add, AddFront, and Remove functions. It is created on
// first use with WithExitHook.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New(WithExitHook())
	})
	return defaultRegistry
}

// Add registers a cleanup with the default Registry.
func Add(fn Func, args ...any) *Cleanup {
	return Default().Add(fn, args...)
}

// AddFront registers a cleanup at the front of the default Registry.
func AddFront(fn Func, args ...any) *Cleanup {
	return Default().AddFront(fn, args...)
}

// Remove discards a pending record from the default Registry.
func Remove(c *Cleanup) error {
	return Default().Remove(c)
}
