package cleanups

import (
	"os"
	"sync"
)

// Exit hooks give registries an atexit analogue. Go offers no hook
// into process termination, so programs that want automatic cleanup
// route their exit through Exit or call RunExitHooks from main.
var (
	exitMu    sync.Mutex
	exitHooks []func()
)

// registerExitHook queues fn to run at process exit. Each hook runs at
// most once even if both RunExitHooks and Exit are called.
func registerExitHook(fn func()) {
	once := new(sync.Once)
	exitMu.Lock()
	defer exitMu.Unlock()
	exitHooks = append(exitHooks, func() {
		once.Do(fn)
	})
}

// RunExitHooks runs every registry registered with WithExitHook, most
// recently constructed first, without exiting the process. It is meant
// to be deferred from main:
//
//	func main() {
//	    defer cleanups.RunExitHooks()
//	    ...
//	}
func RunExitHooks() {
	exitMu.Lock()
	hooks := exitHooks
	exitHooks = nil
	exitMu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hooks[i]()
	}
}

// Exit runs the exit hooks and then terminates the process with the
// given status code. Deferred functions do not run; use Exit only from
// a program's outermost exit path.
func Exit(code int) {
	RunExitHooks()
	os.Exit(code)
}
