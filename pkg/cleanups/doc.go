/*
Package cleanups provides a thread-safe registry of deferred cleanup
actions executed in reverse registration order.

# Overview

cleanups is a Go library for deterministic resource teardown. Callers
register release actions as resources are acquired, and a Registry
guarantees they run last-in-first-out, on demand or at process exit,
even under concurrent registration and removal.

The library provides:
  - Concurrent add/remove/run with an atomic run snapshot
  - A listener protocol observing every execution
  - Per-instance and process-wide listeners
  - OpenTelemetry integration via the observability subpackage
  - Persistent execution history via the history subpackage

# Basic Usage

Create a registry, register actions, and run them:

	func main() {
	    reg := cleanups.New()

	    reg.Add(func(call cleanups.Call) (any, error) {
	        return nil, db.Close()
	    })
	    reg.AddRemoveTree(workDir)

	    defer reg.Run() // runs remove-tree first, then db.Close
	}

Arguments are bound at registration time and delivered unchanged when
the action executes:

	reg.Add(func(call cleanups.Call) (any, error) {
	    fmt.Println(call.Args...) // 1 2 3
	    return nil, nil
	}, 1, 2, 3)

# Ordering

Run executes the records that were pending at the moment it starts, in
reverse registration order. Records added from other goroutines while a
run is in flight land in a fresh pending list and are left for a future
Run call. AddFront inserts at the front of the list, so its action runs
after everything registered with Add.

# Listeners

Listeners observe execution without participating in it:

	type audit struct{ cleanups.BaseListener }

	func (audit) Completed(r *cleanups.Registry, c *cleanups.Cleanup, v any) {
	    log.Printf("cleaned up %s", c)
	}

	reg.AddListener(audit{})
	cleanups.AddGlobalListener(audit{}) // observes every registry

A listener's Starting callback may return true to suppress execution of
that record. A panicking listener never affects the run: the panic is
logged and the remaining listeners and records proceed normally.

# Failure Isolation

Run never fails. An action that returns an error or panics is reported
to listeners through Failed (panics are captured as *PanicError with
the stack) and processing continues with the next record. Synchronous
API misuse, such as removing a record that was already consumed, is
reported immediately to the caller instead.

# Process Exit

Registries built with WithExitHook (including the Default registry) are
run by Exit and RunExitHooks, giving a Go analogue of atexit:

	func main() {
	    defer cleanups.RunExitHooks()
	    cleanups.Add(releaseLock, lockPath)
	    ...
	}
*/
package cleanups
