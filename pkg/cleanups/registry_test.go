package cleanups_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/cleanups/pkg/cleanups"
)

// appendOrder returns a Func that appends its first bound argument to
// order when executed.
func appendOrder(order *[]string, mu *sync.Mutex) cleanups.Func {
	return func(call cleanups.Call) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		*order = append(*order, call.Args[0].(string))
		return nil, nil
	}
}

func TestRegistry_Run_LIFO(t *testing.T) {
	reg := cleanups.New()

	var mu sync.Mutex
	var order []string
	fn := appendOrder(&order, &mu)

	reg.Add(fn, "A")
	reg.Add(fn, "B")
	reg.Add(fn, "C")
	reg.Run()

	assert.Equal(t, []string{"C", "B", "A"}, order)
}

func TestRegistry_AddFront(t *testing.T) {
	reg := cleanups.New()

	var mu sync.Mutex
	var order []string
	fn := appendOrder(&order, &mu)

	// AddFront inserts at the front, so it executes last.
	reg.Add(fn, "A")
	reg.AddFront(fn, "B")
	reg.Add(fn, "C")
	reg.AddFront(fn, "D")
	reg.Run()

	assert.Equal(t, []string{"C", "A", "B", "D"}, order)
}

func TestRegistry_Remove(t *testing.T) {
	t.Run("removed record never runs", func(t *testing.T) {
		reg := cleanups.New()

		ran := false
		c := reg.Add(func(cleanups.Call) (any, error) {
			ran = true
			return nil, nil
		})

		require.NoError(t, reg.Remove(c))
		reg.Run()
		assert.False(t, ran)
	})

	t.Run("remove after run fails with not found", func(t *testing.T) {
		reg := cleanups.New()
		c := reg.Add(func(cleanups.Call) (any, error) { return nil, nil })
		reg.Run()

		err := reg.Remove(c)
		assert.ErrorIs(t, err, cleanups.ErrNotFound)
	})

	t.Run("failed remove leaves registry unchanged", func(t *testing.T) {
		reg := cleanups.New()
		kept := reg.Add(func(cleanups.Call) (any, error) { return nil, nil })

		other := cleanups.New().Add(func(cleanups.Call) (any, error) { return nil, nil })
		err := reg.Remove(other)
		assert.ErrorIs(t, err, cleanups.ErrNotFound)
		assert.True(t, reg.Contains(kept))
		assert.Equal(t, 1, reg.Len())
	})
}

func TestRegistry_Run_Idempotent(t *testing.T) {
	reg := cleanups.New()

	calls := 0
	reg.Add(func(cleanups.Call) (any, error) {
		calls++
		return nil, nil
	})

	reg.Run()
	reg.Run()
	assert.Equal(t, 1, calls)
}

func TestRegistry_Clear(t *testing.T) {
	reg := cleanups.New()

	ran := false
	reg.Add(func(cleanups.Call) (any, error) {
		ran = true
		return nil, nil
	})
	reg.Clear()

	assert.Equal(t, 0, reg.Len())
	reg.Run()
	assert.False(t, ran)
}

func TestRegistry_ContainsLen(t *testing.T) {
	reg := cleanups.New()
	assert.Equal(t, 0, reg.Len())

	a := reg.Add(func(cleanups.Call) (any, error) { return nil, nil })
	b := reg.Add(func(cleanups.Call) (any, error) { return nil, nil })
	assert.Equal(t, 2, reg.Len())
	assert.True(t, reg.Contains(a))
	assert.True(t, reg.Contains(b))

	require.NoError(t, reg.Remove(a))
	assert.False(t, reg.Contains(a))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_ArgumentsDeliveredVerbatim(t *testing.T) {
	reg := cleanups.New()

	var got []any
	reg.Add(func(call cleanups.Call) (any, error) {
		got = call.Args
		return nil, nil
	}, 1, 2, "3")

	reg.Run()
	assert.Equal(t, []any{1, 2, "3"}, got)
}

func TestRegistry_ArgumentsFrozenAtRegistration(t *testing.T) {
	reg := cleanups.New()

	args := []any{"x", "y"}
	named := map[string]any{"k": "v"}

	var got cleanups.Call
	c := reg.AddCall(func(call cleanups.Call) (any, error) {
		got = call
		return nil, nil
	}, cleanups.Call{Args: args, Named: named})

	// Mutating the caller's containers after registration must not be
	// observed at execution time.
	args[0] = "mutated"
	named["k"] = "mutated"
	named["extra"] = true

	reg.Run()
	assert.Equal(t, []any{"x", "y"}, got.Args)
	assert.Equal(t, map[string]any{"k": "v"}, got.Named)

	// The accessor returns a copy as well.
	snap := c.Arguments()
	snap.Args[0] = "scribbled"
	assert.Equal(t, []any{"x", "y"}, got.Args)
}

func TestRegistry_AddNilFuncPanics(t *testing.T) {
	recovered := func(fn func()) (rec any) {
		defer func() { rec = recover() }()
		fn()
		return nil
	}

	reg := cleanups.New()
	for name, fn := range map[string]func(){
		"Add":      func() { reg.Add(nil) },
		"AddFront": func() { reg.AddFront(nil) },
	} {
		t.Run(name, func(t *testing.T) {
			err, ok := recovered(fn).(error)
			require.True(t, ok)
			assert.ErrorIs(t, err, cleanups.ErrNilFunc)
		})
	}
}

func TestRegistry_IDsMonotonic(t *testing.T) {
	reg := cleanups.New()

	a := reg.Add(func(cleanups.Call) (any, error) { return nil, nil })
	b := reg.AddFront(func(cleanups.Call) (any, error) { return nil, nil })
	reg.Run()
	c := reg.Add(func(cleanups.Call) (any, error) { return nil, nil })

	assert.Less(t, a.ID(), b.ID())
	assert.Less(t, b.ID(), c.ID())
}

func TestCleanup_String(t *testing.T) {
	reg := cleanups.New()

	c := reg.Add(func(cleanups.Call) (any, error) { return nil, nil })
	assert.Equal(t, fmt.Sprintf("%d", c.ID()), c.String())

	c.SetName("close database")
	assert.Equal(t, fmt.Sprintf("%d: close database", c.ID()), c.String())
	assert.Equal(t, "close database", c.Name())
}

func TestRegistry_Run_ActionFailureDoesNotStopRun(t *testing.T) {
	reg := cleanups.New()

	var mu sync.Mutex
	var order []string
	fn := appendOrder(&order, &mu)

	reg.Add(fn, "A")
	reg.Add(func(cleanups.Call) (any, error) {
		return nil, errors.New("key not found: x")
	}, "broken")
	reg.Add(fn, "C")

	assert.NotPanics(t, func() { reg.Run() })
	assert.Equal(t, []string{"C", "A"}, order)
}

func TestRegistry_Run_ActionPanicRecovered(t *testing.T) {
	reg := cleanups.New()

	var failure error
	listener := &recordingListener{}
	listener.onFailed = func(err error) { failure = err }
	reg.AddListener(listener)

	c := reg.Add(func(cleanups.Call) (any, error) {
		panic("boom")
	})
	c.SetName("explosive")

	assert.NotPanics(t, func() { reg.Run() })

	var panicErr *cleanups.PanicError
	require.ErrorAs(t, failure, &panicErr)
	assert.Equal(t, c.ID(), panicErr.CleanupID)
	assert.Equal(t, "boom", panicErr.Value)
	assert.NotEmpty(t, panicErr.Stack)
	assert.Contains(t, panicErr.Error(), "explosive")
}

func TestRegistry_Scope(t *testing.T) {
	t.Run("normal exit", func(t *testing.T) {
		reg := cleanups.New()

		ran := false
		reg.Scope(func() {
			reg.Add(func(cleanups.Call) (any, error) {
				ran = true
				return nil, nil
			})
			assert.False(t, ran)
		})
		assert.True(t, ran)
	})

	t.Run("panicking exit", func(t *testing.T) {
		reg := cleanups.New()

		ran := false
		assert.PanicsWithValue(t, "abort", func() {
			reg.Scope(func() {
				reg.Add(func(cleanups.Call) (any, error) {
					ran = true
					return nil, nil
				})
				panic("abort")
			})
		})
		assert.True(t, ran)
	})
}

func TestRegistry_AddDuringRunDeferredToNextRun(t *testing.T) {
	reg := cleanups.New()

	var nested *cleanups.Cleanup
	nestedRan := false
	reg.Add(func(cleanups.Call) (any, error) {
		nested = reg.Add(func(cleanups.Call) (any, error) {
			nestedRan = true
			return nil, nil
		})
		return nil, nil
	})

	reg.Run()
	assert.False(t, nestedRan)
	assert.True(t, reg.Contains(nested))

	reg.Run()
	assert.True(t, nestedRan)
}

func TestRegistry_ConcurrentAddAndRun(t *testing.T) {
	reg := cleanups.New()

	const goroutines = 8
	const perGoroutine = 50

	var executed sync.Map
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				key := fmt.Sprintf("%d-%d", g, i)
				reg.Add(func(call cleanups.Call) (any, error) {
					executed.Store(call.Args[0], true)
					return nil, nil
				}, key)
				if i%10 == 0 {
					reg.Run()
				}
			}
		}(g)
	}
	wg.Wait()
	reg.Run()

	count := 0
	executed.Range(func(_, _ any) bool {
		count++
		return true
	})
	assert.Equal(t, goroutines*perGoroutine, count)
	assert.Equal(t, 0, reg.Len())
}

func BenchmarkRegistry_AddRun(b *testing.B) {
	fn := func(cleanups.Call) (any, error) { return nil, nil }
	for i := 0; i < b.N; i++ {
		reg := cleanups.New()
		for j := 0; j < 100; j++ {
			reg.Add(fn)
		}
		reg.Run()
	}
}
