package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/cleanups/pkg/cleanups"
	"github.com/randalmurphal/cleanups/pkg/cleanups/config"
)

func TestBuild_Empty(t *testing.T) {
	rt, err := config.Build(config.New(nil))
	require.NoError(t, err)
	defer rt.Close()

	assert.Empty(t, rt.Options)
	assert.Empty(t, rt.Listeners)
	assert.Nil(t, rt.History)

	reg := rt.NewRegistry()
	require.NotNil(t, reg)
}

func TestBuild_MemoryHistory(t *testing.T) {
	rt, err := config.Build(config.New(map[string]any{
		"history_backend": "memory",
	}))
	require.NoError(t, err)
	defer rt.Close()
	require.NotNil(t, rt.History)

	reg := rt.NewRegistry()
	c := reg.Add(func(cleanups.Call) (any, error) { return nil, nil })
	c.SetName("drop temp schema")
	reg.Run()

	runs, err := rt.History.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	entries, err := rt.History.ListRun(runs[0])
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "drop temp schema", entries[0].Name)
	assert.Equal(t, cleanups.StatusCompleted, entries[0].Status)
}

func TestBuild_SQLiteHistory(t *testing.T) {
	rt, err := config.Build(config.New(map[string]any{
		"history_backend": "sqlite",
		"history_path":    filepath.Join(t.TempDir(), "h.db"),
	}))
	require.NoError(t, err)
	defer rt.Close()
	require.NotNil(t, rt.History)

	reg := rt.NewRegistry()
	reg.Add(func(cleanups.Call) (any, error) { return nil, nil })
	reg.Run()

	runs, err := rt.History.Runs()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestBuild_SQLiteRequiresPath(t *testing.T) {
	_, err := config.Build(config.New(map[string]any{
		"history_backend": "sqlite",
	}))
	assert.ErrorContains(t, err, "requires history_path")
}

func TestBuild_UnknownBackend(t *testing.T) {
	_, err := config.Build(config.New(map[string]any{
		"history_backend": "etcd",
	}))
	assert.ErrorContains(t, err, "unknown history_backend")
}

func TestBuild_DebugListener(t *testing.T) {
	rt, err := config.Build(config.New(map[string]any{
		"debug_listener": true,
	}))
	require.NoError(t, err)
	defer rt.Close()

	require.Len(t, rt.Listeners, 1)
	_, ok := rt.Listeners[0].(*cleanups.DebugListener)
	assert.True(t, ok)
}
