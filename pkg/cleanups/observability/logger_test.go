package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/cleanups/pkg/cleanups"
)

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds run_id field", func(t *testing.T) {
		logger, buf := testLogger()
		EnrichLogger(logger, "run-42").Info("hello")
		assert.Contains(t, buf.String(), "run_id=run-42")
	})

	t.Run("nil logger stays nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "run-42"))
	})
}

func TestLogHelpers(t *testing.T) {
	reg := cleanups.New()
	c := reg.Add(func(cleanups.Call) (any, error) { return nil, nil })
	c.SetName("unmount")

	t.Run("run lifecycle", func(t *testing.T) {
		logger, buf := testLogger()
		LogRunStart(logger, "run-1", 3)
		LogRunComplete(logger, "run-1", 3, 1, 12.5)

		out := buf.String()
		assert.Contains(t, out, "cleanup run starting")
		assert.Contains(t, out, "pending=3")
		assert.Contains(t, out, "cleanup run completed")
		assert.Contains(t, out, "failed=1")
	})

	t.Run("cleanup lifecycle", func(t *testing.T) {
		logger, buf := testLogger()
		LogCleanupStart(logger, c)
		LogCleanupSkipped(logger, c)
		LogCleanupComplete(logger, c, 1.0)
		LogCleanupError(logger, c, errors.New("busy"))

		out := buf.String()
		assert.Contains(t, out, "cleanup starting")
		assert.Contains(t, out, "cleanup skipped")
		assert.Contains(t, out, "cleanup completed")
		assert.Contains(t, out, "cleanup failed")
		assert.Contains(t, out, "unmount")
		assert.Contains(t, out, "error=busy")
	})

	t.Run("nil logger is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogRunStart(nil, "run-1", 0)
			LogRunComplete(nil, "run-1", 0, 0, 0)
			LogCleanupStart(nil, c)
			LogCleanupSkipped(nil, c)
			LogCleanupComplete(nil, c, 0)
			LogCleanupError(nil, c, errors.New("x"))
		})
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	assert.GreaterOrEqual(t, done(), 0.0)
}
