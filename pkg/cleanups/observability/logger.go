// Package observability provides production-grade observability for
// cleanups: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when
// disabled. The Observer type bundles them behind the cleanups
// listener protocol.
package observability

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/cleanups/pkg/cleanups"
)

// EnrichLogger adds run context to a logger.
// Returns a new logger with a run_id field.
func EnrichLogger(logger *slog.Logger, runID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("run_id", runID))
}

// LogRunStart logs the start of a cleanup run.
func LogRunStart(logger *slog.Logger, runID string, pending int) {
	if logger == nil {
		return
	}
	logger.Info("cleanup run starting",
		slog.String("run_id", runID),
		slog.Int("pending", pending),
	)
}

// LogRunComplete logs cleanup run completion.
func LogRunComplete(logger *slog.Logger, runID string, executed, failed int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("cleanup run completed",
		slog.String("run_id", runID),
		slog.Int("executed", executed),
		slog.Int("failed", failed),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCleanupStart logs the start of a single cleanup execution.
func LogCleanupStart(logger *slog.Logger, c *cleanups.Cleanup) {
	if logger == nil {
		return
	}
	logger.Debug("cleanup starting",
		slog.String("cleanup", c.String()),
	)
}

// LogCleanupSkipped logs a cleanup suppressed by a listener.
func LogCleanupSkipped(logger *slog.Logger, c *cleanups.Cleanup) {
	if logger == nil {
		return
	}
	logger.Debug("cleanup skipped",
		slog.String("cleanup", c.String()),
	)
}

// LogCleanupComplete logs successful cleanup completion.
func LogCleanupComplete(logger *slog.Logger, c *cleanups.Cleanup, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("cleanup completed",
		slog.String("cleanup", c.String()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCleanupError logs cleanup failure.
func LogCleanupError(logger *slog.Logger, c *cleanups.Cleanup, err error) {
	if logger == nil {
		return
	}
	logger.Error("cleanup failed",
		slog.String("cleanup", c.String()),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in
// milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
