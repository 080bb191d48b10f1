package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/randalmurphal/cleanups/pkg/cleanups"
)

// MetricsRecorder records cleanup metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when
// disabled.
type MetricsRecorder interface {
	// RecordCleanup records a single record's terminal outcome with
	// its execution duration.
	RecordCleanup(ctx context.Context, status cleanups.Status, duration time.Duration)

	// RecordRun records a cleanup run completion.
	RecordRun(ctx context.Context, executed, failed int, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	executions     metric.Int64Counter
	cleanupLatency metric.Float64Histogram
	failures       metric.Int64Counter
	runs           metric.Int64Counter
	runLatency     metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("cleanups")

	executions, err := meter.Int64Counter("cleanups.cleanup.executions",
		metric.WithDescription("Number of cleanup executions by terminal status"),
	)
	if err != nil {
		return nil, err
	}

	cleanupLatency, err := meter.Float64Histogram("cleanups.cleanup.latency_ms",
		metric.WithDescription("Cleanup execution latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter("cleanups.cleanup.failures",
		metric.WithDescription("Number of failed cleanup executions"),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter("cleanups.run.total",
		metric.WithDescription("Number of cleanup runs"),
	)
	if err != nil {
		return nil, err
	}

	runLatency, err := meter.Float64Histogram("cleanups.run.latency_ms",
		metric.WithDescription("Cleanup run latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		executions:     executions,
		cleanupLatency: cleanupLatency,
		failures:       failures,
		runs:           runs,
		runLatency:     runLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. The instruments
// are created once, on the first call in the process, and every later
// call shares them, so configure the provider before the first call:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		return NoopMetrics{}
	}
	return m
}

// RecordCleanup implements MetricsRecorder.
func (m *otelMetrics) RecordCleanup(ctx context.Context, status cleanups.Status, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("status", string(status)),
	)
	m.executions.Add(ctx, 1, attrs)
	m.cleanupLatency.Record(ctx, float64(duration.Milliseconds()), attrs)
	if status == cleanups.StatusFailed {
		m.failures.Add(ctx, 1)
	}
}

// RecordRun implements MetricsRecorder.
func (m *otelMetrics) RecordRun(ctx context.Context, executed, failed int, duration time.Duration) {
	m.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("executed", executed),
		attribute.Int("failed", failed),
	))
	m.runLatency.Record(ctx, float64(duration.Milliseconds()))
}
