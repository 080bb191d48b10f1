package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/cleanups/pkg/cleanups"
)

// Observer is a cleanups.Listener that records logs, metrics, and
// trace spans for every run it observes. Attach it per registry with
// AddListener or process-wide with AddGlobalListener.
//
// Example:
//
//	obs := observability.NewObserver().
//	    WithLogger(slog.Default()).
//	    WithMetrics(observability.NewMetricsRecorder()).
//	    WithSpanManager(observability.NewSpanManager())
//	reg.AddListener(obs)
type Observer struct {
	logger  *slog.Logger
	metrics MetricsRecorder
	spans   SpanManager

	mu   sync.Mutex
	runs map[string]*runState
	recs map[*cleanups.Cleanup]*recordState
}

// runState tracks one in-flight run.
type runState struct {
	ctx      context.Context
	span     trace.Span
	done     func() float64
	executed int
	failed   int
	start    time.Time
}

// recordState tracks one in-flight record execution.
type recordState struct {
	span  trace.Span
	start time.Time
}

// NewObserver creates an Observer with logging, metrics, and tracing
// all disabled.
func NewObserver() *Observer {
	return &Observer{
		metrics: NoopMetrics{},
		spans:   NoopSpanManager{},
		runs:    make(map[string]*runState),
		recs:    make(map[*cleanups.Cleanup]*recordState),
	}
}

// WithLogger enables structured log output.
func (o *Observer) WithLogger(logger *slog.Logger) *Observer {
	o.logger = logger
	return o
}

// WithMetrics enables metric recording.
func (o *Observer) WithMetrics(m MetricsRecorder) *Observer {
	if m != nil {
		o.metrics = m
	}
	return o
}

// WithSpanManager enables trace spans.
func (o *Observer) WithSpanManager(sm SpanManager) *Observer {
	if sm != nil {
		o.spans = sm
	}
	return o
}

// RunStarted implements cleanups.RunObserver.
func (o *Observer) RunStarted(_ *cleanups.Registry, runID string, pending int) {
	ctx, span := o.spans.StartRunSpan(context.Background(), runID, pending)

	o.mu.Lock()
	o.runs[runID] = &runState{
		ctx:   ctx,
		span:  span,
		done:  TimedOperation(),
		start: time.Now(),
	}
	o.mu.Unlock()

	LogRunStart(o.logger, runID, pending)
}

// RunFinished implements cleanups.RunObserver.
func (o *Observer) RunFinished(_ *cleanups.Registry, runID string) {
	o.mu.Lock()
	rs, ok := o.runs[runID]
	delete(o.runs, runID)
	o.mu.Unlock()
	if !ok {
		return
	}

	o.metrics.RecordRun(rs.ctx, rs.executed, rs.failed, time.Since(rs.start))
	o.spans.EndSpanWithError(rs.span, nil)
	LogRunComplete(o.logger, runID, rs.executed, rs.failed, rs.done())
}

// Starting implements cleanups.Listener. It never suppresses
// execution.
func (o *Observer) Starting(_ *cleanups.Registry, c *cleanups.Cleanup) bool {
	ctx := context.Background()

	o.mu.Lock()
	if rs, ok := o.runs[c.RunID()]; ok {
		ctx = rs.ctx
	}
	o.mu.Unlock()

	_, span := o.spans.StartCleanupSpan(ctx, c)

	o.mu.Lock()
	o.recs[c] = &recordState{span: span, start: time.Now()}
	o.mu.Unlock()

	LogCleanupStart(EnrichLogger(o.logger, c.RunID()), c)
	return false
}

// Completed implements cleanups.Listener.
func (o *Observer) Completed(_ *cleanups.Registry, c *cleanups.Cleanup, _ any) {
	o.finish(c, cleanups.StatusCompleted, nil)
}

// Failed implements cleanups.Listener.
func (o *Observer) Failed(_ *cleanups.Registry, c *cleanups.Cleanup, err error) {
	o.finish(c, cleanups.StatusFailed, err)
}

// Skipped implements cleanups.SkipObserver.
func (o *Observer) Skipped(_ *cleanups.Registry, c *cleanups.Cleanup) {
	o.finish(c, cleanups.StatusSkipped, nil)
	LogCleanupSkipped(o.logger, c)
}

// finish closes out one record's observation in its terminal state.
func (o *Observer) finish(c *cleanups.Cleanup, status cleanups.Status, err error) {
	o.mu.Lock()
	rec, ok := o.recs[c]
	delete(o.recs, c)
	rs := o.runs[c.RunID()]
	if rs != nil {
		if status != cleanups.StatusSkipped {
			rs.executed++
		}
		if status == cleanups.StatusFailed {
			rs.failed++
		}
	}
	o.mu.Unlock()
	if !ok {
		return
	}

	ctx := context.Background()
	if rs != nil {
		ctx = rs.ctx
	}
	duration := time.Since(rec.start)
	o.metrics.RecordCleanup(ctx, status, duration)
	o.spans.EndSpanWithError(rec.span, err)

	logger := EnrichLogger(o.logger, c.RunID())
	switch status {
	case cleanups.StatusCompleted:
		LogCleanupComplete(logger, c, float64(duration.Milliseconds()))
	case cleanups.StatusFailed:
		LogCleanupError(logger, c, err)
	}
}
