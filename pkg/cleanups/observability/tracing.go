package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/cleanups/pkg/cleanups"
)

// Tracer is the cleanups tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("cleanups")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when
// disabled.
type SpanManager interface {
	// StartRunSpan starts a span for an entire cleanup run.
	// Returns the context with span and the span itself.
	StartRunSpan(ctx context.Context, runID string, pending int) (context.Context, trace.Span)

	// StartCleanupSpan starts a span for a single cleanup execution.
	// The cleanup span should be a child of the run span.
	StartCleanupSpan(ctx context.Context, c *cleanups.Cleanup) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartRunSpan starts a span for an entire cleanup run.
func (m *otelSpanManager) StartRunSpan(ctx context.Context, runID string, pending int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "cleanups.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.pending", pending),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartCleanupSpan starts a span for a single cleanup execution.
func (m *otelSpanManager) StartCleanupSpan(ctx context.Context, c *cleanups.Cleanup) (context.Context, trace.Span) {
	return tracer.Start(ctx, "cleanups.cleanup",
		trace.WithAttributes(
			attribute.Int64("cleanup.id", c.ID()),
			attribute.String("cleanup.name", c.Name()),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
