package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// AttemptMeta identifies one attempt for telemetry purposes.
type AttemptMeta struct {
	ExecutionID string // Ledger execution id (required)
	BackendID   string // Backend the attempt targets (required)
	Attempt     int    // 1-based ordinal within the execution
}

// SpanName returns the deterministic span name for this attempt.
// Format: failover.attempt.<backend>
func (m AttemptMeta) SpanName() string {
	return "failover.attempt." + m.BackendID
}

// Tracer wraps OpenTelemetry tracing with attempt-scoped span
// management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartAttempt must honor cancellation/deadlines.
// - Errors: EndAttempt must be best-effort and must not panic.
type Tracer interface {
	// StartAttempt starts a span for one backend attempt.
	StartAttempt(ctx context.Context, meta AttemptMeta) (context.Context, trace.Span)

	// EndAttempt ends the span, recording any error.
	EndAttempt(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartAttempt starts a new span with attempt metadata as attributes.
func (t *tracerImpl) StartAttempt(ctx context.Context, meta AttemptMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("failover.execution_id", meta.ExecutionID),
		attribute.String("failover.backend_id", meta.BackendID),
		attribute.Int("failover.attempt", meta.Attempt),
		attribute.Bool("failover.error", false), // Updated in EndAttempt on error
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndAttempt ends the span and records the error status if present.
func (t *tracerImpl) EndAttempt(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("failover.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartAttempt(ctx context.Context, meta AttemptMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndAttempt(span trace.Span, err error) {
	span.End()
}
