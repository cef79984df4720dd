package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestAttemptMeta_SpanName verifies the deterministic span name format.
func TestAttemptMeta_SpanName(t *testing.T) {
	meta := AttemptMeta{
		ExecutionID: "exec-1",
		BackendID:   "gpt-4",
		Attempt:     3,
	}

	expected := "failover.attempt.gpt-4"
	if got := meta.SpanName(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

// TestTracer_SpanAttributes verifies all attributes are present on span.
func TestTracer_SpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := AttemptMeta{
		ExecutionID: "exec-42",
		BackendID:   "claude",
		Attempt:     2,
	}

	ctx, span := tr.StartAttempt(context.Background(), meta)
	tr.EndAttempt(span, nil)
	_ = ctx

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]

	if s.Name() != "failover.attempt.claude" {
		t.Errorf("expected span name 'failover.attempt.claude', got %q", s.Name())
	}

	attrMap := make(map[string]attribute.Value)
	for _, a := range s.Attributes() {
		attrMap[string(a.Key)] = a.Value
	}

	if v, ok := attrMap["failover.execution_id"]; !ok || v.AsString() != "exec-42" {
		t.Errorf("expected failover.execution_id='exec-42', got %v", v)
	}
	if v, ok := attrMap["failover.backend_id"]; !ok || v.AsString() != "claude" {
		t.Errorf("expected failover.backend_id='claude', got %v", v)
	}
	if v, ok := attrMap["failover.attempt"]; !ok || v.AsInt64() != 2 {
		t.Errorf("expected failover.attempt=2, got %v", v)
	}
	if v, ok := attrMap["failover.error"]; !ok || v.AsBool() != false {
		t.Errorf("expected failover.error=false, got %v", v)
	}
}

// TestTracer_ContextPropagation verifies parent span is propagated.
func TestTracer_ContextPropagation(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := AttemptMeta{ExecutionID: "exec-1", BackendID: "child"}

	parentCtx, parentSpan := tracer.Start(context.Background(), "execute")

	childCtx, childSpan := tr.StartAttempt(parentCtx, meta)
	tr.EndAttempt(childSpan, nil)
	parentSpan.End()
	_ = childCtx

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	var child sdktrace.ReadOnlySpan
	for _, s := range spans {
		if s.Name() == "failover.attempt.child" {
			child = s
			break
		}
	}
	if child == nil {
		t.Fatal("attempt span not found")
	}

	if child.Parent().TraceID() != parentSpan.SpanContext().TraceID() {
		t.Error("attempt span should have same trace ID as parent")
	}
	if !child.Parent().SpanID().IsValid() {
		t.Error("attempt span should have valid parent span ID")
	}
}

// TestTracer_ErrorRecording verifies error sets span status and attribute.
func TestTracer_ErrorRecording(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}
	meta := AttemptMeta{ExecutionID: "exec-1", BackendID: "failing"}

	ctx, span := tr.StartAttempt(context.Background(), meta)
	testErr := errors.New("backend unavailable")
	tr.EndAttempt(span, testErr)
	_ = ctx

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	s := spans[0]

	if s.Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", s.Status().Code)
	}

	var attemptError bool
	for _, a := range s.Attributes() {
		if string(a.Key) == "failover.error" {
			attemptError = a.Value.AsBool()
			break
		}
	}
	if !attemptError {
		t.Error("expected failover.error=true")
	}
}

// TestTracer_SuccessStatus verifies success sets OK status.
func TestTracer_SuccessStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := &tracerImpl{tracer: tracer}

	_, span := tr.StartAttempt(context.Background(), AttemptMeta{ExecutionID: "exec-1", BackendID: "ok"})
	tr.EndAttempt(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("expected OK status, got %v", spans[0].Status().Code)
	}
}

// TestNoopTracer verifies the noop tracer produces valid spans that do nothing.
func TestNoopTracer(t *testing.T) {
	tr := newNoopTracer()

	ctx, span := tr.StartAttempt(context.Background(), AttemptMeta{ExecutionID: "exec-1", BackendID: "a"})
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
	if span == nil {
		t.Fatal("expected non-nil span")
	}

	// Must not panic on either path.
	tr.EndAttempt(span, errors.New("ignored"))
}
