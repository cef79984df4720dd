package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records failover execution metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordAttempt records one backend attempt with duration and
	// error status.
	RecordAttempt(ctx context.Context, meta AttemptMeta, duration time.Duration, err error)

	// RecordTransition records a circuit breaker state change.
	RecordTransition(ctx context.Context, backendID, from, to string)

	// RecordExhaustion records an execution that exhausted every
	// candidate backend.
	RecordExhaustion(ctx context.Context, executionID string, attempts int)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter         metric.Meter
	attemptTotal  metric.Int64Counter
	attemptErrors metric.Int64Counter
	durationHist  metric.Float64Histogram
	transitions   metric.Int64Counter
	exhaustions   metric.Int64Counter
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	attemptTotal, err := meter.Int64Counter(
		"failover.attempts.total",
		metric.WithDescription("Total number of backend attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	attemptErrors, err := meter.Int64Counter(
		"failover.attempts.errors",
		metric.WithDescription("Total number of failed backend attempts"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"failover.attempt.duration_ms",
		metric.WithDescription("Backend attempt duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"failover.breaker.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	exhaustions, err := meter.Int64Counter(
		"failover.exhaustions.total",
		metric.WithDescription("Executions that exhausted every candidate backend"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:         meter,
		attemptTotal:  attemptTotal,
		attemptErrors: attemptErrors,
		durationHist:  durationHist,
		transitions:   transitions,
		exhaustions:   exhaustions,
	}, nil
}

// RecordAttempt records metrics for one backend attempt.
func (m *metricsImpl) RecordAttempt(ctx context.Context, meta AttemptMeta, duration time.Duration, err error) {
	opt := metric.WithAttributes(
		attribute.String("failover.backend_id", meta.BackendID),
	)

	// Always increment total counter
	m.attemptTotal.Add(ctx, 1, opt)

	// Increment error counter on failure
	if err != nil {
		m.attemptErrors.Add(ctx, 1, opt)
	}

	// Record duration in milliseconds
	durationMs := float64(duration.Milliseconds())
	m.durationHist.Record(ctx, durationMs, opt)
}

// RecordTransition records a breaker state change.
func (m *metricsImpl) RecordTransition(ctx context.Context, backendID, from, to string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("failover.backend_id", backendID),
		attribute.String("failover.breaker.from", from),
		attribute.String("failover.breaker.to", to),
	))
}

// RecordExhaustion records an exhausted execution.
func (m *metricsImpl) RecordExhaustion(ctx context.Context, executionID string, attempts int) {
	m.exhaustions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("failover.execution_id", executionID),
		attribute.Int("failover.attempts", attempts),
	))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordAttempt(ctx context.Context, meta AttemptMeta, duration time.Duration, err error) {
}

func (m *noopMetrics) RecordTransition(ctx context.Context, backendID, from, to string) {}

func (m *noopMetrics) RecordExhaustion(ctx context.Context, executionID string, attempts int) {}
