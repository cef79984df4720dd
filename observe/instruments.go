package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Instruments bundles the tracer, metrics, and logger an executor
// needs to observe one execution.
//
// Contract:
//   - Concurrency: all methods are safe for concurrent use.
//   - Errors: telemetry is best-effort; failures never affect the
//     execution outcome.
type Instruments struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewInstruments creates Instruments from an Observer.
func NewInstruments(obs Observer) (*Instruments, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return &Instruments{
		tracer:  newTracer(obs.Tracer()),
		metrics: metrics,
		logger:  obs.Logger(),
	}, nil
}

// NopInstruments returns Instruments that record nothing.
func NopInstruments() *Instruments {
	return &Instruments{
		tracer:  newNoopTracer(),
		metrics: &noopMetrics{},
		logger:  &noopLogger{},
	}
}

// Logger returns the bundled logger.
func (i *Instruments) Logger() Logger {
	return i.logger
}

// StartAttempt opens a span for one backend attempt. The returned
// context carries the span and should be passed to the backend call.
func (i *Instruments) StartAttempt(ctx context.Context, meta AttemptMeta) (context.Context, trace.Span) {
	return i.tracer.StartAttempt(ctx, meta)
}

// EndAttempt closes the attempt span, records attempt metrics, and
// logs the outcome.
func (i *Instruments) EndAttempt(ctx context.Context, span trace.Span, meta AttemptMeta, duration time.Duration, err error) {
	i.tracer.EndAttempt(span, err)
	i.metrics.RecordAttempt(ctx, meta, duration, err)

	logger := i.logger.WithAttempt(meta)
	fields := []Field{
		{Key: "duration_ms", Value: float64(duration.Milliseconds())},
	}

	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		logger.Warn(ctx, "backend attempt failed", fields...)
	} else {
		logger.Info(ctx, "backend attempt succeeded", fields...)
	}
}

// BreakerTransition records a circuit breaker state change. Wire it
// into BreakerConfig.OnStateChange.
func (i *Instruments) BreakerTransition(ctx context.Context, backendID, from, to string) {
	i.metrics.RecordTransition(ctx, backendID, from, to)
	i.logger.Warn(ctx, "circuit breaker state changed",
		Field{Key: "backend_id", Value: backendID},
		Field{Key: "from", Value: from},
		Field{Key: "to", Value: to},
	)
}

// Exhaustion records an execution that ran out of backends or budget.
func (i *Instruments) Exhaustion(ctx context.Context, executionID string, attempts int, err error) {
	i.metrics.RecordExhaustion(ctx, executionID, attempts)
	i.logger.Error(ctx, "all backends exhausted",
		Field{Key: "execution_id", Value: executionID},
		Field{Key: "attempts", Value: attempts},
		Field{Key: "error", Value: err.Error()},
	)
}
