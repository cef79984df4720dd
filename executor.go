package failover

import (
	"context"
	"time"

	"github.com/jonwraymond/failover/observe"
)

// Executor runs one logical request against a prioritized backend
// list. It consults the shared breaker registry, invokes the Invoker,
// classifies failures, retries with clamped backoff, and records every
// attempt in a per-execution ledger.
//
// Contract:
// - Concurrency: Execute is safe for concurrent use; concurrent
//   executions share only the breaker registry.
// - Context: Execute honors cancellation between attempts, during
//   backoff sleeps, and passes the context to the Invoker.
// - Errors: callers see a *Result, the original fatal error, a context
//   cancellation, or one *ExhaustionError carrying the full ledger.
type Executor struct {
	invoker     Invoker
	registry    *Registry
	classifier  Classifier
	backoff     BackoffConfig
	clock       Clock
	budget      time.Duration
	instruments *observe.Instruments
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates an executor around the given Invoker. Unset
// options fall back to an isolated default registry, the default
// classifier, default backoff, the system clock, and no telemetry.
func NewExecutor(invoker Invoker, opts ...ExecutorOption) *Executor {
	e := &Executor{
		invoker:     invoker,
		classifier:  DefaultClassifier(),
		clock:       SystemClock{},
		instruments: observe.NopInstruments(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = NewRegistry(BreakerConfig{Clock: e.clock})
	}
	return e
}

// WithRegistry shares a breaker registry across executors. Executors
// serving the same backends should share one registry so breaker state
// is process-wide.
func WithRegistry(r *Registry) ExecutorOption {
	return func(e *Executor) {
		e.registry = r
	}
}

// WithClassifier sets the fault classification rules.
func WithClassifier(c Classifier) ExecutorOption {
	return func(e *Executor) {
		e.classifier = c
	}
}

// WithBackoff sets the retry backoff configuration.
func WithBackoff(cfg BackoffConfig) ExecutorOption {
	return func(e *Executor) {
		e.backoff = cfg
	}
}

// WithClock injects a clock, mainly for tests.
func WithClock(c Clock) ExecutorOption {
	return func(e *Executor) {
		e.clock = c
	}
}

// WithBudget sets a default overall time budget applied when the
// caller's context carries no deadline. Zero means unbounded.
func WithBudget(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.budget = d
	}
}

// WithInstruments attaches telemetry (spans, metrics, structured logs)
// to the executor. See observe.NewInstruments.
func WithInstruments(ins *observe.Instruments) ExecutorOption {
	return func(e *Executor) {
		if ins != nil {
			e.instruments = ins
		}
	}
}

// Registry returns the executor's breaker registry.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// executionContext is the per-request bookkeeping. It is owned by one
// Execute call and never shared.
type executionContext struct {
	deadline     time.Time
	hasDeadline  bool
	attemptsMade int
	lastErr      error
}

func (ec *executionContext) expired(now time.Time) bool {
	return ec.hasDeadline && !now.Before(ec.deadline)
}

// Execute tries each backend in order until one succeeds. Fatal errors
// and context cancellation propagate unchanged; any other terminal
// state is an *ExhaustionError.
func (e *Executor) Execute(ctx context.Context, backends []Backend, req any) (*Result, error) {
	if len(backends) == 0 {
		return nil, ErrNoBackends
	}

	ec := &executionContext{}
	if deadline, ok := ctx.Deadline(); ok {
		ec.deadline = deadline
		ec.hasDeadline = true
	} else if e.budget > 0 {
		ec.deadline = e.clock.Now().Add(e.budget)
		ec.hasDeadline = true
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, ec.deadline)
		defer cancel()
	}

	ledger := NewLedger(e.clock)
	logger := e.instruments.Logger()

	for _, backend := range backends {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// A deadline breach is folded into the exhaustion error; the
		// ledger timestamps show the true cause.
		if ec.expired(e.clock.Now()) {
			break
		}

		breaker := e.registry.For(backend.ID)
		if !breaker.Allow() {
			ledger.ShortCircuit(backend)
			logger.Warn(ctx, "backend short-circuited",
				observe.Field{Key: "execution_id", Value: ledger.ExecutionID},
				observe.Field{Key: "backend_id", Value: backend.ID},
			)
			continue
		}

		result, err := e.tryBackend(ctx, backend, breaker, req, ec, ledger)
		if result != nil || err != nil {
			return result, err
		}
		// Backend fell back; move to the next candidate.
	}

	// Cancellation during the final attempt surfaces as the context
	// error, not as exhaustion.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, e.exhausted(ctx, backends, ec, ledger)
}

// tryBackend runs the retry loop for one backend. It returns (nil,
// nil) when the backend is exhausted and the executor should advance
// to the next candidate.
func (e *Executor) tryBackend(ctx context.Context, backend Backend, breaker *Breaker, req any, ec *executionContext, ledger *Ledger) (*Result, error) {
	for retryIndex := 0; ; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// No attempt starts at or after the deadline.
		if ec.expired(e.clock.Now()) {
			return nil, nil
		}

		attempt := ledger.Start(backend)
		ec.attemptsMade++
		meta := observe.AttemptMeta{
			ExecutionID: ledger.ExecutionID,
			BackendID:   backend.ID,
			Attempt:     ec.attemptsMade,
		}

		actx, span := e.instruments.StartAttempt(ctx, meta)
		resp, err := e.invoker.Invoke(actx, backend, req)
		if err == nil {
			breaker.RecordSuccess()
			var metrics Metrics
			if resp != nil {
				metrics = resp.Metrics
			}
			ledger.CloseSuccess(attempt, metrics)
			e.instruments.EndAttempt(ctx, span, meta, attempt.Duration, nil)
			return &Result{BackendID: backend.ID, Response: resp, Ledger: ledger}, nil
		}

		breaker.RecordFailure()
		ledger.CloseFailure(attempt, err)
		e.instruments.EndAttempt(ctx, span, meta, attempt.Duration, err)

		classification := e.classifier.Classify(err)
		if classification == Fatal {
			// Fatal faults recur identically on every candidate;
			// surface the original error unchanged.
			return nil, err
		}
		ec.lastErr = err

		if classification != RetrySame || retryIndex >= backend.MaxRetries {
			return nil, nil // fall back to the next backend
		}

		delay := Delay(retryIndex, e.backoff)
		if ec.hasDeadline {
			delay = clampToDeadline(delay, e.clock.Now(), ec.deadline)
			if delay <= 0 {
				return nil, nil // out of budget for this backend
			}
		}
		if err := e.clock.Sleep(ctx, delay); err != nil {
			return nil, err
		}
		retryIndex++
	}
}

func (e *Executor) exhausted(ctx context.Context, backends []Backend, ec *executionContext, ledger *Ledger) error {
	ids := make([]string, len(backends))
	for i, b := range backends {
		ids[i] = b.ID
	}

	exErr := &ExhaustionError{
		Backends: ids,
		LastErr:  ec.lastErr,
		Ledger:   ledger,
	}

	e.instruments.Exhaustion(ctx, ledger.ExecutionID, ledger.Len(), exErr)
	return exErr
}
