// Package failover executes one logical request against a prioritized
// list of interchangeable backends, applying per-backend retry with
// backoff, per-backend circuit breaking, and an overall time budget,
// while recording a complete ledger of every attempt made.
//
// The package composes four concerns that each need to be correct in
// isolation and together:
//
//   - Fault classification: caller-configured rules decide whether an
//     error is retried on the same backend, causes a fallback to the
//     next backend, or aborts the whole execution immediately.
//
//   - Backoff: constant or exponential delays between retries, with
//     optional jitter, always clamped to the remaining time budget.
//
//   - Circuit breaking: per-backend state shared across concurrent
//     executions. A backend with sustained failures is skipped without
//     being contacted until a cooldown elapses and a probe succeeds.
//
//   - Attempt ledger: an ordered, append-only record of what happened,
//     attached to both successful results and exhaustion errors.
//
// # Usage
//
//	registry := failover.NewRegistry(failover.BreakerConfig{
//	    FailureThreshold: 5,
//	    Cooldown:         30 * time.Second,
//	})
//
//	exec := failover.NewExecutor(invoker,
//	    failover.WithRegistry(registry),
//	    failover.WithClassifier(failover.DefaultClassifier()),
//	    failover.WithBackoff(failover.BackoffConfig{
//	        InitialDelay: 100 * time.Millisecond,
//	        MaxDelay:     5 * time.Second,
//	        Strategy:     failover.BackoffExponential,
//	    }),
//	)
//
//	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
//	defer cancel()
//
//	result, err := exec.Execute(ctx, backends, req)
//
// On success the returned Result carries the winning backend's
// response and the full ledger. On failure the caller sees exactly one
// of: the original fatal error, a context cancellation, or an
// *ExhaustionError carrying every attempt made.
package failover
