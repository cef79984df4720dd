package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/failover"
)

// BreakerChecker reports a backend's health from its circuit breaker
// state: closed is healthy, half-open is degraded, open is unhealthy.
type BreakerChecker struct {
	backendID string
	registry  *failover.Registry
}

// NewBreakerChecker creates a checker for one backend's breaker.
func NewBreakerChecker(registry *failover.Registry, backendID string) *BreakerChecker {
	return &BreakerChecker{
		backendID: backendID,
		registry:  registry,
	}
}

// Name returns the backend id this checker reports on.
func (c *BreakerChecker) Name() string {
	return c.backendID
}

// Check derives a health result from the breaker's current state.
func (c *BreakerChecker) Check(ctx context.Context) Result {
	metrics := c.registry.For(c.backendID).Metrics()

	details := map[string]any{
		"state":                metrics.State.String(),
		"consecutive_failures": metrics.ConsecutiveFailures,
	}
	if !metrics.OpenedAt.IsZero() {
		details["opened_at"] = metrics.OpenedAt
	}

	switch metrics.State {
	case failover.StateClosed:
		return Healthy("circuit closed").WithDetails(details)
	case failover.StateHalfOpen:
		return Degraded("circuit half-open, probing recovery").WithDetails(details)
	default:
		return Unhealthy(
			fmt.Sprintf("circuit open after %d consecutive failures", metrics.ConsecutiveFailures),
			ErrCircuitOpen,
		).WithDetails(details)
	}
}

// RegisterBackends registers a BreakerChecker for each backend id.
func RegisterBackends(agg *Aggregator, registry *failover.Registry, backendIDs ...string) {
	for _, id := range backendIDs {
		agg.Register(id, NewBreakerChecker(registry, id))
	}
}
