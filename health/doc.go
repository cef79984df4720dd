// Package health exposes backend health derived from failover circuit
// breaker state, plus HTTP handlers for liveness and readiness probes.
//
// A backend's breaker maps onto health as: closed is healthy,
// half-open is degraded (a probe is testing recovery), and open is
// unhealthy. The Aggregator composes per-backend checkers into one
// overall status.
//
// # Usage
//
//	registry := failover.NewRegistry(failover.BreakerConfig{})
//
//	agg := health.NewAggregator()
//	health.RegisterBackends(agg, registry, "gpt-4", "claude")
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg)
package health
