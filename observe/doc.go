// Package observe provides telemetry primitives for failover
// execution: OpenTelemetry tracing and metrics plus structured JSON
// logging, bundled behind a single Observer.
//
// The executor records one span per attempt, counters and a duration
// histogram for attempts, a counter for circuit breaker state
// transitions, and a counter for exhausted executions.
//
// # Usage
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "my-service",
//	    Tracing:     observe.TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 1.0},
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer obs.Shutdown(ctx)
//
//	ins, err := observe.NewInstruments(obs)
//	if err != nil {
//	    return err
//	}
//	// Pass ins to failover.WithInstruments.
//
// Exporters are selected by name (otlp|prometheus|stdout|none) and
// configured through the standard OTEL_* environment variables; see
// the exporters subpackage.
package observe
