package failover

import "context"

// Backend describes one interchangeable candidate capable of serving a
// request. The candidate list passed to Execute is tried in order, so
// list position is priority. Backends are read-only to this package.
type Backend struct {
	// ID uniquely identifies the backend. It keys the shared circuit
	// breaker state, so two backends with the same ID share a breaker.
	ID string

	// MaxRetries is the number of additional attempts allowed on this
	// backend after the first one, for errors classified RetrySame.
	// Zero means a single attempt.
	MaxRetries int

	// Config is opaque configuration handed to the Invoker unchanged
	// (endpoint, model name, credentials reference, and so on).
	Config map[string]any
}

// Metrics is an opaque payload attached by the Invoker to a successful
// response (token counts, provider latency, and similar). The executor
// stores it on the attempt record without interpreting it.
type Metrics map[string]any

// Response is a successful Invoker outcome.
type Response struct {
	// Payload is the backend's answer, opaque to this package.
	Payload any

	// Metrics is optional measurement data recorded on the attempt.
	Metrics Metrics
}

// Invoker performs the actual backend call. Implementations must honor
// ctx cancellation and deadlines; the executor passes a context bounded
// by the overall time budget.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: returned errors should carry an ErrorKind (see Wrap) so the
//   classifier can make an informed decision; unknown errors are
//   handled by the classifier's default rule.
type Invoker interface {
	Invoke(ctx context.Context, backend Backend, req any) (*Response, error)
}

// InvokerFunc adapts an ordinary function to the Invoker interface.
type InvokerFunc func(ctx context.Context, backend Backend, req any) (*Response, error)

// Invoke calls the wrapped function.
func (f InvokerFunc) Invoke(ctx context.Context, backend Backend, req any) (*Response, error) {
	return f(ctx, backend, req)
}

// Result is the outcome of a successful execution.
type Result struct {
	// BackendID identifies the backend that produced the response.
	BackendID string

	// Response is the winning backend's response.
	Response *Response

	// Ledger records every attempt made during the execution,
	// including failed and short-circuited ones.
	Ledger *Ledger
}
