package failover

import "sync"

// Registry holds the circuit breaker for each backend id. Breakers are
// created lazily on first reference and live for the registry's
// lifetime; the registry is safe for concurrent lookup and creation.
//
// Executions sharing a registry share breaker state per backend, which
// is the point: a backend failing for one request is skipped for all.
// Tests use isolated registries instead of ambient global state.
type Registry struct {
	config BreakerConfig

	mu       sync.Mutex
	breakers map[string]*Breaker
}

// NewRegistry creates an empty registry whose breakers use config.
func NewRegistry(config BreakerConfig) *Registry {
	return &Registry{
		config:   config.withDefaults(),
		breakers: make(map[string]*Breaker),
	}
}

// For returns the breaker for backendID, creating it if needed.
func (r *Registry) For(backendID string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.breakers[backendID]
	if !ok {
		b = NewBreaker(backendID, r.config)
		r.breakers[backendID] = b
	}
	return b
}

// States returns the current state of every known breaker.
func (r *Registry) States() map[string]State {
	r.mu.Lock()
	breakers := make([]*Breaker, 0, len(r.breakers))
	for _, b := range r.breakers {
		breakers = append(breakers, b)
	}
	r.mu.Unlock()

	// Read states outside the registry lock; State takes each
	// breaker's own lock.
	states := make(map[string]State, len(breakers))
	for _, b := range breakers {
		states[b.BackendID()] = b.State()
	}
	return states
}

// ResetAll returns every breaker to closed. Intended for
// administrative use and test cleanup.
func (r *Registry) ResetAll() {
	r.mu.Lock()
	breakers := make([]*Breaker, 0, len(r.breakers))
	for _, b := range r.breakers {
		breakers = append(breakers, b)
	}
	r.mu.Unlock()

	for _, b := range breakers {
		b.Reset()
	}
}
