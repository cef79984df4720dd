package failover

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means attempts flow to the backend normally.
	StateClosed State = iota
	// StateOpen means attempts are short-circuited.
	StateOpen
	// StateHalfOpen means a single probe attempt is testing recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures circuit breakers created by a Registry.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures before
	// the circuit opens.
	// Default: 5
	FailureThreshold int

	// Cooldown is how long the circuit stays open before allowing a
	// half-open probe.
	// Default: 30 seconds
	Cooldown time.Duration

	// OnStateChange is called when the breaker changes state, with the
	// backend id it guards. It runs while the breaker lock is held and
	// must not call back into the breaker.
	OnStateChange func(backendID string, from, to State)

	// Clock supplies time for cooldown checks.
	// Default: SystemClock
	Clock Clock
}

func (c BreakerConfig) withDefaults() BreakerConfig {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 30 * time.Second
	}
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	return c
}

// Breaker is a per-backend circuit breaker. One instance exists per
// backend id and is shared by every concurrent execution touching that
// backend; all methods are safe for concurrent use.
type Breaker struct {
	backendID string
	config    BreakerConfig

	mu            sync.Mutex
	state         State
	failures      int
	openedAt      time.Time
	probeInFlight bool
}

// NewBreaker creates a closed breaker for the given backend id.
// Registries create breakers on demand; direct construction is mainly
// useful in tests.
func NewBreaker(backendID string, config BreakerConfig) *Breaker {
	return &Breaker{
		backendID: backendID,
		config:    config.withDefaults(),
		state:     StateClosed,
	}
}

// BackendID returns the backend id this breaker guards.
func (b *Breaker) BackendID() string {
	return b.backendID
}

// Allow reports whether an attempt may proceed. When the cooldown of
// an open circuit has elapsed, Allow transitions to half-open and
// admits exactly one probe; concurrent callers are rejected until the
// probe's outcome is recorded.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentStateLocked() {
	case StateClosed:
		return true
	case StateHalfOpen:
		if b.probeInFlight {
			return false
		}
		b.probeInFlight = true
		return true
	default:
		return false
	}
}

// RecordSuccess records a successful attempt. In the closed state it
// clears the consecutive-failure count; a half-open probe success
// closes the circuit.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.failures = 0
		b.probeInFlight = false
		b.setStateLocked(StateClosed)
	}
}

// RecordFailure records a failed attempt. Reaching the threshold in
// the closed state opens the circuit; a half-open probe failure
// reopens it and restarts the cooldown.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.config.FailureThreshold {
			b.openedAt = b.config.Clock.Now()
			b.setStateLocked(StateOpen)
		}
	case StateHalfOpen:
		b.openedAt = b.config.Clock.Now()
		b.probeInFlight = false
		b.setStateLocked(StateOpen)
	}
}

// State returns the current state, applying the cooldown transition if
// it is due.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentStateLocked()
}

// Reset returns the breaker to closed with no failure history.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.probeInFlight = false
	if b.state != StateClosed {
		b.setStateLocked(StateClosed)
	}
}

// BreakerMetrics is a point-in-time snapshot of breaker internals.
type BreakerMetrics struct {
	State               State
	ConsecutiveFailures int
	OpenedAt            time.Time
}

// Metrics returns a snapshot of the breaker's counters.
func (b *Breaker) Metrics() BreakerMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BreakerMetrics{
		State:               b.currentStateLocked(),
		ConsecutiveFailures: b.failures,
		OpenedAt:            b.openedAt,
	}
}

func (b *Breaker) currentStateLocked() State {
	if b.state == StateOpen && b.config.Clock.Now().Sub(b.openedAt) >= b.config.Cooldown {
		b.probeInFlight = false
		b.setStateLocked(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) setStateLocked(state State) {
	from := b.state
	b.state = state
	if from != state && b.config.OnStateChange != nil {
		b.config.OnStateChange(b.backendID, from, state)
	}
}
