package failover

import (
	"math"
	"math/rand/v2"
	"time"
)

// BackoffStrategy defines how delays grow between retries on the same
// backend.
type BackoffStrategy int

const (
	// BackoffExponential multiplies the delay by Multiplier each retry.
	BackoffExponential BackoffStrategy = iota
	// BackoffConstant uses InitialDelay for every retry.
	BackoffConstant
)

// BackoffConfig configures retry delays.
type BackoffConfig struct {
	// InitialDelay is the delay before the first retry.
	// Default: 100ms
	InitialDelay time.Duration

	// MaxDelay caps the computed delay before jitter.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the exponential growth factor.
	// Default: 2.0
	Multiplier float64

	// Strategy selects the growth curve.
	// Default: BackoffExponential
	Strategy BackoffStrategy

	// Jitter adds randomness to delays so concurrent executions do not
	// retry in lockstep.
	Jitter bool

	// JitterFraction is the maximum fraction of the delay added as
	// jitter when Jitter is true. Must be in (0, 1].
	// Default: 0.25
	JitterFraction float64
}

func (c BackoffConfig) withDefaults() BackoffConfig {
	if c.InitialDelay <= 0 {
		c.InitialDelay = 100 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
	if c.JitterFraction <= 0 || c.JitterFraction > 1 {
		c.JitterFraction = 0.25
	}
	return c
}

// Delay computes the backoff delay before retry number attempt
// (zero-based: attempt 0 is the delay after the first failure). The
// function is pure apart from jitter.
func Delay(attempt int, cfg BackoffConfig) time.Duration {
	cfg = cfg.withDefaults()

	var delay time.Duration

	switch cfg.Strategy {
	case BackoffConstant:
		delay = cfg.InitialDelay

	case BackoffExponential:
		multiplier := math.Pow(cfg.Multiplier, float64(attempt))
		delay = time.Duration(float64(cfg.InitialDelay) * multiplier)
		if delay <= 0 { // overflow on large attempt counts
			delay = cfg.MaxDelay
		}
	}

	// Cap at max delay
	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}

	// Add jitter if enabled. The bound truncates to zero for delays of a
	// few nanoseconds; rand.Int64N rejects a zero bound, so skip jitter
	// there instead of panicking.
	if cfg.Jitter && delay > 0 {
		if bound := int64(float64(delay) * cfg.JitterFraction); bound > 0 {
			// #nosec G404 -- jitter is non-cryptographic timing variance.
			delay += time.Duration(rand.Int64N(bound))
		}
	}

	return delay
}

// clampToDeadline bounds a delay so the next attempt cannot start past
// the deadline. A non-positive return means the budget is spent.
func clampToDeadline(delay time.Duration, now, deadline time.Time) time.Duration {
	remaining := deadline.Sub(now)
	if remaining < delay {
		return remaining
	}
	return delay
}
