package failover

import (
	"context"
	"time"
)

// Clock abstracts time so deadline and cooldown behavior is testable
// without real sleeping. Deadlines are computed from Now() values,
// which carry Go's monotonic reading and are immune to wall-clock
// adjustments.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Sleep must return promptly with ctx.Err() when the
//   context is canceled before the duration elapses.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the default Clock backed by the time package.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep waits for d or until ctx is canceled, whichever comes first.
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
