package failover

import (
	"errors"
	"fmt"
)

// Sentinel errors for failover execution.
var (
	// ErrNoBackends is returned when Execute is called with an empty
	// candidate list.
	ErrNoBackends = errors.New("failover: no backends provided")
)

// ExhaustionError is the terminal failure of an execution: every
// candidate backend failed out its retries or was short-circuited, or
// the time budget ran out first. It carries the complete attempt
// ledger so no individual backend error is lost.
type ExhaustionError struct {
	// Backends lists the candidate backend ids in the order tried.
	Backends []string

	// LastErr is the final underlying error observed, nil when every
	// backend was short-circuited without being called.
	LastErr error

	// Ledger is the full attempt record for the execution.
	Ledger *Ledger
}

// Error describes the exhaustion with the last underlying cause.
func (e *ExhaustionError) Error() string {
	if e.LastErr == nil {
		return fmt.Sprintf("failover: all %d backends exhausted (all short-circuited)", len(e.Backends))
	}
	return fmt.Sprintf("failover: all %d backends exhausted, last error: %v", len(e.Backends), e.LastErr)
}

// Unwrap returns the last underlying backend error.
func (e *ExhaustionError) Unwrap() error {
	return e.LastErr
}
