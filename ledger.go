package failover

import (
	"time"

	"github.com/google/uuid"
)

// AttemptOutcome is the terminal state of one attempt.
type AttemptOutcome int

const (
	// OutcomePending marks an attempt that has started but not closed.
	OutcomePending AttemptOutcome = iota
	// OutcomeSuccess marks the attempt that produced the result.
	OutcomeSuccess
	// OutcomeFailure marks an attempt that ended in an error.
	OutcomeFailure
	// OutcomeShortCircuited marks an attempt skipped because the
	// backend's circuit breaker was open. The backend was not called.
	OutcomeShortCircuited
)

// String returns the string representation of the outcome.
func (o AttemptOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeShortCircuited:
		return "short_circuited"
	default:
		return "pending"
	}
}

// MarshalText implements encoding.TextMarshaler so serialized ledgers
// carry readable outcomes.
func (o AttemptOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Attempt is one record in the ledger: a single try against a single
// backend, closed exactly once with a single outcome. Closed attempts
// are never mutated; Ledger queries return copies.
type Attempt struct {
	ID           string         `json:"id"`
	BackendID    string         `json:"backend_id"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  time.Time      `json:"completed_at,omitzero"`
	Duration     time.Duration  `json:"duration_ns"`
	Outcome      AttemptOutcome `json:"outcome"`
	ErrorKind    string         `json:"error_kind,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Metrics      Metrics        `json:"metrics,omitempty"`
}

// Ledger is the ordered, append-only record of attempts for one
// execution. Sequence order is chronological order. A ledger is owned
// by exactly one execution and is not safe for concurrent use; read it
// after Execute returns.
type Ledger struct {
	// ExecutionID identifies the execution this ledger belongs to.
	ExecutionID string

	clock    Clock
	attempts []*Attempt
}

// NewLedger creates an empty ledger using the given clock.
func NewLedger(clock Clock) *Ledger {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Ledger{
		ExecutionID: uuid.NewString(),
		clock:       clock,
	}
}

// Start opens an attempt against backend and returns its handle. The
// attempt stays pending until closed with CloseSuccess or CloseFailure.
func (l *Ledger) Start(backend Backend) *Attempt {
	a := &Attempt{
		ID:        uuid.NewString(),
		BackendID: backend.ID,
		StartedAt: l.clock.Now(),
		Outcome:   OutcomePending,
	}
	l.attempts = append(l.attempts, a)
	return a
}

// CloseSuccess closes a pending attempt as the successful one,
// attaching the Invoker's metrics payload. Closing a non-pending
// attempt is a no-op.
func (l *Ledger) CloseSuccess(a *Attempt, metrics Metrics) {
	if a.Outcome != OutcomePending {
		return
	}
	l.close(a)
	a.Outcome = OutcomeSuccess
	a.Metrics = metrics
}

// CloseFailure closes a pending attempt as failed, recording the error
// kind and message. Closing a non-pending attempt is a no-op.
func (l *Ledger) CloseFailure(a *Attempt, err error) {
	if a.Outcome != OutcomePending {
		return
	}
	l.close(a)
	a.Outcome = OutcomeFailure
	a.ErrorKind = KindOf(err).String()
	if err != nil {
		a.ErrorMessage = err.Error()
	}
}

func (l *Ledger) close(a *Attempt) {
	a.CompletedAt = l.clock.Now()
	a.Duration = a.CompletedAt.Sub(a.StartedAt)
}

// ShortCircuit records a skipped attempt for a backend whose breaker
// was open. No Invoker call happened; the record closes immediately.
func (l *Ledger) ShortCircuit(backend Backend) {
	now := l.clock.Now()
	l.attempts = append(l.attempts, &Attempt{
		ID:          uuid.NewString(),
		BackendID:   backend.ID,
		StartedAt:   now,
		CompletedAt: now,
		Outcome:     OutcomeShortCircuited,
		ErrorKind:   KindUnavailable.String(),
	})
}

// Len returns the number of recorded attempts, pending ones included.
func (l *Ledger) Len() int {
	return len(l.attempts)
}

// Attempts returns all attempts in chronological order. The slice and
// its elements are copies; mutating them does not affect the ledger.
func (l *Ledger) Attempts() []Attempt {
	out := make([]Attempt, len(l.attempts))
	for i, a := range l.attempts {
		out[i] = *a
	}
	return out
}

// Failed returns the attempts that closed with OutcomeFailure.
func (l *Ledger) Failed() []Attempt {
	return l.filter(OutcomeFailure)
}

// ShortCircuited returns the attempts skipped by an open breaker.
func (l *Ledger) ShortCircuited() []Attempt {
	return l.filter(OutcomeShortCircuited)
}

// Successful returns the successful attempt, if any. A ledger holds at
// most one.
func (l *Ledger) Successful() (Attempt, bool) {
	for _, a := range l.attempts {
		if a.Outcome == OutcomeSuccess {
			return *a, true
		}
	}
	return Attempt{}, false
}

func (l *Ledger) filter(outcome AttemptOutcome) []Attempt {
	var out []Attempt
	for _, a := range l.attempts {
		if a.Outcome == outcome {
			out = append(out, *a)
		}
	}
	return out
}
