package health

import "errors"

var (
	// ErrCircuitOpen indicates a backend's circuit breaker is open.
	ErrCircuitOpen = errors.New("health: circuit breaker open")

	// ErrCheckTimeout indicates a health check timed out.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates a checker was not found.
	ErrCheckerNotFound = errors.New("health: checker not found")
)
