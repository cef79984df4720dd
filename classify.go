package failover

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind is a closed enumeration of backend failure categories. The
// Invoker tags errors with a kind via Wrap; the classifier maps kinds
// to actions. Untagged errors classify as KindUnknown.
type ErrorKind int

const (
	// KindUnknown is the kind of errors that carry no classification.
	KindUnknown ErrorKind = iota
	// KindTimeout indicates the backend did not answer in time.
	KindTimeout
	// KindRateLimited indicates the backend rejected for quota/rate.
	KindRateLimited
	// KindUnavailable indicates the backend could not be reached.
	KindUnavailable
	// KindServerError indicates a backend-side internal failure.
	KindServerError
	// KindBadRequest indicates the request itself is malformed.
	KindBadRequest
	// KindUnauthorized indicates missing or rejected credentials.
	KindUnauthorized
	// KindCanceled indicates the caller canceled the execution.
	KindCanceled
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	case KindServerError:
		return "server_error"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// BackendError tags an underlying error with an ErrorKind so the
// classifier can act on it without inspecting concrete types.
type BackendError struct {
	Kind ErrorKind
	Err  error
}

// Wrap tags err with kind. It returns nil if err is nil.
func Wrap(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Kind: kind, Err: err}
}

// Error returns the kind-prefixed message.
func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *BackendError) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind from err. Context cancellation and
// deadline expiry map to KindCanceled and KindTimeout respectively;
// everything untagged is KindUnknown.
func KindOf(err error) ErrorKind {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Kind
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindUnknown
}

// Classification is the executor's decision about a failed attempt.
type Classification int

const (
	// FallbackNext advances to the next candidate backend.
	FallbackNext Classification = iota
	// RetrySame retries the same backend, subject to its retry limit.
	RetrySame
	// Fatal aborts the execution and propagates the error unchanged.
	Fatal
)

// String returns the string representation of the classification.
func (c Classification) String() string {
	switch c {
	case RetrySame:
		return "retry_same"
	case Fatal:
		return "fatal"
	default:
		return "fallback_next"
	}
}

// Classifier maps error kinds to classifications. The rule table is
// caller-supplied, making classification a total function over the
// closed ErrorKind domain rather than a type-inspection heuristic.
type Classifier struct {
	// Rules maps each kind to its classification. Kinds absent from
	// the table use Default.
	Rules map[ErrorKind]Classification

	// Default applies to kinds not present in Rules.
	// The zero value is FallbackNext.
	Default Classification
}

// Classify returns the action for err.
func (c Classifier) Classify(err error) Classification {
	if action, ok := c.Rules[KindOf(err)]; ok {
		return action
	}
	return c.Default
}

// DefaultClassifier returns a classifier with conventional rules:
// malformed requests and credential failures are fatal (they will
// recur identically on every backend), timeouts, rate limits, and
// unreachable backends retry on the same backend, and server errors
// fall back to the next candidate.
func DefaultClassifier() Classifier {
	return Classifier{
		Rules: map[ErrorKind]Classification{
			KindTimeout:      RetrySame,
			KindRateLimited:  RetrySame,
			KindUnavailable:  RetrySame,
			KindServerError:  FallbackNext,
			KindBadRequest:   Fatal,
			KindUnauthorized: Fatal,
		},
		Default: FallbackNext,
	}
}
