package llm

import (
	"errors"
	"fmt"
	"time"
)

var ErrEmptyOutput = errors.New("model returned no text")

const (
	ReasonNetwork  = "network"
	ReasonTimeout  = "timeout"
	ReasonAuth     = "auth"
	ReasonRejected = "rejected"
	ReasonUpstream = "upstream"
	ReasonEmpty    = "empty_output"
)

// ModelUnavailableError means the model could not produce an answer right now.
type ModelUnavailableError struct {
	Provider string
	Reason   string
	Status   int
	Err      error
}

func (e *ModelUnavailableError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("model %s unavailable (%s, http %d): %v", e.Provider, e.Reason, e.Status, e.Err)
	}
	return fmt.Sprintf("model %s unavailable (%s): %v", e.Provider, e.Reason, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

// RateLimitError is a 429 or exhausted quota. It is never retried here.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("model %s rate limited: %v", e.Provider, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// RetryAfterer is implemented by provider errors that carry a Retry-After hint.
type RetryAfterer interface {
	RetryAfter() time.Duration
}

func retryAfter(err error) time.Duration {
	var ra RetryAfterer
	if errors.As(err, &ra) {
		return ra.RetryAfter()
	}
	return 0
}
