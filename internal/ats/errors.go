package ats

import (
	"errors"
	"fmt"
)

// NotFoundError means the company has no board on the platform. This is a
// benign outcome: the fetch completes with zero postings and no retry.
type NotFoundError struct {
	Platform Platform
	Company  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no board for company %q", e.Platform, e.Company)
}

// RateLimitedError is an HTTP 429 or platform-specific throttle signal.
// Propagated to the fetch worker, which owns backoff.
type RateLimitedError struct {
	Platform   Platform
	Company    string
	StatusCode int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: rate limited fetching %q (status %d)", e.Platform, e.Company, e.StatusCode)
}

// TransientError is a timeout, connection reset, or 5xx — retryable.
type TransientError struct {
	Platform Platform
	Company  string
	Message  string
	Cause    error
}

func (e *TransientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: transient error fetching %q: %s: %v", e.Platform, e.Company, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: transient error fetching %q: %s", e.Platform, e.Company, e.Message)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// MalformedError is an unexpected JSON shape for the whole response body.
// Individual malformed postings are skipped inside the adapter instead.
type MalformedError struct {
	Platform Platform
	Company  string
	Cause    error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: malformed response for %q: %v", e.Platform, e.Company, e.Cause)
}

func (e *MalformedError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is a benign missing-board outcome.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsRetryable reports whether err warrants a backed-off retry.
func IsRetryable(err error) bool {
	var rl *RateLimitedError
	var tr *TransientError
	return errors.As(err, &rl) || errors.As(err, &tr)
}
