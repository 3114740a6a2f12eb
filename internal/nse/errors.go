package nse

import (
	"errors"
	"fmt"
)

// ErrInvalidIdentifier is returned before any upstream call when an identifier is required but empty
var ErrInvalidIdentifier = errors.New("invalid request: no identifier was given")

// ErrUnexpectedStatus marks a non-2xx answer from the upstream root
var ErrUnexpectedStatus = errors.New("unexpected status")

// ErrNoSessionCookie means the upstream root answered without setting any cookie
var ErrNoSessionCookie = errors.New("upstream root set no session cookie")

// SessionError is a failed session acquisition against the upstream root
type SessionError struct {
	StatusCode int
	Cause      error
}

func (e *SessionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("session acquisition failed (status %d): %v", e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("session acquisition failed: %v", e.Cause)
}

func (e *SessionError) Unwrap() error {
	return e.Cause
}

// UpstreamError is a failed call to an upstream data endpoint
type UpstreamError struct {
	Path       string
	StatusCode int
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream %s failed (status %d): %v", e.Path, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("upstream %s failed: %v", e.Path, e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// RetriesExhaustedError is the terminal failure of a dispatch; Last is the final attempt's error
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("request failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Last
}

// Stage names the step of an attempt that failed
func Stage(err error) string {
	var sessionErr *SessionError
	if errors.As(err, &sessionErr) {
		return "session"
	}
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return "fetch"
	}
	return "unknown"
}
