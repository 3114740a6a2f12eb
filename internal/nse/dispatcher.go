package nse

import (
	"context"
	"net/url"

	"github.com/nsvirk/nsegateway/pkg/utils/zaplogger"
)

// DefaultMaxAttempts is one initial attempt plus three retries
const DefaultMaxAttempts = 4

// Fetcher performs one upstream data call
type Fetcher interface {
	Fetch(ctx context.Context, session *Session, path string, query url.Values) ([]byte, error)
}

// Observer is told about every failed attempt, including the last one
type Observer interface {
	AttemptFailed(kind Kind, attempt int, err error)
}

// Request is one inbound ask for upstream data
type Request struct {
	Kind       Kind
	Identifier string
}

// Result is a successful dispatch
type Result struct {
	Payload  []byte
	Attempts int
	Endpoint Endpoint
}

// Dispatcher obtains a session and fetches the requested endpoint, retrying the
// pair immediately on any failure up to maxAttempts times in total.
// It holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	sessions    SessionProvider
	fetcher     Fetcher
	maxAttempts int
	observer    Observer
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithMaxAttempts sets the total attempt bound; values below 1 are ignored
func WithMaxAttempts(n int) Option {
	return func(d *Dispatcher) {
		if n >= 1 {
			d.maxAttempts = n
		}
	}
}

// WithObserver registers an observer for failed attempts
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

// NewDispatcher creates a dispatcher
func NewDispatcher(sessions SessionProvider, fetcher Fetcher, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sessions:    sessions,
		fetcher:     fetcher,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MaxAttempts returns the configured attempt bound
func (d *Dispatcher) MaxAttempts() int {
	return d.maxAttempts
}

// Dispatch serves req. An empty identifier fails with ErrInvalidIdentifier
// before any upstream call; otherwise the result is either the first
// successful payload or a *RetriesExhaustedError wrapping the last failure.
// There is no delay between attempts.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Result, error) {
	identifier := NormalizeIdentifier(req.Identifier)
	if req.Kind.NeedsIdentifier() && identifier == "" {
		return nil, ErrInvalidIdentifier
	}

	endpoint, err := Resolve(req.Kind, identifier)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		payload, err := d.attempt(ctx, endpoint)
		if err == nil {
			return &Result{Payload: payload, Attempts: attempt, Endpoint: endpoint}, nil
		}
		lastErr = err

		zaplogger.Warn("upstream attempt failed", zaplogger.Fields{
			"kind":         req.Kind.String(),
			"identifier":   identifier,
			"attempt":      attempt,
			"max_attempts": d.maxAttempts,
			"stage":        Stage(err),
			"error":        err.Error(),
		})
		if d.observer != nil {
			d.observer.AttemptFailed(req.Kind, attempt, err)
		}
	}

	return nil, &RetriesExhaustedError{Attempts: d.maxAttempts, Last: lastErr}
}

// attempt runs one session + fetch pair; the session never outlives it
func (d *Dispatcher) attempt(ctx context.Context, endpoint Endpoint) ([]byte, error) {
	session, err := d.sessions.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return d.fetcher.Fetch(ctx, session, endpoint.Path, endpoint.Query)
}
