package nse

import (
	"context"
	"strings"
	"time"
)

// Session is the anti-bot cookie material handed out by the upstream root.
// It is used for one attempt and then dropped.
type Session struct {
	Cookies    []string
	AcquiredAt time.Time
}

// CookieHeader renders the session as a Cookie request header value
func (s *Session) CookieHeader() string {
	pairs := make([]string, 0, len(s.Cookies))
	for _, raw := range s.Cookies {
		pair, _, _ := strings.Cut(raw, ";")
		if pair = strings.TrimSpace(pair); pair != "" {
			pairs = append(pairs, pair)
		}
	}
	return strings.Join(pairs, "; ")
}

// SessionProvider hands out a session for one upstream attempt
type SessionProvider interface {
	Acquire(ctx context.Context) (*Session, error)
}

// CookieSessionProvider acquires a new session from the upstream root on every call.
//
// Acquire makes exactly one request and does not retry; retrying is left to
// the dispatcher, which re-acquires a session on each attempt.
type CookieSessionProvider struct {
	client *Client
	now    func() time.Time
}

// NewCookieSessionProvider creates a provider that reuses client's transport and identities
func NewCookieSessionProvider(client *Client) *CookieSessionProvider {
	return &CookieSessionProvider{client: client, now: time.Now}
}

func (p *CookieSessionProvider) Acquire(ctx context.Context) (*Session, error) {
	resp, err := p.client.get(ctx, nil, "/", nil)
	if err != nil {
		return nil, &SessionError{Cause: err}
	}
	if !resp.IsSuccess() {
		return nil, &SessionError{StatusCode: resp.StatusCode(), Cause: ErrUnexpectedStatus}
	}

	cookies := resp.Header().Values("Set-Cookie")
	if len(cookies) == 0 {
		return nil, &SessionError{StatusCode: resp.StatusCode(), Cause: ErrNoSessionCookie}
	}

	return &Session{
		Cookies:    cookies,
		AcquiredAt: p.now(),
	}, nil
}
