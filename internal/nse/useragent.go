package nse

import (
	"math/rand/v2"
)

// UserAgentSource yields the browser identity presented on each outbound call
type UserAgentSource interface {
	Next() string
}

// desktopUserAgents is a pool of current desktop browser identities
var desktopUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36 Edg/128.0.0.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:130.0) Gecko/20100101 Firefox/130.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14.6; rv:129.0) Gecko/20100101 Firefox/129.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:130.0) Gecko/20100101 Firefox/130.0",
}

// RandomUserAgents picks uniformly from a fixed pool on every call
type RandomUserAgents struct {
	pool []string
}

// NewRandomUserAgents returns a source over pool, or the built-in desktop pool when pool is empty
func NewRandomUserAgents(pool ...string) *RandomUserAgents {
	if len(pool) == 0 {
		pool = desktopUserAgents
	}
	return &RandomUserAgents{pool: pool}
}

func (r *RandomUserAgents) Next() string {
	return r.pool[rand.IntN(len(r.pool))]
}

// StaticUserAgent always returns the same identity
type StaticUserAgent string

func (s StaticUserAgent) Next() string {
	return string(s)
}
