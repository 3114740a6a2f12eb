// Package nse talks to the NSE website's private JSON API.
//
// The website only answers API calls that carry a fresh anti-bot cookie and a
// browser-like User-Agent. Client issues the raw GETs, CookieSessionProvider
// obtains the cookie from the site root and Dispatcher ties both together
// with a bounded retry loop.
package nse

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the public NSE website
const DefaultBaseURL = "https://www.nseindia.com/"

// DefaultTimeout bounds every single outbound call
const DefaultTimeout = 6 * time.Second

// Client issues single GET requests against the upstream host
type Client struct {
	client *resty.Client
	agents UserAgentSource
}

// NewClient creates a client for baseURL. Cookies are never remembered between
// calls: the jar is disabled so that each request only carries the session it is given.
func NewClient(baseURL string, timeout time.Duration, agents UserAgentSource) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if agents == nil {
		agents = NewRandomUserAgents()
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetCookieJar(nil)

	return &Client{
		client: client,
		agents: agents,
	}
}

// Fetch GETs path?query with the session cookie and returns the body unchanged.
// Transport errors, timeouts and non-2xx statuses come back as *UpstreamError.
func (c *Client) Fetch(ctx context.Context, session *Session, path string, query url.Values) ([]byte, error) {
	resp, err := c.get(ctx, session, path, query)
	if err != nil {
		return nil, &UpstreamError{Path: path, Cause: err}
	}
	if !resp.IsSuccess() {
		return nil, &UpstreamError{
			Path:       path,
			StatusCode: resp.StatusCode(),
			Cause:      fmt.Errorf("unexpected status %q", resp.Status()),
		}
	}
	return resp.Body(), nil
}

func (c *Client) get(ctx context.Context, session *Session, path string, query url.Values) (*resty.Response, error) {
	req := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "*/*").
		SetHeader("User-Agent", c.agents.Next()).
		SetHeader("Connection", "keep-alive")

	if session != nil {
		if cookie := session.CookieHeader(); cookie != "" {
			req.SetHeader("Cookie", cookie)
		}
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}

	return req.Get(path)
}
