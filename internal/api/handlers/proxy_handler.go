// Package handlers contains the handlers for the API
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nsvirk/nsegateway/internal/nse"
	"github.com/nsvirk/nsegateway/pkg/utils/response"
)

// Error messages returned by the proxied routes
const (
	MsgNoIdentifier = "Invalid request. No identifier was given."
	MsgProxyFailed  = "Proxy request failed."
)

// ProxyService is what the proxy handlers need from the service layer
type ProxyService interface {
	OptionChain(ctx context.Context, identifier string) ([]byte, error)
	EquityQuote(ctx context.Context, identifier string) ([]byte, error)
	MarketStatus(ctx context.Context) ([]byte, error)
}

// ProxyHandler serves upstream payloads unchanged
type ProxyHandler struct {
	service ProxyService
}

// NewProxyHandler creates a new proxy handler
func NewProxyHandler(service ProxyService) *ProxyHandler {
	return &ProxyHandler{service: service}
}

// GetOptionChain returns the option chain for `identifier`
func (h *ProxyHandler) GetOptionChain(c echo.Context) error {
	identifier := c.QueryParam("identifier")
	if identifier == "" {
		return response.ProxyErrorResponse(c, http.StatusBadRequest, MsgNoIdentifier)
	}
	payload, err := h.service.OptionChain(dispatchContext(c), identifier)
	return respond(c, payload, err)
}

// GetEquityQuote returns the equity quote for `identifier`
func (h *ProxyHandler) GetEquityQuote(c echo.Context) error {
	identifier := c.QueryParam("identifier")
	if identifier == "" {
		return response.ProxyErrorResponse(c, http.StatusBadRequest, MsgNoIdentifier)
	}
	payload, err := h.service.EquityQuote(dispatchContext(c), identifier)
	return respond(c, payload, err)
}

// GetMarketStatus returns the market status, it takes no parameters
func (h *ProxyHandler) GetMarketStatus(c echo.Context) error {
	payload, err := h.service.MarketStatus(dispatchContext(c))
	return respond(c, payload, err)
}

// dispatchContext keeps request values but drops cancellation, a started
// dispatch always runs to completion even if the caller goes away
func dispatchContext(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}

// respond never exposes upstream error detail to the caller
func respond(c echo.Context, payload []byte, err error) error {
	switch {
	case err == nil:
		return response.PassthroughResponse(c, payload)
	case errors.Is(err, nse.ErrInvalidIdentifier):
		return response.ProxyErrorResponse(c, http.StatusBadRequest, MsgNoIdentifier)
	default:
		return response.ProxyErrorResponse(c, http.StatusInternalServerError, MsgProxyFailed)
	}
}
