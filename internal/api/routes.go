// Package api contains the API routes for the NSE gateway
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nsvirk/nsegateway/internal/api/handlers"
)

// Deps are the collaborators the routes are wired to
type Deps struct {
	Proxy    handlers.ProxyService
	Stats    handlers.StatsReader
	Journal  handlers.JournalReader
	Gatherer prometheus.Gatherer
}

// SetupRoutes configures the routes for the API
func SetupRoutes(e *echo.Echo, deps Deps) {
	proxyHandler := handlers.NewProxyHandler(deps.Proxy)

	// Option chain, index or equity depending on the identifier
	e.GET("/", proxyHandler.GetOptionChain)

	api := e.Group("/api")

	// Equity quote
	api.GET("/equity", proxyHandler.GetEquityQuote)
	api.GET("/equity/", proxyHandler.GetEquityQuote)

	// Market status
	api.GET("/marketStatus", proxyHandler.GetMarketStatus)
	api.GET("/marketStatus/", proxyHandler.GetMarketStatus)

	// Gateway bookkeeping
	if deps.Stats != nil {
		statsHandler := handlers.NewStatsHandler(deps.Stats, deps.Journal)
		api.GET("/stats", statsHandler.GetStats)
		api.GET("/stats/", statsHandler.GetStats)
		api.GET("/dispatches", statsHandler.GetDispatches)
		api.GET("/dispatches/", statsHandler.GetDispatches)
	}

	if deps.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
}
