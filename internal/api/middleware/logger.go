// Package middleware provides the middleware for the Echo instance
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SetupLoggerMiddleware configures and adds middleware to the Echo instance
func SetupLoggerMiddleware(e *echo.Echo) {
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
		Format: "${time_rfc3339}: ip=${remote_ip}, req=${method}, uri=${uri}, status=${status}, error=${error}, latency=${latency_human}\n",
	}))
	e.Use(middleware.Recover())
}

// SetupCORSMiddleware allows the configured origins to call the gateway.
// A single "*" entry allows every origin.
func SetupCORSMiddleware(e *echo.Echo, allowOrigins []string) {
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
	}))
}
