// Package response contains response utility functions and types
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the envelope used by the gateway's own endpoints
type Response struct {
	Status    string      `json:"status"`
	Data      interface{} `json:"data,omitempty"`
	ErrorType string      `json:"error_type,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// ProxyError is the body returned by the proxied routes on failure
type ProxyError struct {
	Error string `json:"error"`
}

// SuccessResponse sends a successful JSON response
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{
		Status: "success",
		Data:   data,
	})
}

// ErrorResponse sends an error JSON response
func ErrorResponse(c echo.Context, httpStatus int, errorType, message string) error {
	return c.JSON(httpStatus, Response{
		Status:    "error",
		ErrorType: errorType,
		Message:   message,
	})
}

// PassthroughResponse writes an upstream JSON body untouched
func PassthroughResponse(c echo.Context, body []byte) error {
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
}

// ProxyErrorResponse sends `{"error": message}` with the given status
func ProxyErrorResponse(c echo.Context, httpStatus int, message string) error {
	return c.JSON(httpStatus, ProxyError{Error: message})
}
