// Package handlers contains the handlers for the API
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/nsvirk/nsegateway/internal/models"
	"github.com/nsvirk/nsegateway/pkg/utils/response"
)

// StatsReader reads the dispatch counters
type StatsReader interface {
	GetStats(ctx context.Context) (map[string]int64, error)
}

// JournalReader reads persisted dispatch records
type JournalReader interface {
	GetRecentDispatches(ctx context.Context, kind string, limit int) ([]models.DispatchRecord, error)
}

// StatsHandler is the handler for the gateway's own bookkeeping
type StatsHandler struct {
	stats   StatsReader
	journal JournalReader
}

// NewStatsHandler creates a new stats handler, journal may be nil
func NewStatsHandler(stats StatsReader, journal JournalReader) *StatsHandler {
	return &StatsHandler{stats: stats, journal: journal}
}

// GetStats returns the dispatch counters
func (h *StatsHandler) GetStats(c echo.Context) error {
	stats, err := h.stats.GetStats(c.Request().Context())
	if err != nil {
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
	}
	return response.SuccessResponse(c, stats)
}

// GetDispatches returns the most recent dispatch records
func (h *StatsHandler) GetDispatches(c echo.Context) error {
	if h.journal == nil {
		return response.ErrorResponse(c, http.StatusNotFound, "DataNotFound", "Dispatch journal is not enabled")
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			return response.ErrorResponse(c, http.StatusBadRequest, "InputException", "Invalid `limit`, must be between 1 and 500")
		}
		limit = n
	}

	records, err := h.journal.GetRecentDispatches(c.Request().Context(), c.QueryParam("kind"), limit)
	if err != nil {
		return response.ErrorResponse(c, http.StatusInternalServerError, "ServerException", err.Error())
	}
	return response.SuccessResponse(c, records)
}
