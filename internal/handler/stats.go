package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rovel/ticket-express/internal/repository"
)

// StatsHandler serves the reservation statistics endpoint.
type StatsHandler struct {
	Stats *repository.StatsRepo
}

func NewStatsHandler(s *repository.StatsRepo) *StatsHandler {
	return &StatsHandler{Stats: s}
}

// GetReservationStats handles GET /v1/reservation-stats: one row per
// issued ticket joined with its agent, ordered by agency then agent
// then client name.
func (h *StatsHandler) GetReservationStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stats, err := h.Stats.ListReservationStats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": stats})
}
