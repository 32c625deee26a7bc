package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/middleware"
	"github.com/divyansh01440/nirvana-agency/internal/service"
)

// AnalyticsHandler records and reports site traffic.
type AnalyticsHandler struct {
	Analytics *service.AnalyticsService
	Log       *zap.Logger
}

func NewAnalyticsHandler(a *service.AnalyticsService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{Analytics: a, Log: log}
}

func (h *AnalyticsHandler) PageView(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Analytics.TrackPageView(ctx); err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AnalyticsHandler) Visitor(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	if err := h.Analytics.TrackVisitor(ctx); err != nil {
		return respondErr(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats supports ?days=N, defaulting to the last 30 days.
func (h *AnalyticsHandler) Stats(c echo.Context) error {
	days := 0
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 3660 {
			return badRequest(c, "days must be between 1 and 3660")
		}
		days = n
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	g, err := h.Analytics.Stats(ctx, middleware.UserID(c), days)
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return guardedValue(c, g)
}

func (h *AnalyticsHandler) Total(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	g, err := h.Analytics.TotalTraffic(ctx, middleware.UserID(c))
	if err != nil {
		return respondErr(c, h.Log, err)
	}
	return guardedValue(c, g)
}
