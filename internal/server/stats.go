package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codebyNJ/AIResearch-Agent/internal/agent/telemetry"
)

// StatsHandler exposes the process-wide telemetry for the Analysis tab.
type StatsHandler struct {
	Telemetry *telemetry.Telemetry
}

func (h *StatsHandler) Register(g *echo.Group) {
	g.GET("", h.stats)
	g.GET("/report", h.report)
}

func (h *StatsHandler) stats(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"metrics": h.Telemetry.GetMetrics(),
		"cost":    h.Telemetry.GetCostSummary(),
	})
}

func (h *StatsHandler) report(c echo.Context) error {
	return c.String(http.StatusOK, h.Telemetry.GetPerformanceReport())
}
