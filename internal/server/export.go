package server

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ExportHandler produces downloadable copies of the latest research result.
// The UI posts back the content it is holding so exports need no server state.
type ExportHandler struct{}

func (h *ExportHandler) Register(g *echo.Group) {
	g.POST("/markdown", h.markdown)
	g.POST("/json", h.asJSON)
}

type markdownExportRequest struct {
	Content string `json:"content"`
}

func (h *ExportHandler) markdown(c echo.Context) error {
	var req markdownExportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content is required")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="research_results.md"`)
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(req.Content))
}

type jsonExportRequest struct {
	Raw any `json:"raw"`
}

func (h *ExportHandler) asJSON(c echo.Context) error {
	var req jsonExportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Raw == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "raw is required")
	}
	body, err := json.MarshalIndent(req.Raw, "", "  ")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not encode result")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="research_results.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, body)
}
