package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	agentcore "github.com/codebyNJ/AIResearch-Agent/internal/agent/core"
	"github.com/codebyNJ/AIResearch-Agent/internal/report"
)

// SourcesHandler serves per-source content for the Sources tab expanders.
// Content is fetched through the same cached reader the agents use, so a
// source that was visited during research is served from cache.
type SourcesHandler struct {
	Reader *agentcore.PageReader
}

func (h *SourcesHandler) Register(g *echo.Group) {
	g.GET("", h.content)
	g.GET("/download", h.download)
}

type sourceResponse struct {
	URL       string `json:"url"`
	Preview   string `json:"preview"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
}

func (h *SourcesHandler) content(c echo.Context) error {
	raw, err := sourceURLParam(c)
	if err != nil {
		return err
	}
	content := h.Reader.Content(c.Request().Context(), raw)
	preview, truncated := report.Preview(content)
	return c.JSON(http.StatusOK, sourceResponse{
		URL:       raw,
		Preview:   preview,
		Content:   content,
		Truncated: truncated,
	})
}

func (h *SourcesHandler) download(c echo.Context) error {
	raw, err := sourceURLParam(c)
	if err != nil {
		return err
	}
	idx := 1
	if v := c.QueryParam("idx"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			idx = n
		}
	}
	content := h.Reader.Content(c.Request().Context(), raw)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("source_%d.md", idx)))
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(content))
}

func sourceURLParam(c echo.Context) (string, error) {
	raw := c.QueryParam("url")
	if raw == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "url is required")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid url")
	}
	return raw, nil
}
