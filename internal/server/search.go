package server

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	appconfig "github.com/codebyNJ/AIResearch-Agent/config"
	agentcore "github.com/codebyNJ/AIResearch-Agent/internal/agent/core"
	"github.com/codebyNJ/AIResearch-Agent/internal/agent/telemetry"
	"github.com/codebyNJ/AIResearch-Agent/internal/report"
)

// ResearchRunner runs a full research query. Satisfied by core.ManagerAgent.
type ResearchRunner interface {
	Run(ctx context.Context, query string) (agentcore.RunResult, error)
}

// SearchHandler serves the research endpoint and the session history.
type SearchHandler struct {
	Manager   ResearchRunner
	Telemetry *telemetry.Telemetry
	Config    *appconfig.Config

	logger *log.Logger
}

// SearchRequest carries the query plus the sidebar settings. MaxResults and
// SearchDepth are accepted and echoed back but do not alter the pipeline.
type SearchRequest struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

// SearchResponse is the full payload the UI renders across its tabs.
type SearchResponse struct {
	Query           string             `json:"query"`
	Result          string             `json:"result"`
	Raw             any                `json:"raw"`
	Sources         []string           `json:"sources"`
	Analytics       report.Analytics   `json:"analytics"`
	Stats           agentcore.RunStats `json:"stats"`
	History         []string           `json:"history"`
	Searches        int                `json:"searches"`
	SourcesAnalyzed int                `json:"sources_analyzed"`
}

func (h *SearchHandler) Register(g *echo.Group) {
	h.logger = log.New(log.Writer(), "[SEARCH] ", log.LstdFlags)
	g.POST("/search", h.search)
	g.GET("/history", h.history)
}

func (h *SearchHandler) search(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	sess := currentSession(c)
	sess.AddQuery(query)

	h.logger.Printf("query=%q max_results=%d depth=%q session=%s", query, req.MaxResults, req.SearchDepth, sess.ID())

	ctx := c.Request().Context()
	if h.Config.General.MaxProcessingTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Config.General.MaxProcessingTime)
		defer cancel()
	}

	t0 := time.Now()
	res, err := h.Manager.Run(ctx, query)
	if err != nil {
		h.record(c, query, time.Since(t0), false, err, res, nil)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	formatted := report.FormatAgentResponse(res.Raw)
	sources := report.ExtractSources(formatted)
	analytics := report.Analyze(formatted, sources)
	sess.AddSourcesAnalyzed(len(sources))

	h.record(c, query, time.Since(t0), true, nil, res, sources)

	return c.JSON(http.StatusOK, SearchResponse{
		Query:           query,
		Result:          formatted,
		Raw:             res.Raw,
		Sources:         sources,
		Analytics:       analytics,
		Stats:           res.Stats,
		History:         sess.Recent(h.Config.Server.HistoryShown),
		Searches:        len(sess.History()),
		SourcesAnalyzed: sess.SourcesAnalyzed(),
	})
}

func (h *SearchHandler) history(c echo.Context) error {
	sess := currentSession(c)
	return c.JSON(http.StatusOK, map[string]any{
		"history":          sess.Recent(h.Config.Server.HistoryShown),
		"searches":         len(sess.History()),
		"sources_analyzed": sess.SourcesAnalyzed(),
	})
}

func (h *SearchHandler) record(c echo.Context, query string, d time.Duration, success bool, err error, res agentcore.RunResult, sources []string) {
	if h.Telemetry == nil {
		return
	}
	event := telemetry.SearchEvent{
		ID:             uuid.NewString(),
		Query:          query,
		ProcessingTime: d,
		Success:        success,
		Cost:           res.Stats.Cost,
		TokensUsed:     res.Stats.TokensIn + res.Stats.TokensOut,
		AgentsUsed:     res.Stats.AgentsUsed,
		ModelsUsed:     res.Stats.ModelsUsed,
		SourcesFound:   len(sources),
	}
	if err != nil {
		event.Error = err.Error()
	}
	h.Telemetry.RecordSearchEvent(c.Request().Context(), event)
}
