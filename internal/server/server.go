package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appconfig "github.com/codebyNJ/AIResearch-Agent/config"
	agentcore "github.com/codebyNJ/AIResearch-Agent/internal/agent/core"
	agenttele "github.com/codebyNJ/AIResearch-Agent/internal/agent/telemetry"
	"github.com/codebyNJ/AIResearch-Agent/internal/cache"
	"github.com/codebyNJ/AIResearch-Agent/provider"
	"github.com/codebyNJ/AIResearch-Agent/session/inmemory"
	"github.com/codebyNJ/AIResearch-Agent/tools/web_fetch"
	"github.com/codebyNJ/AIResearch-Agent/tools/web_search"
)

// remediationTips is shown with every top-level failure banner.
var remediationTips = []string{
	"Rephrasing your query",
	"Checking your internet connection",
	"Trying again in a few moments",
}

// newHTTPErrorHandler returns the unified error handler: every failure
// becomes a structured JSON banner, server-side failures carry the
// remediation tips the UI lists under the error.
func newHTTPErrorHandler() echo.HTTPErrorHandler {
	logger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		logger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			body := map[string]interface{}{"error": msg}
			if code >= http.StatusInternalServerError {
				body["tips"] = remediationTips
			}
			_ = c.JSON(code, body)
		}
	}
}

// Run wires the full stack and starts the HTTP server. A missing LLM
// credential aborts startup with a user-facing error.
func Run(cfg *appconfig.Config, addr string) error {
	if err := cfg.LLM.Validate(); err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.HTTPErrorHandler = newHTTPErrorHandler()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	tele := agenttele.NewTelemetry(cfg.Telemetry)
	if cfg.Telemetry.Enabled && cfg.Telemetry.PeriodicLogs {
		go func() {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				log.Printf("[TELEMETRY] %s", tele.GetPerformanceReport())
			}
		}()
	}

	managerProv, err := provider.FromRouting(cfg.LLM, cfg.LLM.Routing.Manager)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	researchProv, err := provider.FromRouting(cfg.LLM, cfg.LLM.Routing.Research)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	searcher, err := web_search.NewWebSearcher(cfg.Search)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	fetcher, err := web_fetch.NewWebFetcher(web_fetch.FetcherType(cfg.Fetch.Type), cfg.Fetch.Timeout, cfg.Fetch.MaxChars, cfg.Fetch.UserAgent)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	contentCache, err := cache.New(cfg.Cache)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	reader := &agentcore.PageReader{Fetcher: fetcher, Cache: contentCache, Telemetry: tele}
	tools := []agentcore.Tool{
		&agentcore.SearchTool{Searcher: searcher, MaxResults: cfg.Search.MaxResults},
		&agentcore.VisitWebpageTool{Reader: reader},
	}
	webAgent := agentcore.NewWebAgent(researchProv, tools, cfg.Agents.MaxSteps, tele)
	manager := agentcore.NewManagerAgent(managerProv, webAgent, tele)

	secret := cfg.Server.SessionSecret
	if secret == "" {
		// Sessions will not survive a restart without a configured secret.
		secret = uuid.NewString()
		log.Printf("[SERVER] server.session_secret not set; using an ephemeral secret")
	}
	sessions := inmemory.NewSessionStore()

	api := e.Group("/api")
	api.Use(sessionMiddleware(sessions, []byte(secret), cfg.Server.SessionTTL))

	sh := &SearchHandler{Manager: manager, Telemetry: tele, Config: cfg}
	sh.Register(api)

	srh := &SourcesHandler{Reader: reader}
	srh.Register(api.Group("/sources"))

	eh := &ExportHandler{}
	eh.Register(api.Group("/export"))

	th := &StatsHandler{Telemetry: tele}
	th.Register(api.Group("/stats"))

	registerUI(e)

	if addr == "" {
		addr = cfg.Server.Address
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}
