package telemetry

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/codebyNJ/AIResearch-Agent/config"
)

// Telemetry provides monitoring and cost tracking for searches, agent steps
// and source fetches.
type Telemetry struct {
	config      config.TelemetryConfig
	logger      *log.Logger
	metrics     *Metrics
	costTracker *CostTracker
	mu          sync.RWMutex
}

// Metrics holds various performance metrics
type Metrics struct {
	// Search metrics
	TotalSearches         int64
	SuccessfulSearches    int64
	FailedSearches        int64
	AverageProcessingTime time.Duration

	// Agent metrics
	AgentExecutions map[string]int64
	AgentSteps      map[string]int64

	// LLM metrics
	LLMRequests   map[string]int64
	LLMTokensUsed map[string]int64

	// Source metrics
	SourceFetches     int64
	SourceFetchErrors int64
	SourcesDiscovered int64
}

// CostTracker tracks costs across models and operations
type CostTracker struct {
	ModelCosts  map[string]float64
	TotalCost   float64
	TotalTokens int64
}

// SearchEvent represents a completed end-to-end search
type SearchEvent struct {
	ID             string
	Query          string
	ProcessingTime time.Duration
	Success        bool
	Error          string
	Cost           float64
	TokensUsed     int64
	AgentsUsed     []string
	ModelsUsed     []string
	SourcesFound   int
}

// AgentEvent represents a single agent execution
type AgentEvent struct {
	AgentType  string
	Duration   time.Duration
	Steps      int
	Success    bool
	Error      string
	Cost       float64
	TokensUsed int64
	ModelUsed  string
}

// FetchEvent represents a webpage fetch
type FetchEvent struct {
	URL      string
	Duration time.Duration
	Success  bool
	Cached   bool
}

// NewTelemetry creates a new telemetry instance. When LogFile is set, event
// logs are appended there instead of the process log.
func NewTelemetry(config config.TelemetryConfig) *Telemetry {
	out := log.Writer()
	if config.LogFile != "" {
		if f, err := os.OpenFile(config.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
			out = f
		} else {
			log.Printf("[TELEMETRY] cannot open log file %s: %v", config.LogFile, err)
		}
	}
	return &Telemetry{
		config: config,
		logger: log.New(out, "[TELEMETRY] ", log.LstdFlags),
		metrics: &Metrics{
			AgentExecutions: make(map[string]int64),
			AgentSteps:      make(map[string]int64),
			LLMRequests:     make(map[string]int64),
			LLMTokensUsed:   make(map[string]int64),
		},
		costTracker: &CostTracker{ModelCosts: make(map[string]float64)},
	}
}

// RecordSearchEvent records a completed search
func (t *Telemetry) RecordSearchEvent(ctx context.Context, event SearchEvent) {
	if !t.config.Enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.TotalSearches++
	if event.Success {
		t.metrics.SuccessfulSearches++
	} else {
		t.metrics.FailedSearches++
	}

	if t.metrics.TotalSearches == 1 {
		t.metrics.AverageProcessingTime = event.ProcessingTime
	} else {
		total := t.metrics.AverageProcessingTime * time.Duration(t.metrics.TotalSearches-1)
		t.metrics.AverageProcessingTime = (total + event.ProcessingTime) / time.Duration(t.metrics.TotalSearches)
	}

	t.metrics.SourcesDiscovered += int64(event.SourcesFound)

	// Cost, tokens and per-agent counters are accumulated by RecordAgentEvent,
	// once per agent; the search event only carries them for the log line.

	observeSearch(event.Success, event.ProcessingTime)
	t.logger.Printf("Search Event: ID=%s, Success=%t, Duration=%v, Cost=$%.4f, Tokens=%d, Sources=%d",
		event.ID, event.Success, event.ProcessingTime, event.Cost, event.TokensUsed, event.SourcesFound)
}

// RecordAgentEvent records an agent execution event
func (t *Telemetry) RecordAgentEvent(ctx context.Context, event AgentEvent) {
	if !t.config.Enabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.AgentExecutions[event.AgentType]++
	t.metrics.AgentSteps[event.AgentType] += int64(event.Steps)
	if event.ModelUsed != "" {
		t.metrics.LLMRequests[event.ModelUsed]++
		t.metrics.LLMTokensUsed[event.ModelUsed] += event.TokensUsed
	}
	if t.config.CostTracking {
		t.costTracker.TotalCost += event.Cost
		t.costTracker.TotalTokens += event.TokensUsed
		if event.ModelUsed != "" {
			t.costTracker.ModelCosts[event.ModelUsed] += event.Cost
		}
	}

	observeAgent(event.AgentType, event.Steps)
	if !event.Success {
		t.logger.Printf("Agent Event: type=%s failed after %v: %s", event.AgentType, event.Duration, event.Error)
	}
}

// RecordFetchEvent records a webpage fetch event
func (t *Telemetry) RecordFetchEvent(ctx context.Context, event FetchEvent) {
	if !t.config.Enabled {
		return
	}

	t.mu.Lock()
	t.metrics.SourceFetches++
	if !event.Success {
		t.metrics.SourceFetchErrors++
	}
	t.mu.Unlock()

	observeFetch(event.Success, event.Cached)
}

// GetMetrics returns a copy of the current metrics
func (t *Telemetry) GetMetrics() Metrics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := *t.metrics
	out.AgentExecutions = copyMap(t.metrics.AgentExecutions)
	out.AgentSteps = copyMap(t.metrics.AgentSteps)
	out.LLMRequests = copyMap(t.metrics.LLMRequests)
	out.LLMTokensUsed = copyMap(t.metrics.LLMTokensUsed)
	return out
}

// CostSummary is a point-in-time view of accumulated cost
type CostSummary struct {
	TotalCost   float64            `json:"total_cost"`
	TotalTokens int64              `json:"total_tokens"`
	ModelCosts  map[string]float64 `json:"model_costs"`
}

// GetCostSummary returns a copy of tracked costs
func (t *Telemetry) GetCostSummary() CostSummary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	costs := make(map[string]float64, len(t.costTracker.ModelCosts))
	for k, v := range t.costTracker.ModelCosts {
		costs[k] = v
	}
	return CostSummary{
		TotalCost:   t.costTracker.TotalCost,
		TotalTokens: t.costTracker.TotalTokens,
		ModelCosts:  costs,
	}
}

// GetPerformanceReport renders a human-readable summary for logs
func (t *Telemetry) GetPerformanceReport() string {
	m := t.GetMetrics()
	c := t.GetCostSummary()
	return fmt.Sprintf("searches=%d ok=%d failed=%d avg=%v fetches=%d fetch_errors=%d cost=$%.4f tokens=%d",
		m.TotalSearches, m.SuccessfulSearches, m.FailedSearches, m.AverageProcessingTime,
		m.SourceFetches, m.SourceFetchErrors, c.TotalCost, c.TotalTokens)
}

func copyMap(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
