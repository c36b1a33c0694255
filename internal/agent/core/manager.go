package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/codebyNJ/AIResearch-Agent/internal/agent/telemetry"
	"github.com/codebyNJ/AIResearch-Agent/provider"
)

// ManagedAgent is a named sub-agent the manager can delegate to.
type ManagedAgent struct {
	Agent       *WebAgent
	Name        string
	Description string
}

// ManagerAgent coordinates a research run: it decides whether to delegate to
// a managed sub-agent, hands it the task, then composes the final structured
// response from the sub-agent's report.
type ManagerAgent struct {
	provider  provider.Provider
	managed   map[string]*ManagedAgent
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

func NewManagerAgent(p provider.Provider, web *WebAgent, tele *telemetry.Telemetry) *ManagerAgent {
	return &ManagerAgent{
		provider: p,
		managed: map[string]*ManagedAgent{
			"search": {
				Agent:       web,
				Name:        "search",
				Description: "Runs web searches for you. Give it your query as an argument.",
			},
		},
		telemetry: tele,
		logger:    log.New(log.Writer(), "[MANAGER] ", log.LstdFlags),
	}
}

// RunResult carries the raw agent response plus traces and usage.
type RunResult struct {
	Raw    any         `json:"raw"`
	Traces []StepTrace `json:"traces,omitempty"`
	Stats  RunStats    `json:"stats"`
}

type plan struct {
	Thought  string `json:"thought"`
	Delegate string `json:"delegate"`
	Task     string `json:"task"`
}

type composed struct {
	Thoughts     string `json:"thoughts"`
	Observations string `json:"observations"`
	Answer       string `json:"answer"`
}

// Run processes a research query end to end. The returned Raw value is
// either a map with thoughts/observations/answer keys or, when the model
// breaks the JSON contract, the opaque response text.
func (m *ManagerAgent) Run(ctx context.Context, query string) (RunResult, error) {
	t0 := time.Now()
	// own covers the manager's plan and compose calls only; sub-agent usage is
	// recorded by the sub-agent itself, so telemetry sums each dollar once.
	own := RunStats{AgentsUsed: []string{"manager"}, ModelsUsed: []string{m.provider.Model()}}

	p, err := m.plan(ctx, query, &own)
	if err != nil {
		m.recordRun(ctx, own, time.Since(t0), false, err)
		return RunResult{}, err
	}

	var report string
	var traces []StepTrace
	var subStats RunStats
	if sub, ok := m.managed[p.Delegate]; ok {
		task := p.Task
		if task == "" {
			task = query
		}
		m.logger.Printf("delegating to %s: %s", sub.Name, task)
		report, traces, subStats, err = sub.Agent.Run(ctx, task)
		if err != nil {
			m.recordRun(ctx, own, time.Since(t0), false, err)
			return RunResult{}, err
		}
	}

	raw, err := m.compose(ctx, query, report, &own)
	if err != nil {
		m.recordRun(ctx, own, time.Since(t0), false, err)
		return RunResult{}, err
	}

	total := own
	total.Merge(subStats)
	total.Duration = time.Since(t0)
	m.recordRun(ctx, own, total.Duration, true, nil)
	return RunResult{Raw: raw, Traces: traces, Stats: total}, nil
}

// plan asks the model whether to delegate and with what task. A broken JSON
// contract falls back to delegating the original query to search.
func (m *ManagerAgent) plan(ctx context.Context, query string, stats *RunStats) (plan, error) {
	var b strings.Builder
	b.WriteString("You are a research manager agent. You can delegate work to managed agents:\n")
	for _, sub := range m.managed {
		fmt.Fprintf(&b, "- %s: %s\n", sub.Name, sub.Description)
	}
	b.WriteString(`
Respond ONLY with valid JSON:
{"thought": "your reasoning", "delegate": "<managed agent name, or empty string to answer directly>", "task": "<the task for the delegate>"}
Do not include any other text or explanation.`)

	out, in, outTok, err := m.provider.GenerateWithTokens(ctx, b.String(), "RESEARCH QUERY: "+query)
	if err != nil {
		return plan{}, fmt.Errorf("manager planning: %w", err)
	}
	stats.Steps++
	stats.TokensIn += in
	stats.TokensOut += outTok
	stats.Cost += m.provider.CalculateCost(in, outTok)

	var p plan
	if jsonErr := json.Unmarshal([]byte(extractFirstJSON(out)), &p); jsonErr != nil {
		return plan{Delegate: "search", Task: query}, nil
	}
	return p, nil
}

// compose turns the sub-agent report into the final structured response.
func (m *ManagerAgent) compose(ctx context.Context, query, report string, stats *RunStats) (any, error) {
	system := `You are a research assistant composing the final report for a user.
Respond ONLY with valid JSON in the following format:
{"thoughts": "how you approached the question", "observations": "what the research uncovered, with source URLs", "answer": "the direct answer to the query, in Markdown"}
Do not include any other text or explanation.`

	user := fmt.Sprintf("RESEARCH QUERY: %s\n\nRESEARCH REPORT:\n%s", query, report)
	out, in, outTok, err := m.provider.GenerateWithTokens(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("manager synthesis: %w", err)
	}
	stats.Steps++
	stats.TokensIn += in
	stats.TokensOut += outTok
	stats.Cost += m.provider.CalculateCost(in, outTok)

	var c composed
	if jsonErr := json.Unmarshal([]byte(extractFirstJSON(out)), &c); jsonErr != nil || c.Answer == "" {
		// Opaque response; the formatter stringifies it as-is.
		return strings.TrimSpace(out), nil
	}
	resp := map[string]interface{}{"answer": c.Answer}
	if c.Thoughts != "" {
		resp["thoughts"] = c.Thoughts
	}
	if c.Observations != "" {
		resp["observations"] = c.Observations
	}
	return resp, nil
}

func (m *ManagerAgent) recordRun(ctx context.Context, stats RunStats, d time.Duration, success bool, err error) {
	if m.telemetry == nil {
		return
	}
	event := telemetry.AgentEvent{
		AgentType:  "manager",
		Duration:   d,
		Steps:      stats.Steps,
		Success:    success,
		Cost:       stats.Cost,
		TokensUsed: stats.TokensIn + stats.TokensOut,
		ModelUsed:  m.provider.Model(),
	}
	if err != nil {
		event.Error = err.Error()
	}
	m.telemetry.RecordAgentEvent(ctx, event)
}
