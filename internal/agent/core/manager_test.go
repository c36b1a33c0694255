package core

import (
	"context"
	"math"
	"testing"

	"github.com/codebyNJ/AIResearch-Agent/config"
	"github.com/codebyNJ/AIResearch-Agent/internal/agent/telemetry"
)

func TestManagerDelegatesAndComposes(t *testing.T) {
	webProv := &scriptedProvider{outputs: []string{
		`{"thought": "answering", "action": "final", "input": "Go 1.24 released, see https://go.dev/blog"}`,
	}}
	web := NewWebAgent(webProv, nil, 10, nil)

	managerProv := &scriptedProvider{outputs: []string{
		`{"thought": "needs research", "delegate": "search", "task": "find the latest Go release"}`,
		`{"thoughts": "delegated to search", "observations": "release notes at https://go.dev/blog", "answer": "Go 1.24 is the latest release."}`,
	}}
	manager := NewManagerAgent(managerProv, web, nil)

	res, err := manager.Run(context.Background(), "latest Go release?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	m, ok := res.Raw.(map[string]interface{})
	if !ok {
		t.Fatalf("Raw = %T, want map", res.Raw)
	}
	if m["answer"] != "Go 1.24 is the latest release." {
		t.Fatalf("answer = %v", m["answer"])
	}
	if m["thoughts"] == nil || m["observations"] == nil {
		t.Fatalf("missing sections: %v", m)
	}

	// manager plan + compose, plus the sub-agent's single step
	if res.Stats.Steps != 3 {
		t.Fatalf("Steps = %d, want 3", res.Stats.Steps)
	}
	if len(res.Stats.AgentsUsed) != 2 {
		t.Fatalf("AgentsUsed = %v", res.Stats.AgentsUsed)
	}
}

// The web agent records its own usage and the manager records only its plan
// and compose calls, so the tracked total must equal the run's merged stats.
func TestManagerRunCostRecordedOnce(t *testing.T) {
	tele := telemetry.NewTelemetry(config.TelemetryConfig{Enabled: true, CostTracking: true})

	webProv := &scriptedProvider{outputs: []string{
		`{"thought": "answering", "action": "final", "input": "findings"}`,
	}}
	web := NewWebAgent(webProv, nil, 10, tele)

	managerProv := &scriptedProvider{outputs: []string{
		`{"thought": "research", "delegate": "search", "task": "q"}`,
		`{"thoughts": "t", "observations": "o", "answer": "a"}`,
	}}
	manager := NewManagerAgent(managerProv, web, tele)

	res, err := manager.Run(context.Background(), "query")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	c := tele.GetCostSummary()
	if math.Abs(c.TotalCost-res.Stats.Cost) > 1e-9 {
		t.Fatalf("tracked cost %v, run cost %v", c.TotalCost, res.Stats.Cost)
	}
	if want := res.Stats.TokensIn + res.Stats.TokensOut; c.TotalTokens != want {
		t.Fatalf("tracked tokens %d, run tokens %d", c.TotalTokens, want)
	}

	m := tele.GetMetrics()
	if m.AgentExecutions["manager"] != 1 || m.AgentExecutions["web"] != 1 {
		t.Fatalf("agent executions = %v", m.AgentExecutions)
	}
	if m.AgentSteps["manager"]+m.AgentSteps["web"] != int64(res.Stats.Steps) {
		t.Fatalf("agent steps = %v, run steps = %d", m.AgentSteps, res.Stats.Steps)
	}
}

func TestManagerBrokenPlanStillDelegates(t *testing.T) {
	webProv := &scriptedProvider{outputs: []string{
		`{"thought": "done", "action": "final", "input": "findings"}`,
	}}
	web := NewWebAgent(webProv, nil, 10, nil)

	managerProv := &scriptedProvider{outputs: []string{
		"I refuse to answer in JSON.",
		`{"thoughts": "t", "observations": "o", "answer": "composed anyway"}`,
	}}
	manager := NewManagerAgent(managerProv, web, nil)

	res, err := manager.Run(context.Background(), "query")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if webProv.calls == 0 {
		t.Fatal("broken plan should fall back to delegating to search")
	}
	m, ok := res.Raw.(map[string]interface{})
	if !ok || m["answer"] != "composed anyway" {
		t.Fatalf("Raw = %v", res.Raw)
	}
}

func TestManagerOpaqueComposeResponse(t *testing.T) {
	webProv := &scriptedProvider{outputs: []string{
		`{"thought": "done", "action": "final", "input": "findings"}`,
	}}
	web := NewWebAgent(webProv, nil, 10, nil)

	managerProv := &scriptedProvider{outputs: []string{
		`{"thought": "research", "delegate": "search", "task": "q"}`,
		"  Free-form prose that is not JSON.  ",
	}}
	manager := NewManagerAgent(managerProv, web, nil)

	res, err := manager.Run(context.Background(), "query")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	s, ok := res.Raw.(string)
	if !ok {
		t.Fatalf("Raw = %T, want opaque string", res.Raw)
	}
	if s != "Free-form prose that is not JSON." {
		t.Fatalf("Raw = %q", s)
	}
}
