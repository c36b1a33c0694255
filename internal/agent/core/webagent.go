package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/codebyNJ/AIResearch-Agent/internal/agent/telemetry"
	"github.com/codebyNJ/AIResearch-Agent/internal/helpers"
	"github.com/codebyNJ/AIResearch-Agent/provider"
)

const maxObservationChars = 8000

// WebAgent is the tool-calling sub-agent. Each step the model picks a tool
// (web search or visit-webpage) or finishes with its findings; the loop is
// bounded by maxSteps.
type WebAgent struct {
	name      string
	provider  provider.Provider
	tools     []Tool
	maxSteps  int
	telemetry *telemetry.Telemetry
	logger    *log.Logger
}

func NewWebAgent(p provider.Provider, tools []Tool, maxSteps int, tele *telemetry.Telemetry) *WebAgent {
	if maxSteps <= 0 {
		maxSteps = 10
	}
	return &WebAgent{
		name:      "web",
		provider:  p,
		tools:     tools,
		maxSteps:  maxSteps,
		telemetry: tele,
		logger:    log.New(log.Writer(), "[WEB-AGENT] ", log.LstdFlags),
	}
}

// step is the JSON contract the model must follow each iteration.
type step struct {
	Thought string `json:"thought"`
	Action  string `json:"action"`
	Input   string `json:"input"`
}

// Run executes the tool-calling loop for a research task and returns the
// agent's findings together with the step traces and usage stats.
func (a *WebAgent) Run(ctx context.Context, task string) (string, []StepTrace, RunStats, error) {
	t0 := time.Now()
	stats := RunStats{AgentsUsed: []string{a.name}, ModelsUsed: []string{a.provider.Model()}}
	var traces []StepTrace

	system := a.systemPrompt()
	var transcript strings.Builder
	fmt.Fprintf(&transcript, "TASK: %s\n", task)

	var finalAnswer string
	for stepNum := 1; stepNum <= a.maxSteps; stepNum++ {
		out, in, outTok, err := a.provider.GenerateWithTokens(ctx, system, transcript.String())
		if err != nil {
			a.recordRun(ctx, stats, time.Since(t0), false, err)
			return "", traces, stats, fmt.Errorf("web agent step %d: %w", stepNum, err)
		}
		stats.Steps++
		stats.TokensIn += in
		stats.TokensOut += outTok
		stats.Cost += a.provider.CalculateCost(in, outTok)

		var s step
		if jsonErr := json.Unmarshal([]byte(extractFirstJSON(out)), &s); jsonErr != nil {
			// Model broke the contract; treat the raw text as the answer.
			finalAnswer = strings.TrimSpace(out)
			traces = append(traces, StepTrace{Step: stepNum, Action: "final", Observation: "unparseable step, used raw output"})
			break
		}

		if s.Action == "final" || s.Action == "" {
			finalAnswer = s.Input
			if finalAnswer == "" {
				finalAnswer = s.Thought
			}
			traces = append(traces, StepTrace{Step: stepNum, Thought: s.Thought, Action: "final"})
			break
		}

		observation := a.dispatch(ctx, s.Action, s.Input, &stats)
		traces = append(traces, StepTrace{
			Step: stepNum, Thought: s.Thought, Action: s.Action, ActionInput: s.Input,
			Observation: truncate(observation, 200),
		})
		fmt.Fprintf(&transcript, "\nStep %d:\nThought: %s\nAction: %s\nInput: %s\nObservation:\n%s\n",
			stepNum, s.Thought, s.Action, s.Input, truncate(observation, maxObservationChars))
	}

	if finalAnswer == "" {
		// Out of steps: fall back to whatever the transcript collected.
		finalAnswer = fmt.Sprintf("The research did not converge within %d steps. Partial findings:\n\n%s",
			a.maxSteps, transcript.String())
	}

	stats.Duration = time.Since(t0)
	a.recordRun(ctx, stats, stats.Duration, true, nil)
	return finalAnswer, traces, stats, nil
}

// dispatch routes a tool action and turns every failure into an observation
// the model can react to on the next step.
func (a *WebAgent) dispatch(ctx context.Context, action, input string, stats *RunStats) string {
	for _, tool := range a.tools {
		if tool.Name() != action {
			continue
		}
		stats.ToolCalls++
		out, err := tool.Call(ctx, input)
		if err != nil {
			return fmt.Sprintf("Tool %s failed: %v", action, err)
		}
		return out
	}
	return fmt.Sprintf("Unknown action %q. Available actions: %s, final.", action, a.toolNames())
}

func (a *WebAgent) systemPrompt() string {
	var b strings.Builder
	b.WriteString("You are a web research agent. You answer research tasks by calling tools.\n\nAvailable tools:\n")
	for _, tool := range a.tools {
		fmt.Fprintf(&b, "- %s: %s\n", tool.Name(), tool.Description())
	}
	b.WriteString(`
At each step respond ONLY with valid JSON in the following format:
{"thought": "your reasoning", "action": "<tool name or final>", "input": "<tool input, or your complete findings when action is final>"}

Use "action": "final" once you can answer. Include the URLs of every webpage you relied on in your findings.
Do not include any other text or explanation.`)
	return b.String()
}

func (a *WebAgent) toolNames() string {
	names := make([]string, 0, len(a.tools))
	for _, tool := range a.tools {
		names = append(names, tool.Name())
	}
	return strings.Join(names, ", ")
}

func (a *WebAgent) recordRun(ctx context.Context, stats RunStats, d time.Duration, success bool, err error) {
	if a.telemetry == nil {
		return
	}
	event := telemetry.AgentEvent{
		AgentType:  a.name,
		Duration:   d,
		Steps:      stats.Steps,
		Success:    success,
		Cost:       stats.Cost,
		TokensUsed: stats.TokensIn + stats.TokensOut,
		ModelUsed:  a.provider.Model(),
	}
	if err != nil {
		event.Error = err.Error()
	}
	a.telemetry.RecordAgentEvent(ctx, event)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return helpers.CutAt(s, n) + "..."
}
