package core

import (
	"context"
	"time"
)

// Tool is a capability the web agent can invoke during its loop.
type Tool interface {
	// Name is the identifier the model uses to select the tool.
	Name() string

	// Description tells the model what the tool does and what input it takes.
	Description() string

	// Call executes the tool with a single string input.
	Call(ctx context.Context, input string) (string, error)
}

// RunStats aggregates usage across one agent run.
type RunStats struct {
	Steps      int           `json:"steps"`
	ToolCalls  int           `json:"tool_calls"`
	TokensIn   int64         `json:"tokens_in"`
	TokensOut  int64         `json:"tokens_out"`
	Cost       float64       `json:"cost"`
	AgentsUsed []string      `json:"agents_used"`
	ModelsUsed []string      `json:"models_used"`
	Duration   time.Duration `json:"duration"`
}

// Merge folds other into s.
func (s *RunStats) Merge(other RunStats) {
	s.Steps += other.Steps
	s.ToolCalls += other.ToolCalls
	s.TokensIn += other.TokensIn
	s.TokensOut += other.TokensOut
	s.Cost += other.Cost
	s.AgentsUsed = appendUnique(s.AgentsUsed, other.AgentsUsed...)
	s.ModelsUsed = appendUnique(s.ModelsUsed, other.ModelsUsed...)
}

// StepTrace records one loop iteration for transparency surfaces.
type StepTrace struct {
	Step        int    `json:"step"`
	Thought     string `json:"thought,omitempty"`
	Action      string `json:"action"`
	ActionInput string `json:"action_input,omitempty"`
	Observation string `json:"observation,omitempty"`
}

func appendUnique(dst []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, have := range dst {
			if have == item {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, item)
		}
	}
	return dst
}
