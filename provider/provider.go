package provider

import (
	"context"
	"errors"
	"os"

	"github.com/codebyNJ/AIResearch-Agent/config"
	huggingface_provider "github.com/codebyNJ/AIResearch-Agent/provider/huggingface"
	openai_provider "github.com/codebyNJ/AIResearch-Agent/provider/openai"
)

// Provider is the interface that all LLM implementations must satisfy.
// An empty system prompt sends the user prompt alone.
type Provider interface {
	// Generate runs a chat completion and returns the assistant text.
	Generate(ctx context.Context, system, user string) (string, error)

	// GenerateWithTokens runs a chat completion and also reports prompt and
	// completion token usage.
	GenerateWithTokens(ctx context.Context, system, user string) (string, int64, int64, error)

	// Model returns the model identifier requests are routed to.
	Model() string

	// CalculateCost estimates the dollar cost for the given token usage.
	CalculateCost(inputTokens, outputTokens int64) float64
}

// NewProvider creates a new LLM client based on the provided configuration
func NewProvider(cfg config.LLMProvider) (Provider, error) {
	switch cfg.Type {
	case "huggingface":
		token := cfg.APIKey
		if token == "" {
			token = os.Getenv("HF_TOKEN")
		}
		if token == "" {
			return nil, errors.New("HuggingFace token not found; set llm api_key or HF_TOKEN")
		}
		return huggingface_provider.NewClient(token, cfg), nil
	case "openai":
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("OPENAI_API_KEY not set")
		}
		return openai_provider.NewClient(apiKey, cfg), nil
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}

// FromRouting resolves the provider entry for a routing role, falling back to
// the configured fallback entry.
func FromRouting(cfg config.LLMConfig, name string) (Provider, error) {
	if p, ok := cfg.Providers[name]; ok {
		return NewProvider(p)
	}
	if p, ok := cfg.Providers[cfg.Routing.Fallback]; ok {
		return NewProvider(p)
	}
	return nil, errors.New("no LLM provider configured for role " + name)
}
