package web_search

import (
	"context"

	"github.com/codebyNJ/AIResearch-Agent/config"
	"github.com/codebyNJ/AIResearch-Agent/tools/web_search/brave"
	"github.com/codebyNJ/AIResearch-Agent/tools/web_search/duckduckgo"
	"github.com/codebyNJ/AIResearch-Agent/tools/web_search/models"
	"github.com/codebyNJ/AIResearch-Agent/tools/web_search/serper"
)

type WebSearcher interface {
	Discover(ctx context.Context, q string, k int) ([]models.Result, error)
}

type Provider string

const (
	DuckDuckGoProvider Provider = "duckduckgo"
	SerperProvider     Provider = "serper"
	BraveProvider      Provider = "brave"
)

type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

var ErrUnsupportedProvider = &Error{"unsupported provider"}

func NewWebSearcher(cfg config.SearchConfig) (WebSearcher, error) {
	switch Provider(cfg.Provider) {
	case DuckDuckGoProvider:
		return duckduckgo.Search{Timeout: cfg.Timeout}, nil
	case SerperProvider:
		return serper.Search{ApiKey: cfg.SerperAPIKey}, nil
	case BraveProvider:
		return brave.Search{ApiKey: cfg.BraveAPIKey}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
