package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/codebyNJ/AIResearch-Agent/internal/agent/telemetry"
	"github.com/codebyNJ/AIResearch-Agent/internal/cache"
	"github.com/codebyNJ/AIResearch-Agent/internal/helpers"
	"github.com/codebyNJ/AIResearch-Agent/tools/web_fetch"
	"github.com/codebyNJ/AIResearch-Agent/tools/web_search"
)

// PageReader fetches webpage content as Markdown through the process-wide
// cache. Fetch failures are folded into the returned content as readable
// error text, never surfaced as typed errors.
type PageReader struct {
	Fetcher   web_fetch.WebFetcher
	Cache     cache.ContentCache
	Telemetry *telemetry.Telemetry
}

// Content returns the Markdown content for url. The result, including the
// inline error text for failed fetches, is what the agent and the sources tab
// both render.
func (r *PageReader) Content(ctx context.Context, url string) string {
	if r.Cache != nil {
		if v, ok, err := r.Cache.Get(ctx, url); err == nil && ok {
			r.record(ctx, url, 0, true, true)
			return v
		}
	}

	t0 := time.Now()
	res, err := r.Fetcher.Exec(ctx, url)
	if err != nil {
		r.record(ctx, url, time.Since(t0), false, false)
		return fmt.Sprintf("Error fetching the webpage: %v", err)
	}
	r.record(ctx, url, time.Since(t0), true, false)

	if r.Cache != nil {
		_ = r.Cache.Set(ctx, url, res.Markdown)
	}
	return res.Markdown
}

func (r *PageReader) record(ctx context.Context, url string, d time.Duration, success, cached bool) {
	if r.Telemetry == nil {
		return
	}
	r.Telemetry.RecordFetchEvent(ctx, telemetry.FetchEvent{URL: url, Duration: d, Success: success, Cached: cached})
}

// SearchTool exposes web search to the agent loop.
type SearchTool struct {
	Searcher   web_search.WebSearcher
	MaxResults int
}

func (t *SearchTool) Name() string { return "search" }

func (t *SearchTool) Description() string {
	return "Performs a web search. Input: the search query."
}

func (t *SearchTool) Call(ctx context.Context, input string) (string, error) {
	k := t.MaxResults
	if k <= 0 {
		k = 5
	}
	results, err := t.Searcher.Discover(ctx, input, k)
	if err != nil {
		return "", fmt.Errorf("web search failed: %w", err)
	}
	if len(results) == 0 {
		return "No results found.", nil
	}
	var b strings.Builder
	for i, r := range results {
		// API providers return snippets with embedded markup
		fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, helpers.SanitizeHTMLStrict(r.Title), r.URL)
		if snippet := helpers.SanitizeHTMLStrict(r.Snippet); snippet != "" {
			fmt.Fprintf(&b, "   %s\n", snippet)
		}
	}
	return b.String(), nil
}

// VisitWebpageTool exposes the fetch-and-convert utility to the agent loop.
// It never returns an error: failures become readable content, matching the
// behavior the sources tab relies on.
type VisitWebpageTool struct {
	Reader *PageReader
}

func (t *VisitWebpageTool) Name() string { return "visit_webpage" }

func (t *VisitWebpageTool) Description() string {
	return "Visits a webpage and returns its content converted to Markdown. Input: the complete URL (e.g. 'https://example.com')."
}

func (t *VisitWebpageTool) Call(ctx context.Context, input string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("An unexpected error occurred: %v", r)
			err = nil
		}
	}()
	return t.Reader.Content(ctx, strings.TrimSpace(input)), nil
}
