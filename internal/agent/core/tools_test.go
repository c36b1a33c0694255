package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/codebyNJ/AIResearch-Agent/internal/cache"
	fetchmodels "github.com/codebyNJ/AIResearch-Agent/tools/web_fetch/models"
	searchmodels "github.com/codebyNJ/AIResearch-Agent/tools/web_search/models"
)

type fakeFetcher struct {
	calls  int
	result fetchmodels.Result
	err    error
}

func (f *fakeFetcher) Exec(_ context.Context, url string) (fetchmodels.Result, error) {
	f.calls++
	if f.err != nil {
		return fetchmodels.Result{}, f.err
	}
	r := f.result
	r.URL = url
	return r, nil
}

type fakeSearcher struct {
	results []searchmodels.Result
	err     error
	gotK    int
}

func (f *fakeSearcher) Discover(_ context.Context, q string, k int) ([]searchmodels.Result, error) {
	f.gotK = k
	return f.results, f.err
}

func TestVisitWebpageToolFoldsFetchErrors(t *testing.T) {
	tool := &VisitWebpageTool{Reader: &PageReader{
		Fetcher: &fakeFetcher{err: errors.New("dial tcp: no such host")},
	}}

	out, err := tool.Call(context.Background(), "https://unreachable.invalid")
	if err != nil {
		t.Fatalf("tool must not return an error, got %v", err)
	}
	if !strings.HasPrefix(out, "Error fetching the webpage: ") {
		t.Fatalf("got %q", out)
	}
	if !strings.Contains(out, "no such host") {
		t.Fatalf("cause missing from content: %q", out)
	}
}

func TestVisitWebpageToolRecoversFromPanic(t *testing.T) {
	tool := &VisitWebpageTool{} // nil Reader panics inside Call
	out, err := tool.Call(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("tool must not return an error, got %v", err)
	}
	if !strings.HasPrefix(out, "An unexpected error occurred: ") {
		t.Fatalf("got %q", out)
	}
}

func TestPageReaderMemoizes(t *testing.T) {
	fetcher := &fakeFetcher{result: fetchmodels.Result{Markdown: "# Cached Page", Status: 200}}
	reader := &PageReader{Fetcher: fetcher, Cache: cache.NewInMemory(time.Hour)}
	ctx := context.Background()

	first := reader.Content(ctx, "https://example.com")
	second := reader.Content(ctx, "https://example.com")
	if first != "# Cached Page" || second != first {
		t.Fatalf("contents differ: %q vs %q", first, second)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetcher called %d times, want 1", fetcher.calls)
	}
}

func TestPageReaderDoesNotCacheFailures(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	reader := &PageReader{Fetcher: fetcher, Cache: cache.NewInMemory(time.Hour)}
	ctx := context.Background()

	reader.Content(ctx, "https://example.com")
	reader.Content(ctx, "https://example.com")
	if fetcher.calls != 2 {
		t.Fatalf("failed fetch was cached (calls=%d)", fetcher.calls)
	}
}

func TestSearchToolFormatsResults(t *testing.T) {
	tool := &SearchTool{
		Searcher: &fakeSearcher{results: []searchmodels.Result{
			{Title: "Go", URL: "https://go.dev", Snippet: "The Go programming language"},
			{Title: "Docs", URL: "https://go.dev/doc"},
		}},
		MaxResults: 5,
	}

	out, err := tool.Call(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !strings.Contains(out, "1. [Go](https://go.dev)") {
		t.Fatalf("missing first result: %q", out)
	}
	if !strings.Contains(out, "2. [Docs](https://go.dev/doc)") {
		t.Fatalf("missing second result: %q", out)
	}
	if !strings.Contains(out, "The Go programming language") {
		t.Fatalf("missing snippet: %q", out)
	}
}

func TestSearchToolStripsSnippetMarkup(t *testing.T) {
	tool := &SearchTool{
		Searcher: &fakeSearcher{results: []searchmodels.Result{
			{Title: "Go", URL: "https://go.dev", Snippet: "<b>Build</b> simple systems"},
		}},
		MaxResults: 5,
	}
	out, err := tool.Call(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if strings.Contains(out, "<b>") {
		t.Fatalf("markup leaked: %q", out)
	}
	if !strings.Contains(out, "Build simple systems") {
		t.Fatalf("snippet text lost: %q", out)
	}
}

func TestSearchToolEmptyAndError(t *testing.T) {
	empty := &SearchTool{Searcher: &fakeSearcher{}}
	out, err := empty.Call(context.Background(), "nothing")
	if err != nil || out != "No results found." {
		t.Fatalf("got %q, %v", out, err)
	}

	failing := &SearchTool{Searcher: &fakeSearcher{err: errors.New("rate limited")}}
	if _, err := failing.Call(context.Background(), "q"); err == nil {
		t.Fatal("expected error from failing searcher")
	}
}

func TestSearchToolDefaultsMaxResults(t *testing.T) {
	searcher := &fakeSearcher{}
	tool := &SearchTool{Searcher: searcher}
	_, _ = tool.Call(context.Background(), "q")
	if searcher.gotK != 5 {
		t.Fatalf("default k = %d, want 5", searcher.gotK)
	}
}
