package duckduckgo

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const fixtureHTML = `<html><body>
<div class="result">
  <a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2F&rut=abc">The Go Programming Language</a>
  <a class="result__snippet">Build simple, secure, scalable systems.</a>
</div>
<div class="result">
  <a class="result__a" href="https://pkg.go.dev/std">Standard library</a>
  <a class="result__snippet">Package listing.</a>
</div>
<div class="result">
  <a class="result__a" href="https://go.dev/doc/">Documentation</a>
</div>
</body></html>`

func TestParseResults(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fixtureHTML))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}

	results := ParseResults(doc, 10)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].URL != "https://go.dev/" {
		t.Fatalf("redirect not unwrapped: %q", results[0].URL)
	}
	if results[0].Title != "The Go Programming Language" {
		t.Fatalf("title = %q", results[0].Title)
	}
	if results[0].Snippet != "Build simple, secure, scalable systems." {
		t.Fatalf("snippet = %q", results[0].Snippet)
	}
	if results[1].URL != "https://pkg.go.dev/std" {
		t.Fatalf("plain link mangled: %q", results[1].URL)
	}
}

func TestParseResultsRespectsLimit(t *testing.T) {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(fixtureHTML))
	if got := ParseResults(doc, 2); len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
}

type fixtureTransport struct{}

func (fixtureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(fixtureHTML)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func TestDiscover(t *testing.T) {
	s := Search{Client: &http.Client{Transport: fixtureTransport{}}}
	results, err := s.Discover(context.Background(), "golang", 5)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
}

func TestResolveRedirectPassthrough(t *testing.T) {
	if got := resolveRedirect("https://example.com/page"); got != "https://example.com/page" {
		t.Fatalf("got %q", got)
	}
}
