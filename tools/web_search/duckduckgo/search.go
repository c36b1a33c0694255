package duckduckgo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/codebyNJ/AIResearch-Agent/tools/web_search/models"
)

const endpoint = "https://html.duckduckgo.com/html/"

const userAgent = "Mozilla/5.0 (compatible; AIResearchAgent/1.0)"

// Search queries the DuckDuckGo HTML endpoint. No API key required.
type Search struct {
	Timeout time.Duration
	Client  *http.Client
}

func (s Search) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	form := url.Values{"q": {q}}
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	client := s.Client
	if client == nil {
		timeout := s.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("duckduckgo status %d: %s", resp.StatusCode, string(b))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	return ParseResults(doc, k), nil
}

// ParseResults extracts organic results from a DuckDuckGo HTML results page.
func ParseResults(doc *goquery.Document, k int) []models.Result {
	var out []models.Result
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if k > 0 && len(out) >= k {
			return false
		}
		link := sel.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return true
		}
		out = append(out, models.Result{
			Title:   strings.TrimSpace(link.Text()),
			URL:     resolveRedirect(href),
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
		})
		return true
	})
	return out
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links into the
// destination URL. Plain links pass through untouched.
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if uddg := parsed.Query().Get("uddg"); uddg != "" {
		if dest, err := url.QueryUnescape(uddg); err == nil {
			return dest
		}
	}
	return href
}
