package httpfetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"

	"github.com/codebyNJ/AIResearch-Agent/internal/helpers"
	"github.com/codebyNJ/AIResearch-Agent/tools/web_fetch/models"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; AIResearchAgent/1.0)"

// Fetch retrieves a webpage with a single HTTP GET and converts the body to
// Markdown. Redirect handling is whatever net/http does by default.
type Fetch struct {
	MaxChars  int
	UserAgent string
	Client    *http.Client
}

func New(timeout time.Duration, maxChars int, userAgent string) *Fetch {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Fetch{
		MaxChars:  maxChars,
		UserAgent: userAgent,
		Client:    &http.Client{Timeout: timeout},
	}
}

func (f *Fetch) Exec(ctx context.Context, rawURL string) (models.Result, error) {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return models.Result{}, fmt.Errorf("invalid url: %w", err)
	}
	t0 := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return models.Result{}, err
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.Client.Do(req)
	if err != nil {
		return models.Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.Result{URL: rawURL, Status: resp.StatusCode, FetchMS: sinceMS(t0)},
			fmt.Errorf("unexpected status: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return models.Result{URL: rawURL, Status: resp.StatusCode, FetchMS: sinceMS(t0)}, err
	}
	title := strings.TrimSpace(doc.Find("head title").Text())

	markdown, err := htmltomarkdown.ConvertString(
		extractMainContent(doc),
		converter.WithDomain(fmt.Sprintf("%s://%s", parsed.Scheme, parsed.Host)),
	)
	if err != nil {
		return models.Result{URL: rawURL, Status: resp.StatusCode, FetchMS: sinceMS(t0)}, err
	}
	markdown = strings.TrimSpace(helpers.CollapseBlankLines(markdown))
	if f.MaxChars > 0 && len(markdown) > f.MaxChars {
		markdown = helpers.CutAt(markdown, f.MaxChars)
	}

	return models.Result{
		URL:      rawURL,
		Title:    title,
		Markdown: markdown,
		Status:   resp.StatusCode,
		FetchMS:  sinceMS(t0),
	}, nil
}

// extractMainContent prefers obvious content containers over the full body so
// navigation chrome does not dominate the markdown.
func extractMainContent(doc *goquery.Document) string {
	for _, tag := range []string{"script", "style", "noscript", "nav", "header", "footer"} {
		doc.Find(tag).Remove()
	}
	for _, selector := range []string{"main", "article", "#content", ".content", "body"} {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			if html, err := sel.Html(); err == nil && strings.TrimSpace(html) != "" {
				return html
			}
		}
	}
	html, _ := doc.Html()
	return html
}

func sinceMS(t0 time.Time) int { return int(time.Since(t0) / time.Millisecond) }
