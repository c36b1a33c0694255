package chromedp

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/go-shiori/go-readability"

	"github.com/codebyNJ/AIResearch-Agent/internal/helpers"
	"github.com/codebyNJ/AIResearch-Agent/tools/web_fetch/models"
)

// Fetch renders a page in headless Chrome and extracts the readable article
// text. Useful for script-heavy pages the plain HTTP fetcher cannot read.
type Fetch struct {
	Timeout  time.Duration
	MaxChars int
}

func (f Fetch) Exec(ctx context.Context, rawURL string) (models.Result, error) {
	if strings.TrimSpace(rawURL) == "" {
		return models.Result{}, errors.New("invalid url")
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()
	t0 := time.Now()

	html, err := fetchHTML(ctx, rawURL)
	if err != nil {
		return models.Result{URL: rawURL, Status: 599, FetchMS: sinceMS(t0)}, err
	}

	article, err := readability.FromReader(strings.NewReader(html), mustParseURL(rawURL))
	if err != nil {
		return models.Result{URL: rawURL, Status: 200, FetchMS: sinceMS(t0)}, err
	}
	text := strings.TrimSpace(helpers.CollapseBlankLines(article.TextContent))
	if f.MaxChars > 0 && len(text) > f.MaxChars {
		text = helpers.CutAt(text, f.MaxChars)
	}

	return models.Result{
		URL:      rawURL,
		Title:    strings.TrimSpace(article.Title),
		Markdown: text,
		Status:   200,
		FetchMS:  sinceMS(t0),
	}, nil
}

func fetchHTML(ctx context.Context, url string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent("AIResearchAgent/1.0"),
	)
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	bctx, cancelBrowser := chromedp.NewContext(actx)
	defer cancelBrowser()

	var html string
	err := chromedp.Run(bctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	return html, err
}

func mustParseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		return &url.URL{}
	}
	return u
}

func sinceMS(t0 time.Time) int { return int(time.Since(t0) / time.Millisecond) }
