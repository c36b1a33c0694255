package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

const pageHTML = `<html>
<head><title>Release Notes</title><script>console.log("noise")</script></head>
<body>
<nav>Home | About</nav>
<article>
<h1>Go 1.24</h1>


<p>The latest release adds <a href="/doc/go1.24">improvements</a>.</p>
</article>
<footer>copyright</footer>
</body>
</html>`

func TestExecConvertsToMarkdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(pageHTML))
	}))
	defer srv.Close()

	f := New(5*time.Second, 0, "")
	res, err := f.Exec(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if res.Title != "Release Notes" {
		t.Fatalf("title = %q", res.Title)
	}
	if res.Status != http.StatusOK {
		t.Fatalf("status = %d", res.Status)
	}
	if !strings.Contains(res.Markdown, "Go 1.24") {
		t.Fatalf("markdown missing heading text:\n%s", res.Markdown)
	}
	if strings.Contains(res.Markdown, "console.log") {
		t.Fatalf("script leaked into markdown:\n%s", res.Markdown)
	}
	if strings.Contains(res.Markdown, "Home | About") {
		t.Fatalf("navigation leaked into markdown:\n%s", res.Markdown)
	}
	if strings.Contains(res.Markdown, "\n\n\n") {
		t.Fatalf("blank line run in markdown:\n%q", res.Markdown)
	}
}

func TestExecTruncatesToMaxChars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>" + strings.Repeat("word ", 500) + "</p></body></html>"))
	}))
	defer srv.Close()

	f := New(5*time.Second, 100, "")
	res, err := f.Exec(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if len(res.Markdown) > 100 {
		t.Fatalf("markdown length = %d, want <= 100", len(res.Markdown))
	}
}

func TestExecTruncationKeepsRunesWhole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>" + strings.Repeat("é", 200) + "</p></body></html>"))
	}))
	defer srv.Close()

	f := New(5*time.Second, 101, "")
	res, err := f.Exec(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if !utf8.ValidString(res.Markdown) {
		t.Fatalf("truncated markdown is invalid UTF-8")
	}
	if len(res.Markdown) > 101 {
		t.Fatalf("markdown length = %d", len(res.Markdown))
	}
}

func TestExecNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(5*time.Second, 0, "")
	res, err := f.Exec(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !strings.Contains(err.Error(), "unexpected status") {
		t.Fatalf("err = %v", err)
	}
	if res.Status != http.StatusNotFound {
		t.Fatalf("status = %d", res.Status)
	}
}

func TestExecInvalidURL(t *testing.T) {
	f := New(time.Second, 0, "")
	if _, err := f.Exec(context.Background(), "not a url"); err == nil {
		t.Fatal("expected error for invalid url")
	}
}

func TestExecSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><body><p>hi</p></body></html>"))
	}))
	defer srv.Close()

	f := New(time.Second, 0, "research-bot/2.0")
	if _, err := f.Exec(context.Background(), srv.URL); err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if gotUA != "research-bot/2.0" {
		t.Fatalf("user agent = %q", gotUA)
	}
}
