package models

// Result is the outcome of fetching a webpage and converting it to Markdown.
type Result struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
	Status   int    `json:"status"`
	FetchMS  int    `json:"fetch_ms"`
}
