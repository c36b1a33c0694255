package report

import (
	"regexp"
	"strings"

	"github.com/codebyNJ/AIResearch-Agent/internal/helpers"
)

// sourceURLPattern matches http/https URLs embedded in the rendered response
// text. Trailing punctuation that the character class admits is kept as-is;
// sources are display hints, not validated locations.
var sourceURLPattern = regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)

// ExtractSources scans formatted text for URLs, preserving order of first
// appearance. No deduplication, no normalization.
func ExtractSources(formatted string) []string {
	return sourceURLPattern.FindAllString(formatted, -1)
}

// Analytics summarizes a rendered research result.
type Analytics struct {
	SourcesFound  int `json:"sources_found"`
	ContentLength int `json:"content_length"`
	Sections      int `json:"sections"`
}

// Analyze computes the analysis-tab metrics for a formatted result. The
// section count is the number of "##" occurrences in the text.
func Analyze(formatted string, sources []string) Analytics {
	return Analytics{
		SourcesFound:  len(sources),
		ContentLength: len(formatted),
		Sections:      strings.Count(formatted, "##"),
	}
}

// PreviewLimit is the character budget for inline source previews; longer
// content is truncated with a download affordance.
const PreviewLimit = 1000

// Preview returns at most PreviewLimit bytes of content, cut on a rune
// boundary, and whether it was truncated.
func Preview(content string) (string, bool) {
	if len(content) <= PreviewLimit {
		return content, false
	}
	return helpers.CutAt(content, PreviewLimit) + "...", true
}
