package helpers

import (
	"regexp"
	"unicode/utf8"
)

var blankLineRuns = regexp.MustCompile(`\n{3,}`)

// CollapseBlankLines collapses runs of 3+ consecutive newlines to exactly 2,
// so converted markdown never carries large vertical gaps.
func CollapseBlankLines(s string) string {
	return blankLineRuns.ReplaceAllString(s, "\n\n")
}

// CutAt truncates s to at most n bytes, backing up so a multi-byte rune is
// never split.
func CutAt(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
