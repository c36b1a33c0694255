package helpers

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCollapseBlankLines(t *testing.T) {
	in := "a\n\n\n\nb\n\n\nc\n\nd"
	got := CollapseBlankLines(in)
	if strings.Contains(got, "\n\n\n") {
		t.Fatalf("blank line run survived: %q", got)
	}
	if got != "a\n\nb\n\nc\n\nd" {
		t.Fatalf("got %q", got)
	}
}

func TestCollapseBlankLinesNoop(t *testing.T) {
	in := "a\nb\n\nc"
	if got := CollapseBlankLines(in); got != in {
		t.Fatalf("got %q, want input unchanged", got)
	}
}

func TestCutAt(t *testing.T) {
	if got := CutAt("hello", 10); got != "hello" {
		t.Fatalf("short string mangled: %q", got)
	}
	if got := CutAt("hello", 3); got != "hel" {
		t.Fatalf("got %q", got)
	}
	if got := CutAt("hello", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestCutAtKeepsRunesWhole(t *testing.T) {
	// "é" is 2 bytes; a cut at byte 4 lands mid-rune and must back up
	in := "cafés"
	got := CutAt(in, 4)
	if got != "caf" {
		t.Fatalf("got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("invalid UTF-8: %q", got)
	}
	if got := CutAt(in, 5); got != "café" {
		t.Fatalf("got %q", got)
	}
}
