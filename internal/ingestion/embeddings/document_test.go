package embeddings

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildInput(t *testing.T) {
	got := BuildInput("A > B", "  body  ")
	if got != "A > B\n\nbody" {
		t.Fatalf("unexpected input %q", got)
	}
	if BuildInput("", "x") != "x" {
		t.Fatalf("expected bare content without title")
	}
	long := BuildInput("", strings.Repeat("ä", maxInputChars+10))
	if utf8.RuneCountInString(long) != maxInputChars {
		t.Fatalf("expected truncation to %d runes", maxInputChars)
	}
}
