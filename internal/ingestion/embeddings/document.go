package embeddings

import (
	"strings"
	"unicode/utf8"
)

const maxInputChars = 6000

// BuildInput prepares a section document for embedding: the breadcrumb
// line first so short bodies keep their context, content capped.
func BuildInput(title, content string) string {
	var builder strings.Builder
	if title != "" {
		builder.WriteString(title)
		builder.WriteString("\n\n")
	}
	builder.WriteString(truncate(strings.TrimSpace(content), maxInputChars))
	return builder.String()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
