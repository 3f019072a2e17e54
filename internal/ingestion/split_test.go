package ingestion

import (
	"strings"
	"testing"

	"github.com/roivaz/klikinsaastaja/internal/logging"
	"github.com/roivaz/klikinsaastaja/internal/wiki"
)

func withCharTokens(t *testing.T) {
	t.Helper()
	old := estimateTokensFunc
	estimateTokensFunc = func(text string) int { return len(text) / approxCharsPerToken }
	t.Cleanup(func() { estimateTokensFunc = old })
}

func TestSplit_SmallDocumentUntouched(t *testing.T) {
	withCharTokens(t)
	s := newSplitter(100, 10, logging.Discard())
	doc := wiki.Document{Content: "# A\n## B\nshort", Metadata: map[string]any{"title": "A > B"}}
	parts := s.split(doc)
	if len(parts) != 1 || parts[0].content != doc.Content || parts[0].total != 1 {
		t.Fatalf("unexpected parts %+v", parts)
	}
}

func TestSplit_LargeDocumentKeepsHeadings(t *testing.T) {
	withCharTokens(t)
	var paragraphs []string
	for i := 0; i < 20; i++ {
		paragraphs = append(paragraphs, strings.Repeat("sana ", 30))
	}
	doc := wiki.Document{
		Content:  "# Sivu\n## Historia\n" + strings.Join(paragraphs, "\n\n"),
		Metadata: map[string]any{"title": "Sivu > Historia"},
	}
	s := newSplitter(64, 8, logging.Discard())
	parts := s.split(doc)
	if len(parts) < 2 {
		t.Fatalf("expected several parts, got %d", len(parts))
	}
	for i, p := range parts {
		if !strings.HasPrefix(p.content, "# Sivu\n## Historia\n") {
			t.Fatalf("part %d lost headings: %q", i, p.content[:20])
		}
		if p.index != i || p.total != len(parts) {
			t.Fatalf("part %d has index %d/%d", i, p.index, p.total)
		}
	}
}

func TestSplitHeadings(t *testing.T) {
	h, body := splitHeadings("# A\n## B\ntext\n# not heading", 2)
	if h != "# A\n## B" || body != "text\n# not heading" {
		t.Fatalf("unexpected split %q %q", h, body)
	}
}

func TestSplit_HashBodyLineIsNotRepeated(t *testing.T) {
	withCharTokens(t)
	var paragraphs []string
	for i := 0; i < 20; i++ {
		paragraphs = append(paragraphs, strings.Repeat("sana ", 30))
	}
	doc := wiki.Document{
		Content:  "# Sivu\n## Listat\n#1 kärkisijalla\n" + strings.Join(paragraphs, "\n\n"),
		Metadata: map[string]any{"title": "Sivu > Listat"},
	}
	parts := newSplitter(64, 8, logging.Discard()).split(doc)
	if len(parts) < 2 {
		t.Fatalf("expected several parts, got %d", len(parts))
	}
	for i, p := range parts[1:] {
		if strings.Contains(p.content, "#1 kärkisijalla") {
			t.Fatalf("part %d repeats a body line as heading: %q", i+1, p.content)
		}
	}
	if !strings.Contains(parts[0].content, "#1 kärkisijalla") {
		t.Fatalf("first part lost the body line: %q", parts[0].content)
	}
}

func TestSplit_WhitespaceOnlyBodyIndexedWhole(t *testing.T) {
	old := estimateTokensFunc
	estimateTokensFunc = func(string) int { return 1000 }
	t.Cleanup(func() { estimateTokensFunc = old })
	doc := wiki.Document{
		Content:  "# Sivu\n## Tyhjä\n \n\n\t\n",
		Metadata: map[string]any{"title": "Sivu > Tyhjä"},
	}
	parts := newSplitter(64, 8, logging.Discard()).split(doc)
	if len(parts) != 1 || parts[0].content != doc.Content || parts[0].total != 1 {
		t.Fatalf("expected the whole document as one part, got %+v", parts)
	}
}
