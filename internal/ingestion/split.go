package ingestion

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/roivaz/klikinsaastaja/internal/logging"
	"github.com/roivaz/klikinsaastaja/internal/wiki"
)

// part is one embeddable slice of a section document.
type part struct {
	content string
	index   int
	total   int
	tokens  int
}

// mdSplitter wraps langchaingo's RecursiveCharacter splitter with markdown-aware separators.
type mdSplitter struct {
	s         textsplitter.RecursiveCharacter
	maxTokens int
	log       logging.Logger
}

func newSplitter(maxTokens, overlapTokens int, log logging.Logger) mdSplitter {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	if overlapTokens < 0 || overlapTokens >= maxTokens {
		overlapTokens = 0
	}
	return mdSplitter{
		s: textsplitter.NewRecursiveCharacter(
			textsplitter.WithSeparators([]string{
				"\n\n", // paragraphs
				"\n- ", // lists
				"\n",
				". ",
				"",
			}),
			textsplitter.WithChunkSize(maxTokens*approxCharsPerToken),
			textsplitter.WithChunkOverlap(overlapTokens*approxCharsPerToken),
		),
		maxTokens: maxTokens,
		log:       log,
	}
}

// split keeps documents within the token budget. Every part repeats the
// document's heading lines so it can be read on its own.
func (m mdSplitter) split(doc wiki.Document) []part {
	tokens := estimateTokens(doc.Content)
	if tokens <= m.maxTokens {
		return []part{{content: doc.Content, index: 0, total: 1, tokens: tokens}}
	}

	whole := []part{{content: doc.Content, index: 0, total: 1, tokens: tokens}}
	headings, body := splitHeadings(doc.Content, breadcrumbDepth(doc))
	pieces, err := m.s.SplitText(body)
	if err != nil {
		m.log.Error(err, "splitText failed; indexing the document whole", "title", doc.Title())
		return whole
	}

	out := make([]part, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		out = append(out, part{content: piece, index: len(out)})
	}
	if len(out) == 0 {
		m.log.Info("splitter produced no text; indexing the document whole", "title", doc.Title())
		return whole
	}
	for i := range out {
		out[i].total = len(out)
		out[i].content = annotatePart(headings, out[i].content, i, len(out))
		out[i].tokens = estimateTokens(out[i].content)
	}
	m.log.Debug("split document", "title", doc.Title(), "tokens", tokens, "parts", len(out))
	return out
}

// breadcrumbDepth is the number of heading lines the assembler wrote for doc.
func breadcrumbDepth(doc wiki.Document) int {
	title := doc.Title()
	if title == "" {
		return 0
	}
	return strings.Count(title, " > ") + 1
}

// splitHeadings separates at most n leading '#' lines from the body, so
// body text starting with '#' stays in the body.
func splitHeadings(content string, n int) (string, string) {
	lines := strings.Split(content, "\n")
	i := 0
	for i < n && i < len(lines) && strings.HasPrefix(lines[i], "#") {
		i++
	}
	return strings.Join(lines[:i], "\n"), strings.Join(lines[i:], "\n")
}

func annotatePart(headings, content string, index, total int) string {
	var b strings.Builder
	if headings != "" {
		b.WriteString(headings)
		b.WriteByte('\n')
	}
	if total > 1 {
		b.WriteString(fmt.Sprintf("(%d/%d)\n", index+1, total))
	}
	b.WriteString(content)
	return b.String()
}
