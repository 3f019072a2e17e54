package wiki

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/schema"

	"github.com/roivaz/klikinsaastaja/internal/logging"
	"github.com/roivaz/klikinsaastaja/internal/wikitext"
)

// Sections of this level start the decomposition.
const topSectionLevel = 2

// RawPage is one loaded page before decomposition.
type RawPage struct {
	Title     string
	Summary   string
	RawMarkup string
	Metadata  map[string]any
}

// Document is the unit handed to indexing.
type Document struct {
	Content  string
	Metadata map[string]any
}

// Title returns the metadata title (the breadcrumb for section documents).
func (d Document) Title() string {
	t, _ := d.Metadata["title"].(string)
	return t
}

// Schema converts the document for langchaingo consumers.
func (d Document) Schema() schema.Document {
	return schema.Document{PageContent: d.Content, Metadata: cloneMetadata(d.Metadata)}
}

// Assembler turns raw pages into ordered documents.
type Assembler struct {
	decomposer *Decomposer
}

func NewAssembler(filter *Filter, log logging.Logger) *Assembler {
	return &Assembler{decomposer: NewDecomposer(filter, log)}
}

// Assemble emits the summary document followed by one document per section
// chunk. Parser and decomposition failures are returned as is; no partial
// output is produced for the page.
func (a *Assembler) Assemble(page RawPage) ([]Document, error) {
	docs := []Document{{
		Content:  fmt.Sprintf("# %s\n%s", page.Title, page.Summary),
		Metadata: withTitle(page.Metadata, page.Title),
	}}

	code, err := wikitext.Parse(page.RawMarkup)
	if err != nil {
		return nil, fmt.Errorf("parse page %q: %w", page.Title, err)
	}

	root := Breadcrumb{page.Title}
	for _, section := range code.Sections(topSectionLevel) {
		chunks, err := a.decomposer.Decompose(section, root)
		if err != nil {
			return nil, fmt.Errorf("decompose page %q: %w", page.Title, err)
		}
		for _, c := range chunks {
			docs = append(docs, Document{
				Content:  RenderChunk(c),
				Metadata: withTitle(page.Metadata, c.Breadcrumb.String()),
			})
		}
	}
	return docs, nil
}

// RenderChunk writes one heading line per breadcrumb element, deeper
// elements getting more '#', then the body. The result is trimmed.
func RenderChunk(c Chunk) string {
	var b strings.Builder
	for i, title := range c.Breadcrumb {
		b.WriteString(strings.Repeat("#", i+1))
		b.WriteByte(' ')
		b.WriteString(title)
		b.WriteByte('\n')
	}
	b.WriteString(strings.TrimSpace(c.BodyText))
	return strings.TrimSpace(b.String())
}

func withTitle(meta map[string]any, title string) map[string]any {
	out := cloneMetadata(meta)
	out["title"] = title
	return out
}

func cloneMetadata(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	return out
}
