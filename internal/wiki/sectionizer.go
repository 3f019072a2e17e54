package wiki

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roivaz/klikinsaastaja/internal/logging"
	"github.com/roivaz/klikinsaastaja/internal/wikitext"
)

const breadcrumbSeparator = " > "

var ErrMalformedMarkup = errors.New("malformed markup")

// MalformedMarkupError means a heading was not found where the parser
// reported it, so the section body cannot be isolated safely.
type MalformedMarkupError struct {
	Breadcrumb Breadcrumb
	Heading    string
	Offset     int
}

func (e *MalformedMarkupError) Error() string {
	return fmt.Sprintf("malformed markup in %q: heading %q not found at offset %d", e.Breadcrumb.String(), e.Heading, e.Offset)
}

func (e *MalformedMarkupError) Is(target error) bool { return target == ErrMalformedMarkup }

// Breadcrumb is the heading path from the page title down to a section.
type Breadcrumb []string

// Extend returns a copy of b with title appended.
func (b Breadcrumb) Extend(title string) Breadcrumb {
	out := make(Breadcrumb, len(b), len(b)+1)
	copy(out, b)
	return append(out, title)
}

func (b Breadcrumb) String() string { return strings.Join(b, breadcrumbSeparator) }

// Chunk is the text that belongs to one section, excluding its subsections.
type Chunk struct {
	Breadcrumb Breadcrumb
	BodyText   string
}

// CleanTitle strips heading markers and surrounding whitespace.
func CleanTitle(title string) string {
	return strings.Trim(title, "= \t")
}

// Decomposer flattens a section tree into chunks.
type Decomposer struct {
	filter *Filter
	log    logging.Logger
}

func NewDecomposer(filter *Filter, log logging.Logger) *Decomposer {
	return &Decomposer{filter: filter, log: log.WithName("decomposer")}
}

// Decompose returns the chunks rooted at section: its own preamble first,
// then each subsection depth-first in source order. Boilerplate sections
// yield nothing, subsections included.
func (d *Decomposer) Decompose(section wikitext.Section, parent Breadcrumb) ([]Chunk, error) {
	headings := section.Headings()
	if len(headings) == 0 {
		return nil, nil
	}

	cleaned := CleanTitle(headings[0].Title)
	if d.filter.Ignored(cleaned) {
		d.log.Debug("ignoring section", "title", cleaned)
		return nil, nil
	}

	titles := parent.Extend(cleaned)
	body, err := ownBody(section, headings, titles)
	if err != nil {
		return nil, err
	}
	d.log.Debug("found section", "titles", titles.String(), "subsections", len(headings)-1)

	chunks := []Chunk{{Breadcrumb: titles, BodyText: body}}
	if len(headings) == 1 {
		return chunks, nil
	}
	for _, child := range section.Children() {
		sub, err := d.Decompose(child, titles)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, sub...)
	}
	return chunks, nil
}

// ownBody slices the text after the section heading and before the first
// nested heading, checking both headings sit at their reported offsets.
func ownBody(section wikitext.Section, headings []wikitext.Heading, titles Breadcrumb) (string, error) {
	text := section.String()
	own := headings[0]
	if own.Start != section.Start() || !strings.HasPrefix(text, own.Raw) {
		return "", &MalformedMarkupError{Breadcrumb: titles, Heading: own.Raw, Offset: own.Start}
	}
	from := len(own.Raw)
	if len(headings) == 1 {
		return text[from:], nil
	}
	next := headings[1]
	to := next.Start - section.Start()
	if to < from || to > len(text) || !strings.HasPrefix(text[to:], next.Raw) {
		return "", &MalformedMarkupError{Breadcrumb: titles, Heading: next.Raw, Offset: next.Start}
	}
	return text[from:to], nil
}
