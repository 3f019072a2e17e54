// Package wikitext exposes the heading structure of wiki-markup text.
//
// The parser never rewrites its input. It records where each heading line
// starts and ends so callers can slice section text by offset instead of
// searching for marker strings.
package wikitext

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxHeadingLevel = 6

var ErrParse = errors.New("wikitext parse failure")

// ParseError reports input the parser refuses to build a tree from.
type ParseError struct {
	Offset int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("wikitext: %s at offset %d", e.Reason, e.Offset)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Heading is a single heading line.
type Heading struct {
	Level int
	Title string // text between the markers, untrimmed
	Raw   string // the heading line as written
	Start int    // offset of the first '='
	End   int    // offset just past the line, newline excluded
}

// Wikicode is an immutable view over parsed markup.
type Wikicode struct {
	src      string
	headings []Heading
}

type span struct{ start, end int }

// Parse scans text for headings. Lines inside HTML comments are never
// headings; comments trailing a heading line are ignored when matching.
func Parse(text string) (*Wikicode, error) {
	if !utf8.ValidString(text) {
		return nil, &ParseError{Offset: firstInvalidByte(text), Reason: "invalid utf-8"}
	}
	comments, err := findComments(text)
	if err != nil {
		return nil, err
	}

	code := &Wikicode{src: text}
	for start := 0; start < len(text); {
		end := strings.IndexByte(text[start:], '\n')
		next := len(text)
		if end < 0 {
			end = len(text)
		} else {
			end += start
			next = end + 1
		}
		lineEnd := end
		if lineEnd > start && text[lineEnd-1] == '\r' {
			lineEnd--
		}
		if !inside(comments, start) {
			if h, ok := matchHeading(text, start, lineEnd, comments); ok {
				code.headings = append(code.headings, h)
			}
		}
		start = next
	}
	return code, nil
}

// String returns the source text.
func (w *Wikicode) String() string { return w.src }

// Headings returns every heading in document order.
func (w *Wikicode) Headings() []Heading {
	out := make([]Heading, len(w.headings))
	copy(out, w.headings)
	return out
}

// Sections returns one section per heading of exactly the given level.
func (w *Wikicode) Sections(level int) []Section {
	var out []Section
	for i, h := range w.headings {
		if h.Level == level {
			out = append(out, w.section(i))
		}
	}
	return out
}

// section builds the span owned by heading i: up to the next heading of
// equal or lower level, or the end of the text.
func (w *Wikicode) section(i int) Section {
	own := w.headings[i]
	last := len(w.headings)
	for k := i + 1; k < len(w.headings); k++ {
		if w.headings[k].Level <= own.Level {
			last = k
			break
		}
	}
	end := len(w.src)
	if last < len(w.headings) {
		end = w.headings[last].Start
	}
	return Section{code: w, first: i, last: last, start: own.Start, end: end}
}

func matchHeading(text string, start, end int, comments []span) (Heading, bool) {
	if start >= end || text[start] != '=' {
		return Heading{}, false
	}
	line := stripComments(text, start, end, comments)
	line = strings.TrimRight(line, " \t")
	if strings.Trim(line, "=") == "" {
		return Heading{}, false
	}
	lead := len(line) - len(strings.TrimLeft(line, "="))
	trail := len(line) - len(strings.TrimRight(line, "="))
	// Both ends need a marker run; "=x is the answer" is body text.
	if lead == 0 || trail == 0 {
		return Heading{}, false
	}
	level := min(lead, trail, maxHeadingLevel)
	return Heading{
		Level: level,
		Title: line[level : len(line)-level],
		Raw:   text[start:end],
		Start: start,
		End:   end,
	}, true
}

func stripComments(text string, start, end int, comments []span) string {
	var b strings.Builder
	pos := start
	for _, c := range comments {
		if c.end <= pos || c.start >= end {
			continue
		}
		b.WriteString(text[pos:c.start])
		if c.end >= end {
			return b.String()
		}
		pos = c.end
	}
	b.WriteString(text[pos:end])
	return b.String()
}

func findComments(text string) ([]span, error) {
	var out []span
	for pos := 0; ; {
		i := strings.Index(text[pos:], "<!--")
		if i < 0 {
			return out, nil
		}
		open := pos + i
		j := strings.Index(text[open+4:], "-->")
		if j < 0 {
			return nil, &ParseError{Offset: open, Reason: "unterminated comment"}
		}
		closeEnd := open + 4 + j + 3
		out = append(out, span{start: open, end: closeEnd})
		pos = closeEnd
	}
}

func inside(spans []span, offset int) bool {
	for _, s := range spans {
		if offset >= s.start && offset < s.end {
			return true
		}
		if s.start > offset {
			break
		}
	}
	return false
}

func firstInvalidByte(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(s)
}
