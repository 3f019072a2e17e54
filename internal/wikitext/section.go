package wikitext

// Section is a heading plus everything up to the next heading of equal or
// lower level. It is a read-only window into the parsed source.
type Section struct {
	code  *Wikicode
	first int // index of the section's own heading
	last  int // index one past the last nested heading
	start int
	end   int
}

// Heading returns the section's own heading.
func (s Section) Heading() Heading { return s.code.headings[s.first] }

// Level is the heading level of the section.
func (s Section) Level() int { return s.Heading().Level }

// Start is the offset of the section in the source text.
func (s Section) Start() int { return s.start }

// End is the offset just past the section.
func (s Section) End() int { return s.end }

// String returns the full text of the section, nested sections included.
func (s Section) String() string { return s.code.src[s.start:s.end] }

// Headings returns the section's own heading followed by all nested
// headings in document order.
func (s Section) Headings() []Heading {
	out := make([]Heading, s.last-s.first)
	copy(out, s.code.headings[s.first:s.last])
	return out
}

// Children returns the immediate subsections. A nested heading is an
// immediate child when no heading between it and the section heading has a
// lower level, so skipped levels (== A == followed by ==== B ====) still
// nest under A.
func (s Section) Children() []Section {
	var out []Section
	lowest := maxHeadingLevel + 1
	for k := s.first + 1; k < s.last; k++ {
		lvl := s.code.headings[k].Level
		if lvl <= lowest {
			out = append(out, s.code.section(k))
			lowest = lvl
		}
	}
	return out
}
