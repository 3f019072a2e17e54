package wiki

import (
	"errors"
	"strings"
	"testing"

	"github.com/roivaz/klikinsaastaja/internal/logging"
	"github.com/roivaz/klikinsaastaja/internal/wikitext"
)

func topSections(t *testing.T, text string) []wikitext.Section {
	t.Helper()
	code, err := wikitext.Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return code.Sections(2)
}

func TestCleanTitle(t *testing.T) {
	cases := map[string]string{
		" History ":    "History",
		"= History =":  "History",
		"\tSee also  ": "See also",
		"Rock = Roll":  "Rock = Roll",
		"":             "",
		"==":           "",
	}
	for in, want := range cases {
		if got := CleanTitle(in); got != want {
			t.Errorf("CleanTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBreadcrumb_ExtendDoesNotAlias(t *testing.T) {
	root := make(Breadcrumb, 1, 4)
	root[0] = "Page"
	a := root.Extend("A")
	b := root.Extend("B")
	if a.String() != "Page > A" || b.String() != "Page > B" {
		t.Fatalf("unexpected breadcrumbs %q %q", a, b)
	}
}

func TestDecompose_NestedOrder(t *testing.T) {
	text := `== History ==
Intro.
=== Medieval ===
Old.
==== Runes ====
Carved.
=== Modern ===
New.
`
	d := NewDecomposer(NewFilter(DefaultLocales()), logging.Discard())
	chunks, err := d.Decompose(topSections(t, text)[0], Breadcrumb{"Page"})
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	want := []struct {
		crumb string
		body  string
	}{
		{"Page > History", "\nIntro.\n"},
		{"Page > History > Medieval", "\nOld.\n"},
		{"Page > History > Medieval > Runes", "\nCarved.\n"},
		{"Page > History > Modern", "\nNew.\n"},
	}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		if chunks[i].Breadcrumb.String() != w.crumb {
			t.Errorf("chunk %d breadcrumb %q, want %q", i, chunks[i].Breadcrumb, w.crumb)
		}
		if chunks[i].BodyText != w.body {
			t.Errorf("chunk %d body %q, want %q", i, chunks[i].BodyText, w.body)
		}
	}
}

func TestDecompose_BoilerplateDropsSubtree(t *testing.T) {
	text := `== See also ==
Links.
=== More ===
Even more.
`
	d := NewDecomposer(NewFilter(DefaultLocales()), logging.Discard())
	chunks, err := d.Decompose(topSections(t, text)[0], Breadcrumb{"Page"})
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
}

func TestDecompose_BoilerplateChildOnly(t *testing.T) {
	text := `== Works ==
Novels.
=== Notes ===
Skip me.
=== Poetry ===
Verse.
`
	d := NewDecomposer(NewFilter(DefaultLocales()), logging.Discard())
	chunks, err := d.Decompose(topSections(t, text)[0], Breadcrumb{"Page"})
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1].Breadcrumb.String() != "Page > Works > Poetry" {
		t.Fatalf("unexpected breadcrumb %q", chunks[1].Breadcrumb)
	}
}

func TestDecompose_DeepBoilerplateDropsDescendants(t *testing.T) {
	text := `== Works ==
Novels.
=== Poetry ===
Verse.
=== Notes ===
Skip me.
==== Sub ====
Skip me too.
===== Deeper =====
Gone.
=== Plays ===
Drama.
`
	d := NewDecomposer(NewFilter(DefaultLocales()), logging.Discard())
	chunks, err := d.Decompose(topSections(t, text)[0], Breadcrumb{"Page"})
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	want := []string{"Page > Works", "Page > Works > Poetry", "Page > Works > Plays"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %+v", len(want), len(chunks), chunks)
	}
	for i, w := range want {
		if chunks[i].Breadcrumb.String() != w {
			t.Errorf("chunk %d breadcrumb %q, want %q", i, chunks[i].Breadcrumb, w)
		}
		if strings.Contains(chunks[i].BodyText, "Skip") || strings.Contains(chunks[i].BodyText, "Gone") {
			t.Errorf("chunk %d leaked boilerplate text: %q", i, chunks[i].BodyText)
		}
	}
}

func TestDecompose_EqualsPrefixedLineStaysInBody(t *testing.T) {
	text := "== History ==\nIntro.\n=x where x is the answer\n==History== trailing\nMore history.\n=== Child ===\nKid.\n"
	d := NewDecomposer(NewFilter(DefaultLocales()), logging.Discard())
	chunks, err := d.Decompose(topSections(t, text)[0], Breadcrumb{"Page"})
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %+v", len(chunks), chunks)
	}
	wantBody := "\nIntro.\n=x where x is the answer\n==History== trailing\nMore history.\n"
	if chunks[0].BodyText != wantBody {
		t.Fatalf("History body %q, want %q", chunks[0].BodyText, wantBody)
	}
	if chunks[1].Breadcrumb.String() != "Page > History > Child" || chunks[1].BodyText != "\nKid.\n" {
		t.Fatalf("unexpected child chunk %+v", chunks[1])
	}
}

func TestDecompose_EmptyBody(t *testing.T) {
	text := "== Empty ==\n=== Child ===\nText.\n"
	d := NewDecomposer(nil, logging.Discard())
	chunks, err := d.Decompose(topSections(t, text)[0], Breadcrumb{"Page"})
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}
	if len(chunks) != 2 || chunks[0].BodyText != "\n" {
		t.Fatalf("unexpected chunks %+v", chunks)
	}
}

func TestMalformedMarkupError(t *testing.T) {
	var err error = &MalformedMarkupError{Breadcrumb: Breadcrumb{"Page", "A"}, Heading: "== A ==", Offset: 7}
	if !errors.Is(err, ErrMalformedMarkup) {
		t.Fatalf("expected ErrMalformedMarkup")
	}
	var mm *MalformedMarkupError
	if !errors.As(err, &mm) || mm.Offset != 7 {
		t.Fatalf("expected typed error")
	}
}
