package ingestion

import (
	"context"
	"testing"

	"github.com/roivaz/klikinsaastaja/internal/agent"
	"github.com/roivaz/klikinsaastaja/internal/db"
	"github.com/roivaz/klikinsaastaja/internal/logging"
)

type fakeSearcher struct {
	model string
	lang  string
	limit int
	rows  []db.SectionSearchRow
}

func (f *fakeSearcher) SearchSections(_ context.Context, _ []float32, model, lang string, limit int) ([]db.SectionSearchRow, error) {
	f.model = model
	f.lang = lang
	f.limit = limit
	return f.rows, nil
}

func TestLookup_Search(t *testing.T) {
	src := "https://fi.wikipedia.org/wiki/SAK"
	searcher := &fakeSearcher{rows: []db.SectionSearchRow{{
		WikiSection: db.WikiSection{Title: "SAK > Historia", PageTitle: "SAK", Lang: "fi", Content: "# SAK", SourceURL: &src},
		Distance:    0.5,
	}}}
	l := NewLookup(searcher, &fakeEmbedder{}, "nomic-embed-text", 3, logging.Discard())

	matches, err := l.Search(context.Background(), "ammattiliitot", "fi_FI", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if searcher.model != "nomic-embed-text" || searcher.lang != "fi" || searcher.limit != 3 {
		t.Fatalf("unexpected search args %q %q %d", searcher.model, searcher.lang, searcher.limit)
	}
	if len(matches) != 1 || matches[0].Similarity != 0.75 || matches[0].SourceURL != src {
		t.Fatalf("unexpected matches %+v", matches)
	}

	empty, err := l.Search(context.Background(), "  ", "", 0)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no matches for blank query")
	}
}

func TestLookup_GroupsUsesRAGQuery(t *testing.T) {
	searcher := &fakeSearcher{}
	l := NewLookup(searcher, &fakeEmbedder{}, "mxbai-embed-large", 2, logging.Discard())
	out, err := l.Groups(context.Background(), []agent.InterestGroup{{Name: "SAK", Lang: "fi", RAGQuery: "SAK lakko"}})
	if err != nil {
		t.Fatalf("groups: %v", err)
	}
	if len(out) != 1 || out[0].Group.Name != "SAK" || searcher.lang != "fi" || searcher.model != "mxbai-embed-large" {
		t.Fatalf("unexpected result %+v", out)
	}
}
