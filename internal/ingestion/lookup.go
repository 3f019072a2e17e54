package ingestion

import (
	"context"
	"fmt"
	"strings"

	"github.com/roivaz/klikinsaastaja/internal/agent"
	"github.com/roivaz/klikinsaastaja/internal/db"
	"github.com/roivaz/klikinsaastaja/internal/logging"
	"github.com/roivaz/klikinsaastaja/internal/wiki"
)

type SectionSearcher interface {
	SearchSections(ctx context.Context, embedding []float32, model, lang string, limit int) ([]db.SectionSearchRow, error)
}

// Match is a stored section close to a query.
type Match struct {
	Title      string  `json:"title"`
	PageTitle  string  `json:"page_title"`
	Lang       string  `json:"lang"`
	Content    string  `json:"content"`
	SourceURL  string  `json:"source_url,omitempty"`
	Similarity float64 `json:"similarity"`
}

type GroupMatches struct {
	Group   agent.InterestGroup `json:"group"`
	Matches []Match             `json:"matches"`
}

type Lookup struct {
	searcher SectionSearcher
	client   EmbeddingClient
	model    string
	limit    int
	log      logging.Logger
}

// NewLookup searches only sections embedded with model, the model client
// embeds queries with; vectors of other models are not comparable.
func NewLookup(searcher SectionSearcher, client EmbeddingClient, model string, limit int, log logging.Logger) *Lookup {
	if limit <= 0 {
		limit = 4
	}
	return &Lookup{searcher: searcher, client: client, model: model, limit: limit, log: log.WithName("lookup")}
}

// Search embeds query and returns the nearest sections. An empty lang
// searches all languages; a non-positive limit uses the default.
func (l *Lookup) Search(ctx context.Context, query, lang string, limit int) ([]Match, error) {
	if strings.TrimSpace(query) == "" {
		return []Match{}, nil
	}
	if limit <= 0 {
		limit = l.limit
	}
	vectors, err := l.client.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return []Match{}, nil
	}

	rows, err := l.searcher.SearchSections(ctx, vectors[0], l.model, wiki.NormalizeLocale(lang), limit)
	if err != nil {
		return nil, fmt.Errorf("search sections: %w", err)
	}
	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		m := Match{
			Title:      row.Title,
			PageTitle:  row.PageTitle,
			Lang:       row.Lang,
			Content:    row.Content,
			Similarity: row.Similarity(),
		}
		if row.SourceURL != nil {
			m.SourceURL = *row.SourceURL
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// Groups runs the rag query of every group against its language.
func (l *Lookup) Groups(ctx context.Context, groups []agent.InterestGroup) ([]GroupMatches, error) {
	out := make([]GroupMatches, 0, len(groups))
	for _, g := range groups {
		query := g.RAGQuery
		if strings.TrimSpace(query) == "" {
			query = g.Name
		}
		matches, err := l.Search(ctx, query, g.Lang, l.limit)
		if err != nil {
			return nil, fmt.Errorf("lookup %q: %w", g.Name, err)
		}
		l.log.Debug("looked up group", "group", g.Name, "matches", len(matches))
		out = append(out, GroupMatches{Group: g, Matches: matches})
	}
	return out, nil
}
