package db

import (
	"context"
	"fmt"

	pgvector "github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"
)

type SearchRepository struct {
	db *bun.DB
}

type SectionSearchRow struct {
	WikiSection `bun:",extend"`
	Distance    float64 `bun:"distance"`
}

// Similarity maps cosine distance (0..2) to 1..0.
func (r SectionSearchRow) Similarity() float64 {
	return 1 - (r.Distance / 2.0)
}

type LangStats struct {
	Lang     string `bun:"lang"`
	Pages    int    `bun:"pages"`
	Sections int    `bun:"sections"`
}

func NewSearchRepository(database *Database) *SearchRepository {
	return &SearchRepository{db: database.Bun()}
}

// ReplacePage swaps every stored section of a page for sections in one
// transaction. An empty slice removes the page.
func (r *SearchRepository) ReplacePage(ctx context.Context, lang, pageTitle string, sections []*WikiSection) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*WikiSection)(nil)).
			Where("lang = ? AND page_title = ?", lang, pageTitle).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete sections: %w", err)
		}
		if len(sections) == 0 {
			return nil
		}
		for _, s := range sections {
			s.Lang = lang
			s.PageTitle = pageTitle
			if s.ID == "" {
				s.ID = SectionID(lang, pageTitle, s.Position, s.Part)
			}
		}
		if _, err := tx.NewInsert().Model(&sections).Exec(ctx); err != nil {
			return fmt.Errorf("insert sections: %w", err)
		}
		return nil
	})
}

// SearchSections returns the sections nearest to embedding by cosine
// distance among rows embedded with model. An empty lang searches every
// language.
func (r *SearchRepository) SearchSections(ctx context.Context, embedding []float32, model, lang string, limit int) ([]SectionSearchRow, error) {
	if model == "" {
		return nil, fmt.Errorf("embedding model is required")
	}
	if limit <= 0 {
		limit = 10
	}
	var results []SectionSearchRow
	q := r.db.NewSelect().Model(&results).
		Column("id", "lang", "page_title", "title", "position", "part", "content", "source_url", "query", "embedding_model", "updated_at").
		ColumnExpr("embedding <=> ? AS distance", pgvector.NewVector(embedding)).
		Where("embedding_model = ?", model).
		OrderExpr("distance").
		Limit(limit)
	if lang != "" {
		q = q.Where("lang = ?", lang)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return results, nil
}

// PageSections returns a stored page in document order.
func (r *SearchRepository) PageSections(ctx context.Context, lang, pageTitle string) ([]WikiSection, error) {
	var sections []WikiSection
	err := r.db.NewSelect().Model(&sections).
		ExcludeColumn("embedding").
		Where("lang = ? AND page_title = ?", lang, pageTitle).
		OrderExpr("position, part").
		Scan(ctx)
	return sections, err
}

func (r *SearchRepository) Stats(ctx context.Context) ([]LangStats, error) {
	var stats []LangStats
	err := r.db.NewSelect().Model((*WikiSection)(nil)).
		Column("lang").
		ColumnExpr("count(DISTINCT page_title) AS pages").
		ColumnExpr("count(*) AS sections").
		Group("lang").
		Order("lang").
		Scan(ctx, &stats)
	return stats, err
}

// DeleteLang removes every section of a language, or everything when lang
// is empty.
func (r *SearchRepository) DeleteLang(ctx context.Context, lang string) (int64, error) {
	q := r.db.NewDelete().Model((*WikiSection)(nil))
	if lang != "" {
		q = q.Where("lang = ?", lang)
	} else {
		q = q.Where("TRUE")
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
