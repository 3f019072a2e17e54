package tools

import (
	"context"
	"fmt"

	"github.com/roivaz/klikinsaastaja/internal/ingestion"
	"github.com/roivaz/klikinsaastaja/internal/mcp/tools/types"
	"github.com/roivaz/klikinsaastaja/internal/wiki"
)

type LookupSearchService struct {
	Lookup *ingestion.Lookup
}

func NewLookupSearchService(lookup *ingestion.Lookup) *LookupSearchService {
	return &LookupSearchService{Lookup: lookup}
}

func (s *LookupSearchService) SearchSections(ctx context.Context, query, lang string, limit int) ([]types.SectionResult, error) {
	matches, err := s.Lookup.Search(ctx, query, lang, limit)
	if err != nil {
		return nil, err
	}
	results := make([]types.SectionResult, 0, len(matches))
	for _, m := range matches {
		r := types.SectionResult{
			Title:      m.Title,
			PageTitle:  m.PageTitle,
			Lang:       m.Lang,
			Content:    m.Content,
			Similarity: m.Similarity,
		}
		if m.SourceURL != "" {
			src := m.SourceURL
			r.SourceURL = &src
		}
		results = append(results, r)
	}
	return results, nil
}

// DocumentLoader loads the section documents of the pages matching a
// query, skipping pages that cannot be decomposed.
type DocumentLoader interface {
	LoadAll(ctx context.Context, query string) ([]wiki.Document, error)
}

// LoaderFactory builds a loader for a language that fetches at most topK
// pages; topK <= 0 means the configured default.
type LoaderFactory func(lang string, topK int) DocumentLoader

type LiveWikiAdapter struct {
	Loaders     LoaderFactory
	DefaultLang string
}

func (a *LiveWikiAdapter) WikiSections(ctx context.Context, query, lang string, limit int) ([]types.WikiDocument, error) {
	lang = wiki.NormalizeLocale(lang)
	if lang == "" {
		lang = a.DefaultLang
	}
	docs, err := a.Loaders(lang, limit).LoadAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load %q from %s wikipedia: %w", query, lang, err)
	}
	out := make([]types.WikiDocument, 0, len(docs))
	for _, d := range docs {
		src, _ := d.Metadata["source"].(string)
		out = append(out, types.WikiDocument{Title: d.Title(), Content: d.Content, SourceURL: src})
	}
	return out, nil
}
