// Package ingestion indexes Wikipedia section documents into the vector
// store and answers similarity lookups against it.
package ingestion

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"

	"github.com/roivaz/klikinsaastaja/internal/agent"
	"github.com/roivaz/klikinsaastaja/internal/db"
	"github.com/roivaz/klikinsaastaja/internal/ingestion/embeddings"
	"github.com/roivaz/klikinsaastaja/internal/logging"
	"github.com/roivaz/klikinsaastaja/internal/wiki"
)

const embedBatchSize = 16

type EmbeddingClient interface {
	EmbedTexts(ctx context.Context, inputs []string) ([][]float32, error)
}

type SectionStore interface {
	ReplacePage(ctx context.Context, lang, pageTitle string, sections []*db.WikiSection) error
}

type PageSource interface {
	Pages(ctx context.Context, query string) ([]wiki.RawPage, error)
}

// SourceFactory returns the page source for a wiki language.
type SourceFactory func(lang string) PageSource

// Stats summarises one indexing run.
type Stats struct {
	Groups        int
	QueriesFailed int
	Pages         int
	PagesFailed   int
	PagesIndexed  int
	Rows          int
}

type Indexer struct {
	cfg       Config
	store     SectionStore
	client    EmbeddingClient
	model     string
	sources   SourceFactory
	locales   wiki.LocaleTable
	splitter  mdSplitter
	log       logging.Logger
	perLang   map[string]PageSource
	assembler map[string]*wiki.Assembler
}

func NewIndexer(cfg Config, store SectionStore, client EmbeddingClient, model string, sources SourceFactory, locales wiki.LocaleTable, log logging.Logger) *Indexer {
	log = log.WithName("indexer")
	return &Indexer{
		cfg:       cfg,
		store:     store,
		client:    client,
		model:     model,
		sources:   sources,
		locales:   locales,
		splitter:  newSplitter(cfg.ChunkTokens, cfg.ChunkOverlap, log),
		log:       log,
		perLang:   map[string]PageSource{},
		assembler: map[string]*wiki.Assembler{},
	}
}

// Run indexes the pages found for every group. Failed queries and pages
// are logged and skipped; only cancellation aborts the run.
func (i *Indexer) Run(ctx context.Context, groups []agent.InterestGroup) (Stats, error) {
	stats := Stats{Groups: len(groups)}
	seen := map[string]bool{}

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		lang := i.langFor(g)
		query := strings.TrimSpace(g.WikipediaQuery)
		if query == "" {
			query = strings.TrimSpace(g.Name)
		}
		if query == "" {
			continue
		}

		pages, err := i.source(lang).Pages(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			i.log.Error(err, "wikipedia query failed", "group", g.Name, "query", query, "lang", lang)
			stats.QueriesFailed++
			continue
		}

		for _, page := range pages {
			key := lang + "|" + page.Title
			if seen[key] {
				continue
			}
			seen[key] = true
			stats.Pages++

			rows, err := i.IndexPage(ctx, lang, query, page)
			if err != nil {
				if ctx.Err() != nil {
					return stats, ctx.Err()
				}
				i.log.Error(err, "skipping page", "title", page.Title, "lang", lang)
				stats.PagesFailed++
				continue
			}
			stats.Rows += rows
			stats.PagesIndexed++
		}
	}

	i.log.Info("indexing finished",
		"groups", stats.Groups,
		"pages", stats.Pages,
		"pages_failed", stats.PagesFailed,
		"queries_failed", stats.QueriesFailed,
		"rows", stats.Rows,
	)
	return stats, nil
}

// IndexPage decomposes, embeds and stores a single page, replacing what
// was stored for it before. It returns the number of rows written.
func (i *Indexer) IndexPage(ctx context.Context, lang, query string, page wiki.RawPage) (int, error) {
	docs, err := i.assemblerFor(lang).Assemble(page)
	if err != nil {
		return 0, err
	}

	var sections []*db.WikiSection
	var inputs []string
	for pos, doc := range docs {
		for _, p := range i.splitter.split(doc) {
			sections = append(sections, &db.WikiSection{
				Title:          doc.Title(),
				Position:       pos,
				Part:           p.index,
				Content:        p.content,
				SourceURL:      sourceURL(doc),
				Query:          query,
				EmbeddingModel: i.model,
			})
			inputs = append(inputs, embeddings.BuildInput(doc.Title(), p.content))
		}
	}

	for start := 0; start < len(inputs); start += embedBatchSize {
		end := min(start+embedBatchSize, len(inputs))
		vectors, err := i.client.EmbedTexts(ctx, inputs[start:end])
		if err != nil {
			return 0, fmt.Errorf("embed %q: %w", page.Title, err)
		}
		if len(vectors) != end-start {
			return 0, fmt.Errorf("embed %q: got %d vectors for %d inputs", page.Title, len(vectors), end-start)
		}
		for k, v := range vectors {
			sections[start+k].Embedding = pgvector.NewVector(v)
		}
	}

	if err := i.store.ReplacePage(ctx, lang, page.Title, sections); err != nil {
		return 0, fmt.Errorf("store %q: %w", page.Title, err)
	}
	i.log.Debug("indexed page", "title", page.Title, "lang", lang, "documents", len(docs), "rows", len(sections))
	return len(sections), nil
}

func (i *Indexer) langFor(g agent.InterestGroup) string {
	if lang := wiki.NormalizeLocale(g.Lang); lang != "" {
		return lang
	}
	if i.cfg.Lang != "" {
		return i.cfg.Lang
	}
	return "en"
}

func (i *Indexer) source(lang string) PageSource {
	if s, ok := i.perLang[lang]; ok {
		return s
	}
	s := i.sources(lang)
	i.perLang[lang] = s
	return s
}

func (i *Indexer) assemblerFor(lang string) *wiki.Assembler {
	if a, ok := i.assembler[lang]; ok {
		return a
	}
	a := wiki.NewAssembler(wiki.NewFilter(i.locales, lang), i.log)
	i.assembler[lang] = a
	return a
}

func sourceURL(doc wiki.Document) *string {
	s, _ := doc.Metadata["source"].(string)
	if s == "" {
		return nil
	}
	return &s
}
