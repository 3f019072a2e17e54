// Package agent asks a chat model which parties have a vested interest in
// a news article.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/roivaz/klikinsaastaja/internal/article"
	"github.com/roivaz/klikinsaastaja/internal/logging"
	"github.com/roivaz/klikinsaastaja/internal/wiki"
)

type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (*article.Article, error)
}

type Asker interface {
	Ask(ctx context.Context, instructions, article string) (string, error)
}

// Analysis is the outcome for one article.
type Analysis struct {
	URL      string          `json:"url"`
	Title    string          `json:"title"`
	Outlet   string          `json:"outlet"`
	Groups   []InterestGroup `json:"groups"`
	Response string          `json:"-"`
}

type Analyzer struct {
	fetcher ArticleFetcher
	asker   Asker
	prompt  *Prompt
	lang    string
	log     logging.Logger
}

func NewAnalyzer(fetcher ArticleFetcher, asker Asker, prompt *Prompt, lang string, log logging.Logger) *Analyzer {
	return &Analyzer{
		fetcher: fetcher,
		asker:   asker,
		prompt:  prompt,
		lang:    wiki.NormalizeLocale(lang),
		log:     log.WithName("analyzer"),
	}
}

// Analyze fetches url, asks the model about it and parses the reply.
func (a *Analyzer) Analyze(ctx context.Context, url string) (Analysis, error) {
	art, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return Analysis{}, err
	}
	a.log.Info("analyzing article", "url", art.URL, "title", art.Title, "outlet", art.Outlet)

	instructions, err := a.prompt.Render(art.URL, art.Title)
	if err != nil {
		return Analysis{}, fmt.Errorf("render prompt: %w", err)
	}
	reply, err := a.asker.Ask(ctx, instructions, art.Markdown)
	if err != nil {
		return Analysis{}, fmt.Errorf("ask model: %w", err)
	}
	groups, err := ParseResponse(reply)
	if err != nil {
		a.log.Debug("unparseable reply", "reply", reply)
		return Analysis{}, fmt.Errorf("parse reply for %s: %w", art.URL, err)
	}
	for i := range groups {
		groups[i].Lang = wiki.NormalizeLocale(groups[i].Lang)
		if groups[i].Lang == "" {
			groups[i].Lang = a.lang
		}
		if strings.TrimSpace(groups[i].WikipediaQuery) == "" {
			groups[i].WikipediaQuery = groups[i].Name
		}
	}
	a.log.Info("found interest groups", "url", art.URL, "count", len(groups))

	return Analysis{
		URL:      art.URL,
		Title:    art.Title,
		Outlet:   art.Outlet,
		Groups:   groups,
		Response: reply,
	}, nil
}
