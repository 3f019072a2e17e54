package mcp

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"github.com/roivaz/klikinsaastaja/internal/agent"
	"github.com/roivaz/klikinsaastaja/internal/article"
	"github.com/roivaz/klikinsaastaja/internal/db"
	dbmigrate "github.com/roivaz/klikinsaastaja/internal/db/migrate"
	"github.com/roivaz/klikinsaastaja/internal/ingestion"
	"github.com/roivaz/klikinsaastaja/internal/ingestion/embeddings"
	"github.com/roivaz/klikinsaastaja/internal/logging"
	"github.com/roivaz/klikinsaastaja/internal/mcp/tools"
	"github.com/roivaz/klikinsaastaja/internal/wiki"
)

type Config struct {
	ToolAdapters map[string]ToolAdapter
	Options      []server.StreamableHTTPOption
	Database     *db.Database
	Logger       logging.Logger
}

// DefaultConfig wires every tool against the configured database, Ollama
// and Wikipedia.
func DefaultConfig(ctx context.Context, log logging.Logger) (Config, error) {
	cfg := ingestion.LoadConfig()
	agentCfg := agent.LoadConfig()

	database, err := db.Open(ctx, db.Config{DSN: cfg.PostgresURL, Debug: cfg.DBDebug})
	if err != nil {
		return Config{}, err
	}
	if err := dbmigrate.EnsureCurrent(ctx, database.Bun(), cfg.MigrationsDir, cfg.AutoMigrate, log); err != nil {
		_ = database.Close()
		return Config{}, err
	}

	locales, err := wiki.LoadLocales(cfg.LocalesFile)
	if err != nil {
		_ = database.Close()
		return Config{}, err
	}

	embedClient, err := embeddings.NewClient(cfg.OllamaURL, cfg.EmbeddingModel, cfg.LLMCallTimeout, log)
	if err != nil {
		_ = database.Close()
		return Config{}, err
	}
	chat, err := agent.NewClient(agentCfg, log)
	if err != nil {
		_ = database.Close()
		return Config{}, err
	}
	prompt, err := agent.LoadPrompt(agentCfg.PromptFile)
	if err != nil {
		_ = database.Close()
		return Config{}, err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	repo := db.NewSearchRepository(database)
	lookup := ingestion.NewLookup(repo, embedClient, embedClient.Model(), cfg.SearchLimit, log)
	fetcher := article.NewFetcher(httpClient, article.DefaultRegistry(log), log)
	analyzer := agent.NewAnalyzer(fetcher, chat, prompt, agentCfg.Lang, log)

	loaders := func(lang string, topK int) tools.DocumentLoader {
		if topK <= 0 {
			topK = cfg.TopK
		}
		assembler := wiki.NewAssembler(wiki.NewFilter(locales, lang), log)
		return wiki.NewLoader(wiki.LoaderConfig{Lang: lang, TopK: topK, HTTPClient: httpClient}, assembler, log)
	}

	return Config{
		ToolAdapters: map[string]ToolAdapter{
			"search_wiki":     &tools.SearchWikiHandler{Service: tools.NewLookupSearchService(lookup)},
			"wiki_sections":   &tools.WikiSectionsHandler{Service: &tools.LiveWikiAdapter{Loaders: loaders, DefaultLang: cfg.Lang}},
			"analyze_article": &tools.AnalyzeArticleHandler{Service: analyzer},
		},
		Options: []server.StreamableHTTPOption{
			server.WithEndpointPath(endpointPath),
			server.WithStateLess(true),
		},
		Database: database,
		Logger:   log,
	}, nil
}
