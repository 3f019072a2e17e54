package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roivaz/klikinsaastaja/internal/config"
	"github.com/roivaz/klikinsaastaja/internal/db"
	dbmigrate "github.com/roivaz/klikinsaastaja/internal/db/migrate"
	"github.com/roivaz/klikinsaastaja/internal/ingestion"
	"github.com/roivaz/klikinsaastaja/internal/ingestion/embeddings"
	"github.com/roivaz/klikinsaastaja/internal/logging"
	"github.com/roivaz/klikinsaastaja/internal/wiki"
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingestion CLI (Wikipedia sections)",
}

var wikiCmd = &cobra.Command{
	Use:          "wiki [query]",
	Short:        "Print the section documents of the pages matching a Wikipedia query",
	Args:         cobra.RangeArgs(0, 1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := ingestion.LoadConfig()
		log := newLogger()
		lang, _ := cmd.Flags().GetString("lang")
		if lang == "" {
			lang = cfg.Lang
		}

		locales, err := wiki.LoadLocales(cfg.LocalesFile)
		if err != nil {
			return err
		}
		if show, _ := cmd.Flags().GetBool("show-boilerplate"); show {
			for _, title := range wiki.NewFilter(locales, lang).Titles() {
				fmt.Fprintln(cmd.OutOrStdout(), title)
			}
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("a query is required")
		}
		loader := newLoader(cfg, locales, wiki.NormalizeLocale(lang), log)

		ctx, cancel := signalContext()
		defer cancel()

		docs, err := loader.Load(ctx, args[0])
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()
		for _, d := range docs {
			if asJSON {
				if err := json.NewEncoder(out).Encode(d.Schema()); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintf(out, "<!-- %s -->\n%s\n\n", d.Title(), d.Content)
		}
		return nil
	},
}

var sectionsCmd = &cobra.Command{
	Use:          "sections <groups.json>",
	Short:        "Index the Wikipedia pages of every interest group into the vector store",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := ingestion.LoadConfig()
		log := newLogger()

		groups, err := ingestion.ReadGroups(args[0])
		if err != nil {
			return err
		}
		locales, err := wiki.LoadLocales(cfg.LocalesFile)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		database, err := db.Open(ctx, db.Config{DSN: cfg.PostgresURL, Debug: cfg.DBDebug})
		if err != nil {
			return err
		}
		defer database.Close()
		if err := dbmigrate.EnsureCurrent(ctx, database.Bun(), cfg.MigrationsDir, cfg.AutoMigrate, log); err != nil {
			return err
		}

		embedClient, err := embeddings.NewClient(cfg.OllamaURL, cfg.EmbeddingModel, cfg.LLMCallTimeout, log)
		if err != nil {
			return err
		}
		sources := func(lang string) ingestion.PageSource {
			return newLoader(cfg, locales, lang, log)
		}
		indexer := ingestion.NewIndexer(cfg, db.NewSearchRepository(database), embedClient, embedClient.Model(), sources, locales, log)

		stats, err := indexer.Run(ctx, groups)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "groups=%d pages=%d indexed=%d failed=%d rows=%d\n",
			stats.Groups, stats.Pages, stats.PagesIndexed, stats.PagesFailed+stats.QueriesFailed, stats.Rows)
		return nil
	},
}

var pageCmd = &cobra.Command{
	Use:          "page <title>",
	Short:        "Print the stored sections of an indexed page in document order",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := ingestion.LoadConfig()
		lang, _ := cmd.Flags().GetString("lang")
		if lang == "" {
			lang = cfg.Lang
		}

		ctx, cancel := signalContext()
		defer cancel()

		database, err := db.Open(ctx, db.Config{DSN: cfg.PostgresURL, Debug: cfg.DBDebug})
		if err != nil {
			return err
		}
		defer database.Close()

		sections, err := db.NewSearchRepository(database).PageSections(ctx, wiki.NormalizeLocale(lang), args[0])
		if err != nil {
			return err
		}
		if len(sections) == 0 {
			return fmt.Errorf("page %q is not indexed for %s", args[0], lang)
		}
		out := cmd.OutOrStdout()
		for _, s := range sections {
			fmt.Fprintf(out, "<!-- %d.%d %s (%s) -->\n%s\n\n", s.Position, s.Part, s.Title, s.EmbeddingModel, s.Content)
		}
		return nil
	},
}

var lookupCmd = &cobra.Command{
	Use:          "lookup <groups.json>",
	Short:        "Find the stored sections closest to each group's retrieval query",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := ingestion.LoadConfig()
		log := newLogger()

		groups, err := ingestion.ReadGroups(args[0])
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		database, err := db.Open(ctx, db.Config{DSN: cfg.PostgresURL, Debug: cfg.DBDebug})
		if err != nil {
			return err
		}
		defer database.Close()

		embedClient, err := embeddings.NewClient(cfg.OllamaURL, cfg.EmbeddingModel, cfg.LLMCallTimeout, log)
		if err != nil {
			return err
		}
		lookup := ingestion.NewLookup(db.NewSearchRepository(database), embedClient, embedClient.Model(), cfg.SearchLimit, log)

		results, err := lookup.Groups(ctx, groups)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "    ")
		return enc.Encode(results)
	},
}

func main() {
	rootCmd.PersistentFlags().String("postgres-url", "", "Postgres connection URL")
	rootCmd.PersistentFlags().String("ollama-url", "", "Ollama base URL")
	rootCmd.PersistentFlags().String("embedding-model-name", "", "Embedding model")
	rootCmd.PersistentFlags().String("locale", "", "Default locale (e.g. fi_FI)")
	rootCmd.PersistentFlags().String("wiki-locales-file", "", "YAML file with extra boilerplate titles per language")
	rootCmd.PersistentFlags().Int("wiki-top-k", 0, "Pages fetched per Wikipedia query")
	rootCmd.PersistentFlags().Bool("auto-migrate", false, "Apply pending migrations before indexing")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	for key, flag := range map[string]string{
		config.KeyPostgresURL:    "postgres-url",
		config.KeyOllamaURL:      "ollama-url",
		config.KeyEmbeddingModel: "embedding-model-name",
		config.KeyLocale:         "locale",
		config.KeyLocalesFile:    "wiki-locales-file",
		config.KeyWikiTopK:       "wiki-top-k",
		config.KeyAutoMigrate:    "auto-migrate",
		config.KeyLogLevel:       "log-level",
	} {
		config.BindFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}
	wikiCmd.Flags().String("lang", "", "Wikipedia language (default: locale)")
	wikiCmd.Flags().Bool("json", false, "Print one JSON document per line")
	wikiCmd.Flags().Bool("show-boilerplate", false, "List the section titles skipped for the language and exit")
	pageCmd.Flags().String("lang", "", "Wikipedia language (default: locale)")

	config.Init(rootCmd)
	rootCmd.AddCommand(wikiCmd, sectionsCmd, pageCmd, lookupCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ingest: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() logging.Logger {
	return logging.New(logging.ForLevel(config.LogLevel()))
}

func newLoader(cfg ingestion.Config, locales wiki.LocaleTable, lang string, log logging.Logger) *wiki.Loader {
	assembler := wiki.NewAssembler(wiki.NewFilter(locales, lang), log)
	return wiki.NewLoader(wiki.LoaderConfig{
		Lang:       lang,
		TopK:       cfg.TopK,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}, assembler, log)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() { <-sigs; cancel() }()
	return ctx, cancel
}
