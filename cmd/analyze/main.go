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

	"github.com/roivaz/klikinsaastaja/internal/agent"
	"github.com/roivaz/klikinsaastaja/internal/article"
	"github.com/roivaz/klikinsaastaja/internal/config"
	"github.com/roivaz/klikinsaastaja/internal/ingestion"
	"github.com/roivaz/klikinsaastaja/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:          "analyze <article-url>",
	Short:        "List the vested-interest groups of a news article",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(logging.ForLevel(config.LogLevel()))
		cfg := agent.LoadConfig()

		chat, err := agent.NewClient(cfg, log)
		if err != nil {
			return err
		}
		prompt, err := agent.LoadPrompt(cfg.PromptFile)
		if err != nil {
			return err
		}
		httpClient := &http.Client{Timeout: config.HTTPTimeout()}
		fetcher := article.NewFetcher(httpClient, article.DefaultRegistry(log), log)
		analyzer := agent.NewAnalyzer(fetcher, chat, prompt, cfg.Lang, log)

		ctx, cancel := signalContext()
		defer cancel()

		analysis, err := analyzer.Analyze(ctx, args[0])
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "-" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "    ")
			return enc.Encode(analysis)
		}
		if err := ingestion.WriteAnalysis(output, analysis); err != nil {
			return err
		}
		log.Info("wrote analysis", "path", output, "groups", len(analysis.Groups))
		return nil
	},
}

var latestCmd = &cobra.Command{
	Use:          "latest",
	Short:        "List the latest Iltalehti articles",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(logging.ForLevel(config.LogLevel()))
		httpClient := &http.Client{Timeout: config.HTTPTimeout()}
		lister := article.NewLatestLister(httpClient, log)

		ctx, cancel := signalContext()
		defer cancel()

		links, err := lister.Latest(ctx)
		if err != nil {
			return err
		}
		for _, l := range links {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", l.URL, l.Title)
		}
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().String("ollama-url", "", "Ollama base URL")
	rootCmd.PersistentFlags().String("chat-model-name", "", "Chat model used for the analysis")
	rootCmd.PersistentFlags().String("locale", "", "Locale of the articles (e.g. fi_FI)")
	rootCmd.PersistentFlags().String("prompt-file", "", "Go template overriding the built-in instructions")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringP("output", "o", "sidosryhmat.json", "Output file, or - for stdout")
	bindFlags()

	config.Init(rootCmd)
	rootCmd.AddCommand(latestCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

// bindFlags maps dashed flag names onto the underscore config keys.
func bindFlags() {
	config.BindFlag(config.KeyOllamaURL, rootCmd.PersistentFlags().Lookup("ollama-url"))
	config.BindFlag(config.KeyChatModel, rootCmd.PersistentFlags().Lookup("chat-model-name"))
	config.BindFlag(config.KeyLocale, rootCmd.PersistentFlags().Lookup("locale"))
	config.BindFlag(config.KeyPromptFile, rootCmd.PersistentFlags().Lookup("prompt-file"))
	config.BindFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() { <-sigs; cancel() }()
	return ctx, cancel
}
