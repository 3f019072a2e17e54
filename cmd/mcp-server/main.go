package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roivaz/klikinsaastaja/internal/config"
	"github.com/roivaz/klikinsaastaja/internal/logging"
	"github.com/roivaz/klikinsaastaja/internal/mcp"
)

func main() {
	root := &cobra.Command{
		Use:          "mcp-server",
		Short:        "Vested-interest MCP server",
		SilenceUsage: true,
		RunE:         run,
	}

	root.PersistentFlags().String("postgres-url", "", "Postgres connection URL")
	root.PersistentFlags().String("ollama-url", "", "Ollama base URL")
	root.PersistentFlags().String("locale", "", "Default locale (e.g. fi_FI)")
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("auto-migrate", false, "Apply pending migrations on startup")
	root.PersistentFlags().Int("port", 8000, "HTTP port")
	root.PersistentFlags().String("host", "0.0.0.0", "HTTP host")

	config.Init(root)
	config.BindFlag(config.KeyPostgresURL, root.PersistentFlags().Lookup("postgres-url"))
	config.BindFlag(config.KeyOllamaURL, root.PersistentFlags().Lookup("ollama-url"))
	config.BindFlag(config.KeyLocale, root.PersistentFlags().Lookup("locale"))
	config.BindFlag(config.KeyLogLevel, root.PersistentFlags().Lookup("log-level"))
	config.BindFlag(config.KeyAutoMigrate, root.PersistentFlags().Lookup("auto-migrate"))

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mcp-server: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := logging.New(logging.ForLevel(config.LogLevel()))

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	cfg, err := mcp.DefaultConfig(ctx, log)
	cancel()
	if err != nil {
		return err
	}
	srv := mcp.New(cfg)
	defer srv.Close()

	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")
	addr := host + ":" + strconv.Itoa(port)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("MCP server listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
