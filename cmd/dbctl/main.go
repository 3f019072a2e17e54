package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/roivaz/klikinsaastaja/internal/config"
	"github.com/roivaz/klikinsaastaja/internal/db"
	dbmigrate "github.com/roivaz/klikinsaastaja/internal/db/migrate"
	"github.com/roivaz/klikinsaastaja/internal/logging"
)

// wikiSectionsMigration creates the wiki_sections table.
const wikiSectionsMigration = "20251018120000"

// scope is a set of tables recreate can drop, plus the migrations that
// must run again to bring them back.
type scope struct {
	tables     []string
	migrations []string
}

var scopes = map[string]scope{
	// Everything, migration bookkeeping included.
	"all": {tables: []string{"wiki_sections", "bun_migrations", "bun_migration_locks"}},
	// Indexed sections only; re-embedding is needed afterwards.
	"sections": {tables: []string{"wiki_sections"}, migrations: []string{wikiSectionsMigration}},
}

var rootCmd = &cobra.Command{
	Use:   "dbctl",
	Short: "Manage the wiki section store schema",
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the migration bookkeeping tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd.Context(), func(_ *db.Database, m *dbmigrate.Manager) error {
			return m.Init(cmd.Context())
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd.Context(), func(_ *db.Database, m *dbmigrate.Manager) error {
			if err := m.Init(cmd.Context()); err != nil {
				return err
			}
			return m.MigrateUp(cmd.Context())
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		to, _ := cmd.Flags().GetString("to")
		return withManager(cmd.Context(), func(_ *db.Database, m *dbmigrate.Manager) error {
			if to != "" {
				return m.MigrateDownTo(cmd.Context(), to)
			}
			return m.MigrateDownSteps(cmd.Context(), steps)
		})
	},
}

var statusCmd = &cobra.Command{
	Use:          "status",
	Short:        "Show applied and pending migrations",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd.Context(), func(_ *db.Database, m *dbmigrate.Manager) error {
			status, err := m.Status(cmd.Context())
			if err != nil {
				return err
			}
			for _, mig := range status {
				state := "pending"
				if mig.IsApplied() {
					state = fmt.Sprintf("applied (group %d)", mig.GroupID)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", mig.String(), state)
			}
			return nil
		})
	},
}

var verifyCmd = &cobra.Command{
	Use:          "verify",
	Short:        "Fail unless the schema is current",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd.Context(), func(database *db.Database, _ *dbmigrate.Manager) error {
			return dbmigrate.EnsureCurrent(cmd.Context(), database.Bun(), config.MigrationsDir(), false, newLogger())
		})
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge [lang]",
	Short: "Delete indexed sections, of one language or of all (destructive)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDestructive("purge"); err != nil {
			return err
		}
		lang := ""
		if len(args) == 1 {
			lang = args[0]
		}
		return withManager(cmd.Context(), func(database *db.Database, _ *dbmigrate.Manager) error {
			n, err := db.NewSearchRepository(database).DeleteLang(cmd.Context(), lang)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d sections\n", n)
			return nil
		})
	},
}

var recreateCmd = &cobra.Command{
	Use:       "recreate <all|sections>",
	Short:     "Drop the tables of a scope and migrate them back (destructive)",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"all", "sections"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDestructive("recreate"); err != nil {
			return err
		}
		return withManager(cmd.Context(), func(database *db.Database, _ *dbmigrate.Manager) error {
			return recreate(cmd.Context(), database.Bun(), scopes[args[0]])
		})
	},
}

func main() {
	rootCmd.PersistentFlags().String("dsn", "", "PostgreSQL DSN (overrides POSTGRES_URL)")
	rootCmd.PersistentFlags().String("migrations", "", "Migrations directory (default: embedded migrations)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	migrateDownCmd.Flags().Int("steps", 1, "Number of migration groups to roll back (0 = all)")
	migrateDownCmd.Flags().String("to", "", "Roll back to the specified migration (inclusive)")

	config.Init(rootCmd)
	config.BindFlag(config.KeyPostgresURL, rootCmd.PersistentFlags().Lookup("dsn"))
	config.BindFlag(config.KeyMigrationsDir, rootCmd.PersistentFlags().Lookup("migrations"))
	config.BindFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(initCmd, migrateCmd, statusCmd, verifyCmd, purgeCmd, recreateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dbctl: %v\n", err)
		os.Exit(1)
	}
}

func withManager(ctx context.Context, fn func(*db.Database, *dbmigrate.Manager) error) error {
	if config.PostgresURL() == "" {
		return errors.New("postgres DSN must be provided via --dsn or POSTGRES_URL")
	}
	database, err := db.Open(ctx, db.Config{DSN: config.PostgresURL(), Debug: config.DBDebug()})
	if err != nil {
		return err
	}
	defer database.Close()

	manager, err := dbmigrate.NewManager(database.Bun(), config.MigrationsDir())
	if err != nil {
		return err
	}
	return fn(database, manager)
}

func recreate(ctx context.Context, bunDB *bun.DB, s scope) error {
	log := newLogger()
	stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", strings.Join(s.tables, ", "))
	if _, err := bunDB.ExecContext(ctx, stmt); err != nil {
		return err
	}
	log.Info("dropped tables", "tables", strings.Join(s.tables, ", "))

	// Forget the migrations that created the dropped tables so EnsureCurrent
	// runs them again.
	if len(s.migrations) > 0 {
		if _, err := bunDB.ExecContext(ctx, "DELETE FROM bun_migrations WHERE name IN (?)", bun.In(s.migrations)); err != nil {
			return err
		}
	}
	return dbmigrate.EnsureCurrent(ctx, bunDB, config.MigrationsDir(), true, log)
}

func requireDestructive(action string) error {
	if strings.ToLower(os.Getenv("DB_ALLOW_DESTRUCTIVE")) != "yes" {
		return fmt.Errorf("DB_ALLOW_DESTRUCTIVE=yes must be set for %s", action)
	}
	return nil
}

func newLogger() logging.Logger {
	return logging.New(logging.ForLevel(config.LogLevel()))
}
