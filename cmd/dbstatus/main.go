package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/roivaz/klikinsaastaja/internal/config"
	"github.com/roivaz/klikinsaastaja/internal/db"
	dbmigrate "github.com/roivaz/klikinsaastaja/internal/db/migrate"
)

func main() {
	config.Init(nil)
	ctx := context.Background()
	fmt.Println("PostgreSQL Connection Status:")
	fmt.Println("=============================")

	dsn := config.PostgresURL()
	if dsn == "" {
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			getenv("POSTGRES_USER", "postgres"),
			getenv("POSTGRES_PASSWORD", "postgres"),
			getenv("POSTGRES_HOST", "localhost"),
			getenv("POSTGRES_PORT", "5432"),
			getenv("POSTGRES_DB", "klikinsaastaja"))
		fmt.Printf("🏠 Local/Environment connection\n")
	}
	fmt.Printf("📍 Connection: %s\n\n", dsn)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	database, err := db.Open(pingCtx, db.Config{DSN: dsn, DialTimeout: 5 * time.Second})
	cancel()
	if err != nil {
		fmt.Printf("❌ Database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()
	fmt.Println("✅ Database connection successful")

	manager, err := dbmigrate.NewManager(database.Bun(), config.MigrationsDir())
	if err != nil {
		fmt.Printf("⚠️  Cannot load migrations: %v\n", err)
		return
	}
	pending, err := manager.Pending(ctx)
	switch {
	case err != nil:
		fmt.Printf("⚠️  Migration status unavailable (run 'dbctl init'): %v\n", err)
		return
	case len(pending) > 0:
		fmt.Printf("⚠️  %d pending migration(s):\n", len(pending))
		for _, m := range pending {
			fmt.Printf("   - %s_%s\n", m.Name, m.Comment)
		}
		return
	default:
		fmt.Println("✅ Schema is up to date")
	}

	stats, err := db.NewSearchRepository(database).Stats(ctx)
	if err != nil {
		fmt.Printf("⚠️  Cannot read section stats: %v\n", err)
		return
	}
	if len(stats) == 0 {
		fmt.Println("📚 No wiki sections indexed yet")
		return
	}
	fmt.Println("📚 Indexed wiki sections:")
	for _, s := range stats {
		fmt.Printf("   %s\t%d pages\t%d sections\n", s.Lang, s.Pages, s.Sections)
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
