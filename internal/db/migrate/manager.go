package dbmigrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/roivaz/klikinsaastaja/internal/db/migrations"
)

// Manager applies the wiki_sections schema migrations.
type Manager struct {
	migrator *migrate.Migrator
}

// NewManager reads migrations from dir, or from the embedded set when dir
// is empty.
func NewManager(db *bun.DB, dir string) (*Manager, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	var fsys fs.FS = migrations.FS
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve migrations dir: %w", err)
		}
		fsys = os.DirFS(abs)
	}

	discovered := migrate.NewMigrations()
	if err := discovered.Discover(fsys); err != nil {
		return nil, fmt.Errorf("discover migrations: %w", err)
	}
	return &Manager{migrator: migrate.NewMigrator(db, discovered)}, nil
}

func (m *Manager) Init(ctx context.Context) error {
	return m.migrator.Init(ctx)
}

// MigrateUp applies every pending migration while holding the migration lock.
func (m *Manager) MigrateUp(ctx context.Context) error {
	return m.locked(ctx, func() error {
		_, err := m.migrator.Migrate(ctx)
		return err
	})
}

// MigrateDownSteps rolls back the last steps applied groups; 0 rolls back
// everything.
func (m *Manager) MigrateDownSteps(ctx context.Context, steps int) error {
	if steps < 0 {
		return errors.New("steps must be >= 0")
	}
	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}
	if steps == 0 || steps > len(applied) {
		steps = len(applied)
	}
	return m.rollback(ctx, steps)
}

// MigrateDownTo rolls back every applied migration newer than target, and
// target itself.
func (m *Manager) MigrateDownTo(ctx context.Context, target string) error {
	if target == "" {
		return errors.New("target version is required")
	}
	status, err := m.Status(ctx)
	if err != nil {
		return err
	}
	known := false
	for _, mig := range status {
		known = known || mig.Name == target
	}
	if !known {
		return fmt.Errorf("migration %s not found", target)
	}

	steps := 0
	for _, mig := range status.Applied() {
		if mig.Name >= target {
			steps++
		}
	}
	return m.rollback(ctx, steps)
}

// Pending lists migrations not yet applied.
func (m *Manager) Pending(ctx context.Context) (migrate.MigrationSlice, error) {
	status, err := m.Status(ctx)
	if err != nil {
		return nil, err
	}
	return status.Unapplied(), nil
}

func (m *Manager) Status(ctx context.Context) (migrate.MigrationSlice, error) {
	return m.migrator.MigrationsWithStatus(ctx)
}

func (m *Manager) applied(ctx context.Context) (migrate.MigrationSlice, error) {
	status, err := m.Status(ctx)
	if err != nil {
		return nil, err
	}
	return status.Applied(), nil
}

func (m *Manager) rollback(ctx context.Context, steps int) error {
	if steps == 0 {
		return nil
	}
	return m.locked(ctx, func() error {
		for i := 0; i < steps; i++ {
			if _, err := m.migrator.Rollback(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *Manager) locked(ctx context.Context, fn func() error) error {
	if err := m.migrator.Lock(ctx); err != nil {
		return fmt.Errorf("lock migrations: %w", err)
	}
	defer func() { _ = m.migrator.Unlock(ctx) }()
	return fn()
}
