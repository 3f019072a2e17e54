package dbmigrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/roivaz/klikinsaastaja/internal/logging"
)

// EnsureCurrent fails when migrations are pending, unless autoMigrate is
// set, in which case it applies them. An empty dir uses the embedded set.
func EnsureCurrent(ctx context.Context, bunDB *bun.DB, dir string, autoMigrate bool, log logging.Logger) error {
	manager, err := NewManager(bunDB, dir)
	if err != nil {
		return err
	}
	if err := manager.Init(ctx); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	pending, err := manager.Pending(ctx)
	if err != nil {
		return fmt.Errorf("fetch migration status: %w", err)
	}
	if len(pending) == 0 {
		log.Debug("schema is current")
		return nil
	}

	names := make([]string, 0, len(pending))
	for _, mig := range pending {
		names = append(names, mig.String())
	}
	if !autoMigrate {
		return fmt.Errorf("pending migrations: %s. Run 'dbctl migrate up' or set AUTO_MIGRATE=true", strings.Join(names, ", "))
	}

	log.Info("applying migrations", "pending", strings.Join(names, ", "))
	if err := manager.MigrateUp(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
