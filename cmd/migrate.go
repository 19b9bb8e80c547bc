package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/household-finance/internal/storage"
	"github.com/frahmantamala/household-finance/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "run the embedded db migrations for the configured driver",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	db, err := storage.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer storage.Close(db)

	if migrateRollback {
		if err := storage.Rollback(ctx, db, cfg.Database.Driver); err != nil {
			return err
		}
	} else if err := storage.Migrate(ctx, db, cfg.Database.Driver); err != nil {
		return err
	}

	version, err := storage.MigrationVersion(ctx, db, cfg.Database.Driver)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (%s)\n", version, cfg.Database.Driver)
	return nil
}
