package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/household-finance/internal/seed"
	"github.com/frahmantamala/household-finance/internal/storage"
	"github.com/frahmantamala/household-finance/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install the default categories and keyword rules",
	Long: `Seed an empty database with the default categories and merchant keyword
rules. On a database that already has categories only the Income and Other
categories are restored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		_, db, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer storage.Close(db)

		defaults, err := seed.LoadDefaults()
		if err != nil {
			return err
		}
		report, err := seed.NewSeeder(db, defaults, logger.LoggerWrapper()).EnsureDefaults(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories and %d rules\n", report.Categories, report.Rules)
		return nil
	},
}
