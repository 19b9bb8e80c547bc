package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/frahmantamala/household-finance/internal/monthlyasset"
	"github.com/frahmantamala/household-finance/internal/storage"
	"github.com/frahmantamala/household-finance/pkg/logger"
	"github.com/spf13/cobra"
)

var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Monthly rollup maintenance",
}

var rollupRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Recompute every monthly rollup from the stored transactions",
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

		maintainer := monthlyasset.NewMaintainer(db, logger.LoggerWrapper())
		months, err := maintainer.RebuildAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to rebuild rollups: %w", err)
		}

		rows, err := maintainer.List(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		color.New(color.Bold).Fprintf(out, "rebuilt %d months\n", len(months))
		for _, row := range rows {
			savings := color.New(color.FgGreen)
			if row.NetSavings < 0 {
				savings = color.New(color.FgRed)
			}
			fmt.Fprintf(out, "%s  income %12d  expense %12d  savings ", row.Month, row.TotalIncome, row.TotalExpense)
			savings.Fprintf(out, "%12d", row.NetSavings)
			fmt.Fprintf(out, "  assets %12d\n", row.TotalAssets)
		}
		return nil
	},
}

func init() {
	rollupCmd.AddCommand(rollupRebuildCmd)
}
