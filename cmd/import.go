package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/ingest"
	"github.com/frahmantamala/household-finance/internal/monthlyasset"
	"github.com/frahmantamala/household-finance/internal/storage"
	"github.com/frahmantamala/household-finance/pkg/logger"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>...",
	Short: "Import statement CSV files from disk",
	Long: `Import one or more bank statement CSV exports the same way the upload
endpoint does. Each file is its own batch; a failing file does not undo
the files before it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, db, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer storage.Close(db)

		lg := logger.LoggerWrapper()
		service := ingest.NewService(
			storage.NewUnitOfWork(db, cfg.Database.Driver, cfg.Upload, lg),
			monthlyasset.NewMaintainer(db, lg),
			nil,
			lg,
		)

		out := cmd.OutOrStdout()
		ok := color.New(color.FgGreen, color.Bold)
		warn := color.New(color.FgYellow)
		fail := color.New(color.FgRed, color.Bold)

		failed := 0
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				failed++
				fail.Fprintf(out, "✗ %s: %v\n", path, err)
				continue
			}
			if int64(len(data)) > cfg.Upload.MaxBytes {
				failed++
				fail.Fprintf(out, "✗ %s: %s\n", path, internal.ErrFileTooLarge.Message)
				continue
			}

			result, err := service.Ingest(ctx, ingest.Upload{FileName: filepath.Base(path), Data: data})
			if err != nil {
				failed++
				fail.Fprintf(out, "✗ %s: %v\n", path, err)
				continue
			}

			ok.Fprintf(out, "✓ %s", path)
			fmt.Fprintf(out, "  %d rows, ", result.Total)
			ok.Fprintf(out, "%d added", result.Inserted)
			fmt.Fprint(out, ", ")
			if result.Skipped > 0 {
				warn.Fprintf(out, "%d duplicates skipped", result.Skipped)
			} else {
				fmt.Fprint(out, "0 duplicates skipped")
			}
			fmt.Fprintf(out, "  months %v\n", result.Months)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, len(args))
		}
		return nil
	},
}
