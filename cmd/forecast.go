package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/frahmantamala/household-finance/internal/analytics"
	analyticsRepository "github.com/frahmantamala/household-finance/internal/analytics/repository"
	"github.com/frahmantamala/household-finance/internal/storage"
	"github.com/frahmantamala/household-finance/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Print the savings trend and asset projections",
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

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		repo := analyticsRepository.NewAnalyticsRepository(sqlx.NewDb(sqlDB, storage.SQLXDriverName(cfg.Database)))
		result, err := analytics.NewService(repo, logger.LoggerWrapper()).Forecast(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.InsufficientData {
			color.New(color.FgYellow).Fprintln(out, result.Message)
			return nil
		}

		bold := color.New(color.Bold)
		bold.Fprintf(out, "current assets      %d\n", result.CurrentAssets)
		fmt.Fprintf(out, "avg monthly income  %d\n", result.AvgMonthlyIncome)
		fmt.Fprintf(out, "avg monthly saving  %d (%d%%)\n", result.AvgMonthlySaving, result.SavingRate)

		trend := color.New(color.FgGreen)
		if result.TrendPerMonth < 0 {
			trend = color.New(color.FgRed)
		}
		fmt.Fprint(out, "trend per month     ")
		trend.Fprintf(out, "%+d\n", result.TrendPerMonth)
		fmt.Fprintf(out, "based on            %d months\n\n", result.HistoryMonths)

		for _, p := range result.Forecasts {
			last := p.MonthlyDetail[len(p.MonthlyDetail)-1]
			fmt.Fprintf(out, "%-10s by %s  ", p.Period, last.Month)
			bold.Fprintf(out, "%d\n", p.ProjectedTotal)
		}
		return nil
	},
}
