package analytics_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/analytics"
	analyticsRepository "github.com/frahmantamala/household-finance/internal/analytics/repository"
	categoryDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/transaction"
	"github.com/frahmantamala/household-finance/internal/monthlyasset"
	"github.com/frahmantamala/household-finance/internal/storage/storagetest"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func ptr[T any](v T) *T { return &v }

var _ = Describe("Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		service *analytics.Service
		food    *categoryDatamodel.Category
		other   *categoryDatamodel.Category
	)

	addTx := func(date, tm, typ string, amount, balance int64, categoryID int64) {
		Expect(db.Create(&transactionDatamodel.Transaction{
			Date:       date,
			Time:       tm,
			Type:       typ,
			Merchant:   "m-" + date + tm,
			Amount:     amount,
			Balance:    balance,
			CategoryID: &categoryID,
			Month:      date[:7],
		}).Error).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		var err error
		db, err = storagetest.NewSQLite()
		Expect(err).NotTo(HaveOccurred())

		income := &categoryDatamodel.Category{Name: "Income", Color: "#10B981", SortOrder: 1}
		food = &categoryDatamodel.Category{Name: "Food", Color: "#F97316", Budget: 400, SortOrder: 2}
		other = &categoryDatamodel.Category{Name: "Other", Color: "#6B7280", SortOrder: 3}
		for _, c := range []*categoryDatamodel.Category{income, food, other} {
			Expect(db.Create(c).Error).To(Succeed())
		}

		addTx("2024-01-10", "10:00", "income", 1000, 1000, income.ID)
		addTx("2024-01-12", "12:00", "expense", 300, 700, food.ID)
		addTx("2024-01-20", "09:00", "expense", 100, 600, other.ID)
		addTx("2024-02-05", "10:00", "income", 1000, 1600, income.ID)
		addTx("2024-02-06", "18:00", "expense", 200, 1400, food.ID)

		Expect(monthlyasset.NewMaintainer(db, logger).Recompute(ctx, "2024-01", "2024-02")).To(Succeed())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		repo := analyticsRepository.NewAnalyticsRepository(sqlx.NewDb(sqlDB, internal.SQLiteDriverCGO))
		service = analytics.NewService(repo, logger).WithClock(func() time.Time {
			return time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)
		})
	})

	Describe("Monthly", func() {
		It("returns rollups oldest first", func() {
			points, err := service.Monthly(ctx, 12)
			Expect(err).NotTo(HaveOccurred())
			Expect(points).To(Equal([]analytics.MonthlyPoint{
				{Month: "2024-01", Income: 1000, Expense: 400, Savings: 600, TotalAssets: 600},
				{Month: "2024-02", Income: 1000, Expense: 200, Savings: 800, TotalAssets: 1400},
			}))
		})

		It("keeps only the most recent months", func() {
			points, err := service.Monthly(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(points).To(HaveLen(1))
			Expect(points[0].Month).To(Equal("2024-02"))
		})
	})

	Describe("Categories", func() {
		It("computes shares against the month's total of that type", func() {
			breakdown, err := service.Categories(ctx, "2024-01", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(breakdown).To(HaveLen(2))
			Expect(*breakdown[0].Name).To(Equal("Food"))
			Expect(breakdown[0].Total).To(Equal(int64(300)))
			Expect(breakdown[0].Count).To(Equal(int64(1)))
			Expect(*breakdown[0].Budget).To(Equal(int64(400)))
			Expect(breakdown[0].Percentage).To(Equal(75.0))
			Expect(breakdown[1].Percentage).To(Equal(25.0))
		})

		It("covers every month when none is given", func() {
			breakdown, err := service.Categories(ctx, "", "expense")
			Expect(err).NotTo(HaveOccurred())
			Expect(breakdown[0].Total).To(Equal(int64(500)))
			Expect(breakdown[0].Percentage).To(Equal(83.3))
			Expect(breakdown[1].Percentage).To(Equal(16.7))
		})

		It("uses the income total as denominator for income", func() {
			breakdown, err := service.Categories(ctx, "2024-02", "income")
			Expect(err).NotTo(HaveOccurred())
			Expect(breakdown).To(HaveLen(1))
			Expect(breakdown[0].Percentage).To(Equal(100.0))
		})

		It("rejects a bad month or type", func() {
			_, err := service.Categories(ctx, "2024-13", "")
			Expect(err).To(HaveOccurred())
			_, err = service.Categories(ctx, "", "transfer")
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("Summary", func() {
		It("defaults to the current month and compares it with the previous one", func() {
			summary, err := service.Summary(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.CurrentMonth).To(Equal("2024-02"))
			Expect(summary.PrevMonth).To(Equal("2024-01"))
			Expect(summary.Current).To(Equal(analytics.PeriodSummary{Income: 1000, Expense: 200, Savings: 800, SavingRate: 80}))
			Expect(summary.Prev).To(Equal(analytics.PeriodSummary{Income: 1000, Expense: 400, Savings: 600, SavingRate: 60}))
			Expect(summary.TotalAssets).To(Equal(int64(1400)))
			Expect(summary.TotalMonths).To(Equal(int64(2)))
			Expect(summary.AvgMonthlySavings).To(Equal(int64(700)))
		})

		It("reports zeros for a month without data", func() {
			summary, err := service.Summary(ctx, "2023-06")
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.PrevMonth).To(Equal("2023-05"))
			Expect(summary.Current).To(Equal(analytics.PeriodSummary{}))
		})
	})

	Describe("Trend", func() {
		It("groups expenses by month and category", func() {
			points, err := service.Trend(ctx, 6)
			Expect(err).NotTo(HaveOccurred())
			Expect(points).To(Equal([]analytics.TrendPoint{
				{Month: "2024-01", Category: ptr("Food"), Color: ptr("#F97316"), Total: 300},
				{Month: "2024-01", Category: ptr("Other"), Color: ptr("#6B7280"), Total: 100},
				{Month: "2024-02", Category: ptr("Food"), Color: ptr("#F97316"), Total: 200},
			}))
		})

		It("limits the window to the most recent months", func() {
			points, err := service.Trend(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(points).To(HaveLen(1))
			Expect(points[0].Month).To(Equal("2024-02"))
		})
	})

	Describe("Forecast", func() {
		It("projects from the rollups and the latest balance", func() {
			result, err := service.Forecast(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.InsufficientData).To(BeFalse())
			Expect(result.CurrentAssets).To(Equal(int64(1400)))
			Expect(result.AvgMonthlySaving).To(Equal(int64(700)))
			Expect(result.AvgMonthlyIncome).To(Equal(int64(1000)))
			Expect(result.SavingRate).To(Equal(int64(70)))
			Expect(result.TrendPerMonth).To(Equal(int64(200)))
			Expect(result.Forecasts).To(HaveLen(3))
			Expect(result.Forecasts[0].MonthlyDetail[0].Month).To(Equal("2024-03"))
			Expect(result.Forecasts[0].MonthlyDetail[0].ProjectedSaving).To(Equal(int64(900)))
			Expect(result.Forecasts[0].MonthlyDetail[0].ProjectedAssets).To(Equal(int64(2300)))
		})

		It("reports insufficient data with a single month", func() {
			Expect(db.Exec("DELETE FROM transactions WHERE month = ?", "2024-01").Error).To(Succeed())
			Expect(db.Exec("DELETE FROM monthly_assets WHERE month = ?", "2024-01").Error).To(Succeed())

			result, err := service.Forecast(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.InsufficientData).To(BeTrue())
			Expect(result.CurrentAssets).To(Equal(int64(1400)))
			Expect(result.Forecasts).To(BeEmpty())
		})
	})
})

var _ = Describe("Breakdown", func() {
	It("rounds shares to one decimal place", func() {
		out := analytics.Breakdown([]analytics.CategoryTotal{{Total: 1}, {Total: 1}, {Total: 1}})
		Expect(out[0].Percentage).To(Equal(33.3))
	})

	It("leaves shares at zero when there is nothing to share", func() {
		out := analytics.Breakdown([]analytics.CategoryTotal{{Total: 0}})
		Expect(out[0].Percentage).To(BeZero())
	})
})
