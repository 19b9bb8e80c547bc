package analytics

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/core/common/validation"
	"github.com/frahmantamala/household-finance/internal/forecast"
	"github.com/frahmantamala/household-finance/internal/transaction"
	"github.com/shopspring/decimal"
)

const (
	DefaultMonthlyMonths = 12
	DefaultTrendMonths   = 6
	MaxMonths            = 120
)

type RepositoryAPI interface {
	Monthly(ctx context.Context, limit int) ([]MonthlyPoint, error)
	CategoryTotals(ctx context.Context, month string, txType transaction.Type) ([]CategoryTotal, error)
	MonthStats(ctx context.Context, month string) (MonthStats, error)
	LatestBalance(ctx context.Context) (int64, error)
	Totals(ctx context.Context) (net int64, months int64, err error)
	CategoryTrend(ctx context.Context, months int) ([]TrendPoint, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the clock used to pick the default summary month.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Monthly returns up to months rollup rows, oldest first.
func (s *Service) Monthly(ctx context.Context, months int) ([]MonthlyPoint, error) {
	points, err := s.repo.Monthly(ctx, clampMonths(months, DefaultMonthlyMonths))
	if err != nil {
		s.logger.Error("failed to load monthly series", "error", err)
		return nil, errors.NewInternalError("failed to load monthly series", err)
	}
	reverse(points)
	return points, nil
}

// Categories breaks the given type down by category. An empty month covers
// all months; an empty type means expense.
func (s *Service) Categories(ctx context.Context, month, txType string) ([]CategoryBreakdown, error) {
	if err := validation.ValidateMonth(month); err != nil {
		return nil, err
	}
	t := transaction.TypeExpense
	if txType != "" {
		parsed, ok := transaction.ParseType(txType)
		if !ok {
			return nil, errors.NewValidationFieldError("type", "type must be income or expense", errors.ErrCodeInvalidType)
		}
		t = parsed
	}

	totals, err := s.repo.CategoryTotals(ctx, month, t)
	if err != nil {
		s.logger.Error("failed to load category totals", "error", err, "month", month, "type", t)
		return nil, errors.NewInternalError("failed to load category breakdown", err)
	}

	return Breakdown(totals), nil
}

// Breakdown attaches each total's share of the sum of all totals.
func Breakdown(totals []CategoryTotal) []CategoryBreakdown {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(decimal.NewFromInt(t.Total))
	}

	out := make([]CategoryBreakdown, 0, len(totals))
	for _, t := range totals {
		item := CategoryBreakdown{CategoryTotal: t}
		if !sum.IsZero() {
			item.Percentage = decimal.NewFromInt(t.Total).
				Mul(decimal.NewFromInt(100)).
				Div(sum).
				Round(1).
				InexactFloat64()
		}
		out = append(out, item)
	}
	return out
}

// Summary compares month with the month before it. An empty month means the
// current calendar month.
func (s *Service) Summary(ctx context.Context, month string) (*Summary, error) {
	if err := validation.ValidateMonth(month); err != nil {
		return nil, err
	}
	if month == "" {
		month = s.now().Format("2006-01")
	}
	prevMonth := forecast.AddMonths(month, -1)

	current, err := s.repo.MonthStats(ctx, month)
	if err != nil {
		return nil, s.internal("failed to load month stats", err)
	}
	prev, err := s.repo.MonthStats(ctx, prevMonth)
	if err != nil {
		return nil, s.internal("failed to load month stats", err)
	}
	balance, err := s.repo.LatestBalance(ctx)
	if err != nil {
		return nil, s.internal("failed to load latest balance", err)
	}
	net, monthCount, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, s.internal("failed to load totals", err)
	}

	var avgSavings int64
	if monthCount > 0 {
		avgSavings = forecast.Round(decimal.NewFromInt(net).Div(decimal.NewFromInt(monthCount)))
	}

	return &Summary{
		CurrentMonth:      month,
		PrevMonth:         prevMonth,
		Current:           periodSummary(current),
		Prev:              periodSummary(prev),
		TotalAssets:       balance,
		TotalMonths:       monthCount,
		AvgMonthlySavings: avgSavings,
	}, nil
}

func (s *Service) Trend(ctx context.Context, months int) ([]TrendPoint, error) {
	points, err := s.repo.CategoryTrend(ctx, clampMonths(months, DefaultTrendMonths))
	if err != nil {
		return nil, s.internal("failed to load category trend", err)
	}
	return points, nil
}

// Forecast projects assets from the most recent rollups and the latest
// known balance.
func (s *Service) Forecast(ctx context.Context) (*forecast.Result, error) {
	points, err := s.repo.Monthly(ctx, forecast.HistoryMonths)
	if err != nil {
		return nil, s.internal("failed to load forecast history", err)
	}
	balance, err := s.repo.LatestBalance(ctx)
	if err != nil {
		return nil, s.internal("failed to load latest balance", err)
	}

	history := make([]forecast.MonthTotals, 0, len(points))
	for _, p := range points {
		history = append(history, forecast.MonthTotals{Month: p.Month, Income: p.Income, Expense: p.Expense})
	}

	result := forecast.Compute(history, balance)
	return &result, nil
}

func (s *Service) internal(message string, err error) error {
	s.logger.Error(message, "error", err)
	return errors.NewInternalError(message, err)
}

func periodSummary(stats MonthStats) PeriodSummary {
	p := PeriodSummary{
		Income:  stats.Income,
		Expense: stats.Expense,
		Savings: stats.Income - stats.Expense,
	}
	if stats.Income != 0 {
		p.SavingRate = forecast.Round(decimal.NewFromInt(p.Savings).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(stats.Income)))
	}
	return p
}

func clampMonths(months, def int) int {
	if months <= 0 {
		return def
	}
	if months > MaxMonths {
		return MaxMonths
	}
	return months
}

func reverse(points []MonthlyPoint) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}
