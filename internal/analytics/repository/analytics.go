package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frahmantamala/household-finance/internal/analytics"
	"github.com/frahmantamala/household-finance/internal/transaction"
	"github.com/jmoiron/sqlx"
)

// AnalyticsRepository runs the aggregate queries through sqlx. Queries are
// written with ? placeholders and rebound for the connected driver.
type AnalyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) Monthly(ctx context.Context, limit int) ([]analytics.MonthlyPoint, error) {
	query := r.db.Rebind(`
SELECT month, total_income, total_expense, net_savings, total_assets
FROM monthly_assets
ORDER BY month DESC
LIMIT ?`)

	points := []analytics.MonthlyPoint{}
	if err := r.db.SelectContext(ctx, &points, query, limit); err != nil {
		return nil, fmt.Errorf("monthly query: %w", err)
	}
	return points, nil
}

func (r *AnalyticsRepository) CategoryTotals(ctx context.Context, month string, txType transaction.Type) ([]analytics.CategoryTotal, error) {
	where := "WHERE t.type = ?"
	args := []interface{}{string(txType)}
	if month != "" {
		where += " AND t.month = ?"
		args = append(args, month)
	}

	query := r.db.Rebind(`
SELECT c.id, c.name, c.color, c.icon, c.budget,
       CAST(COALESCE(SUM(t.amount), 0) AS BIGINT) AS total,
       COUNT(t.id) AS count
FROM transactions t
LEFT JOIN categories c ON t.category_id = c.id
` + where + `
GROUP BY t.category_id, c.id, c.name, c.color, c.icon, c.budget
ORDER BY total DESC`)

	totals := []analytics.CategoryTotal{}
	if err := r.db.SelectContext(ctx, &totals, query, args...); err != nil {
		return nil, fmt.Errorf("category totals query: %w", err)
	}
	return totals, nil
}

func (r *AnalyticsRepository) MonthStats(ctx context.Context, month string) (analytics.MonthStats, error) {
	query := r.db.Rebind(`
SELECT CAST(COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS BIGINT) AS income,
       CAST(COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS BIGINT) AS expense
FROM transactions
WHERE month = ?`)

	var stats analytics.MonthStats
	err := r.db.GetContext(ctx, &stats, query, string(transaction.TypeIncome), string(transaction.TypeExpense), month)
	if err != nil {
		return analytics.MonthStats{}, fmt.Errorf("month stats query: %w", err)
	}
	return stats, nil
}

// LatestBalance is the balance of the most recent transaction, or 0.
func (r *AnalyticsRepository) LatestBalance(ctx context.Context) (int64, error) {
	var balance int64
	err := r.db.GetContext(ctx, &balance, `
SELECT balance FROM transactions
ORDER BY date DESC, time DESC, id DESC
LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("latest balance query: %w", err)
	}
	return balance, nil
}

// Totals returns the net of all income minus all expense and the number of
// distinct months with transactions.
func (r *AnalyticsRepository) Totals(ctx context.Context) (net int64, months int64, err error) {
	query := r.db.Rebind(`
SELECT CAST(COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0) AS BIGINT) AS net,
       COUNT(DISTINCT month) AS months
FROM transactions`)

	var row struct {
		Net    int64 `db:"net"`
		Months int64 `db:"months"`
	}
	if err := r.db.GetContext(ctx, &row, query, string(transaction.TypeIncome)); err != nil {
		return 0, 0, fmt.Errorf("totals query: %w", err)
	}
	return row.Net, row.Months, nil
}

// CategoryTrend sums expenses per month and category over the most recent
// months that have transactions.
func (r *AnalyticsRepository) CategoryTrend(ctx context.Context, months int) ([]analytics.TrendPoint, error) {
	query := r.db.Rebind(`
SELECT t.month, c.name AS category, c.color,
       CAST(COALESCE(SUM(t.amount), 0) AS BIGINT) AS total
FROM transactions t
LEFT JOIN categories c ON t.category_id = c.id
WHERE t.type = ?
  AND t.month IN (
    SELECT month FROM (
      SELECT DISTINCT month FROM transactions ORDER BY month DESC LIMIT ?
    ) recent
  )
GROUP BY t.month, t.category_id, c.name, c.color
ORDER BY t.month ASC, total DESC`)

	points := []analytics.TrendPoint{}
	if err := r.db.SelectContext(ctx, &points, query, string(transaction.TypeExpense), months); err != nil {
		return nil, fmt.Errorf("category trend query: %w", err)
	}
	return points, nil
}
