// Package monthlyasset maintains the per-month income and expense rollup.
// Rows are always recomputed from the stored transactions, never adjusted by
// deltas, so the table can be dropped and rebuilt at any time.
package monthlyasset

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	monthlyassetDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/monthlyasset"
	transactionDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/transaction"
	"github.com/frahmantamala/household-finance/internal/transaction"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MonthlyAsset struct {
	Month        string    `json:"month"`
	TotalIncome  int64     `json:"total_income"`
	TotalExpense int64     `json:"total_expense"`
	NetSavings   int64     `json:"net_savings"`
	TotalAssets  int64     `json:"total_assets"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func FromDataModel(m *monthlyassetDatamodel.MonthlyAsset) *MonthlyAsset {
	return &MonthlyAsset{
		Month:        m.Month,
		TotalIncome:  m.TotalIncome,
		TotalExpense: m.TotalExpense,
		NetSavings:   m.NetSavings,
		TotalAssets:  m.TotalAssets,
		UpdatedAt:    m.UpdatedAt,
	}
}

type monthTotals struct {
	Income  int64
	Expense int64
	Count   int64
}

type Maintainer struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewMaintainer(db *gorm.DB, logger *slog.Logger) *Maintainer {
	return &Maintainer{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// WithTx returns a maintainer that writes through tx.
func (m *Maintainer) WithTx(tx *gorm.DB) *Maintainer {
	return &Maintainer{
		db:     tx,
		logger: m.logger,
		now:    m.now,
	}
}

// Recompute rebuilds the rollup row of each given month. A month with no
// transactions left loses its row.
func (m *Maintainer) Recompute(ctx context.Context, months ...string) error {
	for _, month := range distinct(months) {
		if err := m.recomputeMonth(ctx, month); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeTx is Recompute inside a transaction owned by the caller.
func (m *Maintainer) RecomputeTx(ctx context.Context, tx *gorm.DB, months ...string) error {
	return m.WithTx(tx).Recompute(ctx, months...)
}

func (m *Maintainer) recomputeMonth(ctx context.Context, month string) error {
	db := m.db.WithContext(ctx)

	var totals monthTotals
	err := db.Model(&transactionDatamodel.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS income, "+
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) AS expense, "+
			"COUNT(*) AS count",
			string(transaction.TypeIncome), string(transaction.TypeExpense)).
		Where("month = ?", month).
		Scan(&totals).Error
	if err != nil {
		return err
	}

	if totals.Count == 0 {
		m.logger.Debug("month emptied, dropping rollup", "month", month)
		return db.Where("month = ?", month).Delete(&monthlyassetDatamodel.MonthlyAsset{}).Error
	}

	var last transactionDatamodel.Transaction
	err = db.Select("balance").
		Where("month = ?", month).
		Order("date DESC, time DESC, id DESC").
		Take(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	row := monthlyassetDatamodel.MonthlyAsset{
		Month:        month,
		TotalIncome:  totals.Income,
		TotalExpense: totals.Expense,
		NetSavings:   totals.Income - totals.Expense,
		TotalAssets:  last.Balance,
		UpdatedAt:    m.now(),
	}

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_income", "total_expense", "net_savings", "total_assets", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return err
	}

	m.logger.Debug("rollup recomputed",
		"month", month,
		"income", row.TotalIncome,
		"expense", row.TotalExpense,
		"net_savings", row.NetSavings)
	return nil
}

// RebuildAll recomputes every month that has transactions and drops rollup
// rows whose month no longer has any.
func (m *Maintainer) RebuildAll(ctx context.Context) ([]string, error) {
	db := m.db.WithContext(ctx)

	var months []string
	if err := db.Model(&transactionDatamodel.Transaction{}).Distinct("month").Order("month").Pluck("month", &months).Error; err != nil {
		return nil, err
	}

	var stale []string
	if err := db.Model(&monthlyassetDatamodel.MonthlyAsset{}).Pluck("month", &stale).Error; err != nil {
		return nil, err
	}

	if err := m.Recompute(ctx, append(months, stale...)...); err != nil {
		return nil, err
	}

	m.logger.Info("rollups rebuilt", "months", len(months))
	return months, nil
}

// List returns every rollup row in month order.
func (m *Maintainer) List(ctx context.Context) ([]*MonthlyAsset, error) {
	var rows []*monthlyassetDatamodel.MonthlyAsset
	if err := m.db.WithContext(ctx).Order("month ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*MonthlyAsset, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, nil
}

func distinct(months []string) []string {
	seen := make(map[string]struct{}, len(months))
	out := make([]string, 0, len(months))
	for _, month := range months {
		if month == "" {
			continue
		}
		if _, ok := seen[month]; ok {
			continue
		}
		seen[month] = struct{}{}
		out = append(out, month)
	}
	sort.Strings(out)
	return out
}
