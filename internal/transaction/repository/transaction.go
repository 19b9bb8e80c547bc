package repository

import (
	"context"
	"errors"

	categoryDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/transaction"
	"github.com/frahmantamala/household-finance/internal/transaction"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) WithTx(tx *gorm.DB) transaction.RepositoryAPI {
	return &TransactionRepository{db: tx}
}

func (r *TransactionRepository) filtered(ctx context.Context, filter transaction.ListFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Table("transactions AS t")
	if filter.Month != "" {
		q = q.Where("t.month = ?", filter.Month)
	}
	if filter.CategoryID != nil {
		q = q.Where("t.category_id = ?", *filter.CategoryID)
	}
	if filter.Type != "" {
		q = q.Where("t.type = ?", string(filter.Type))
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("(t.merchant LIKE ? OR t.memo LIKE ?)", like, like)
	}
	return q
}

func (r *TransactionRepository) List(ctx context.Context, filter transaction.ListFilter) ([]*transactionDatamodel.TransactionWithCategory, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*transactionDatamodel.TransactionWithCategory
	err := r.filtered(ctx, filter).
		Select("t.*, c.name AS category_name, c.color AS category_color, c.icon AS category_icon").
		Joins("LEFT JOIN categories c ON t.category_id = c.id").
		Order("t.date DESC, t.time DESC, t.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *TransactionRepository) Months(ctx context.Context) ([]string, error) {
	var months []string
	err := r.db.WithContext(ctx).
		Model(&transactionDatamodel.Transaction{}).
		Distinct("month").
		Order("month DESC").
		Pluck("month", &months).Error
	return months, err
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transactionDatamodel.Transaction, error) {
	var t transactionDatamodel.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&categoryDatamodel.Category{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *TransactionRepository) UpdateCategory(ctx context.Context, id, categoryID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&transactionDatamodel.Transaction{}).
		Where("id = ?", id).
		Update("category_id", categoryID)
	return res.RowsAffected > 0, res.Error
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&transactionDatamodel.Transaction{}, id).Error
}

// ExistsByKey reports whether a row with the same natural key is stored.
func (r *TransactionRepository) ExistsByKey(ctx context.Context, key transaction.NaturalKey) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&transactionDatamodel.Transaction{}).
		Where("date = ? AND time = ? AND merchant = ? AND amount = ? AND type = ?",
			key.Date, key.Time, key.Merchant, key.Amount, string(key.Type)).
		Count(&count).Error
	return count > 0, err
}

func (r *TransactionRepository) Create(ctx context.Context, t *transactionDatamodel.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}
