package repository

import (
	"context"
	"errors"

	"github.com/frahmantamala/household-finance/internal/category"
	categoryDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/category"
	ruleDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/rule"
	transactionDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/transaction"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetAll(ctx context.Context) ([]*categoryDatamodel.Category, error) {
	var categories []*categoryDatamodel.Category
	err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) MaxSortOrder(ctx context.Context) (int, error) {
	var maxSort int
	err := r.db.WithContext(ctx).
		Model(&categoryDatamodel.Category{}).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&maxSort).Error
	return maxSort, err
}

func (r *CategoryRepository) Create(ctx context.Context, cat *categoryDatamodel.Category) error {
	return r.db.WithContext(ctx).Create(cat).Error
}

func (r *CategoryRepository) Update(ctx context.Context, cat *categoryDatamodel.Category) error {
	return r.db.WithContext(ctx).Save(cat).Error
}

func (r *CategoryRepository) DeleteReassigning(ctx context.Context, id, fallbackID int64) (int64, int64, error) {
	var reassigned, rulesDeleted int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&transactionDatamodel.Transaction{}).
			Where("category_id = ?", id).
			Update("category_id", fallbackID)
		if res.Error != nil {
			return res.Error
		}
		reassigned = res.RowsAffected

		// rules cascade in the schema, but foreign keys may be off on sqlite
		res = tx.Where("category_id = ?", id).Delete(&ruleDatamodel.Rule{})
		if res.Error != nil {
			return res.Error
		}
		rulesDeleted = res.RowsAffected

		return tx.Delete(&categoryDatamodel.Category{}, id).Error
	})

	return reassigned, rulesDeleted, err
}
