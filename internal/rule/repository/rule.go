package repository

import (
	"context"
	"errors"

	categoryDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/category"
	ruleDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/rule"
	"github.com/frahmantamala/household-finance/internal/rule"
	"gorm.io/gorm"
)

const joinedColumns = "r.*, c.name AS category_name, c.color AS category_color, c.icon AS category_icon"

type RuleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) rule.RepositoryAPI {
	return &RuleRepository{db: db}
}

func (r *RuleRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("rules AS r").
		Select(joinedColumns).
		Joins("LEFT JOIN categories c ON r.category_id = c.id")
}

func (r *RuleRepository) GetAll(ctx context.Context) ([]*ruleDatamodel.RuleWithCategory, error) {
	var rows []*ruleDatamodel.RuleWithCategory
	err := r.joined(ctx).Order("r.priority DESC, r.id ASC").Scan(&rows).Error
	return rows, err
}

func (r *RuleRepository) GetByID(ctx context.Context, id int64) (*ruleDatamodel.RuleWithCategory, error) {
	var rows []*ruleDatamodel.RuleWithCategory
	if err := r.joined(ctx).Where("r.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *RuleRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var cat categoryDatamodel.Category
	err := r.db.WithContext(ctx).Select("id").Where("id = ?", id).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *RuleRepository) Create(ctx context.Context, rl *ruleDatamodel.Rule) error {
	return r.db.WithContext(ctx).Create(rl).Error
}

func (r *RuleRepository) Update(ctx context.Context, rl *ruleDatamodel.Rule) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&ruleDatamodel.Rule{}).
		Where("id = ?", rl.ID).
		Updates(map[string]interface{}{
			"keyword":     rl.Keyword,
			"category_id": rl.CategoryID,
			"priority":    rl.Priority,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *RuleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&ruleDatamodel.Rule{}, id)
	return res.RowsAffected > 0, res.Error
}
