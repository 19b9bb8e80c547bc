package repository

import (
	"context"
	"errors"

	"github.com/frahmantamala/household-finance/internal/classify"
	categoryDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/category"
	ruleDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/rule"
	"gorm.io/gorm"
)

// RuleSource reads rules through whatever handle it is given, including a
// transaction handle during ingestion.
type RuleSource struct {
	db *gorm.DB
}

func NewRuleSource(db *gorm.DB) classify.RuleSource {
	return &RuleSource{db: db}
}

func (s *RuleSource) Rules(ctx context.Context) ([]classify.Rule, error) {
	var rows []ruleDatamodel.Rule
	err := s.db.WithContext(ctx).
		Order("priority DESC").
		Order("LENGTH(keyword) DESC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	rules := make([]classify.Rule, 0, len(rows))
	for _, r := range rows {
		rules = append(rules, classify.Rule{
			ID:         r.ID,
			Keyword:    r.Keyword,
			CategoryID: r.CategoryID,
			Priority:   r.Priority,
		})
	}
	return rules, nil
}

func (s *RuleSource) CategoryIDByName(ctx context.Context, name string) (int64, error) {
	var cat categoryDatamodel.Category
	err := s.db.WithContext(ctx).Select("id").Where("name = ?", name).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return cat.ID, nil
}
