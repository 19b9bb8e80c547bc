package rule

import (
	ruleDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/rule"
)

type Rule struct {
	ID            int64   `json:"id"`
	Keyword       string  `json:"keyword"`
	CategoryID    int64   `json:"category_id"`
	Priority      int     `json:"priority"`
	CategoryName  *string `json:"category_name,omitempty"`
	CategoryColor *string `json:"category_color,omitempty"`
	CategoryIcon  *string `json:"category_icon,omitempty"`
}

func ToDataModel(r *Rule) *ruleDatamodel.Rule {
	return &ruleDatamodel.Rule{
		ID:         r.ID,
		Keyword:    r.Keyword,
		CategoryID: r.CategoryID,
		Priority:   r.Priority,
	}
}

func FromDataModel(r *ruleDatamodel.RuleWithCategory) *Rule {
	return &Rule{
		ID:            r.ID,
		Keyword:       r.Keyword,
		CategoryID:    r.CategoryID,
		Priority:      r.Priority,
		CategoryName:  r.CategoryName,
		CategoryColor: r.CategoryColor,
		CategoryIcon:  r.CategoryIcon,
	}
}
