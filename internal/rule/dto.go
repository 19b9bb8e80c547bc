package rule

import (
	"strings"

	errors "github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/core/common/validation"
)

type RuleDTO struct {
	Keyword    string `json:"keyword"`
	CategoryID int64  `json:"category_id"`
	Priority   int    `json:"priority"`
}

func (dto *RuleDTO) Validate() error {
	dto.Keyword = strings.TrimSpace(dto.Keyword)

	v := validation.NewValidator()
	v.Field("keyword", dto.Keyword).
		Required(errors.ErrCodeInvalidKeyword).
		MaxLength(100, errors.ErrCodeInvalidKeyword)
	v.Field("category_id", dto.CategoryID).
		Required(errors.ErrCodeInvalidCategory)
	return v.Validate()
}
