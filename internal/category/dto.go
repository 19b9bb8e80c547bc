package category

import (
	"strings"

	errors "github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/core/common/validation"
)

type CreateCategoryDTO struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Icon   string `json:"icon"`
	Budget int64  `json:"budget"`
}

func (dto *CreateCategoryDTO) Validate() error {
	dto.Name = strings.TrimSpace(dto.Name)

	v := validation.NewValidator()
	v.Field("name", dto.Name).
		Required(errors.ErrCodeInvalidName).
		MaxLength(50, errors.ErrCodeInvalidName)
	v.Field("color", dto.Color).HexColor()
	v.Field("budget", dto.Budget).MinInt(0, errors.ErrCodeInvalidBudget)
	return v.Validate()
}

// UpdateCategoryDTO is a partial update; nil fields are left unchanged.
type UpdateCategoryDTO struct {
	Name   *string `json:"name"`
	Color  *string `json:"color"`
	Icon   *string `json:"icon"`
	Budget *int64  `json:"budget"`
}

func (dto *UpdateCategoryDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Name != nil {
		trimmed := strings.TrimSpace(*dto.Name)
		dto.Name = &trimmed
		v.Field("name", trimmed).
			Required(errors.ErrCodeInvalidName).
			MaxLength(50, errors.ErrCodeInvalidName)
	}
	if dto.Color != nil {
		v.Field("color", *dto.Color).HexColor()
	}
	if dto.Budget != nil {
		v.Field("budget", *dto.Budget).MinInt(0, errors.ErrCodeInvalidBudget)
	}
	return v.Validate()
}

type DeleteResponse struct {
	Success      bool  `json:"success"`
	Reassigned   int64 `json:"reassigned"`
	RulesDeleted int64 `json:"rules_deleted"`
}
