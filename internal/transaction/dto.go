package transaction

import (
	"strconv"

	errors "github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/core/common/validation"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

type ListFilter struct {
	Page       int
	Limit      int
	Month      string
	CategoryID *int64
	Type       Type
	Search     string
}

// Normalize clamps paging to sane bounds.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

func (f ListFilter) Validate() error {
	if f.Month != "" {
		if err := validation.ValidateMonth(f.Month); err != nil {
			return err
		}
	}
	return nil
}

// ParseListFilter reads the listing query parameters. Unparseable paging
// values fall back to defaults; a bad type or category is a validation error.
func ParseListFilter(get func(string) string) (ListFilter, error) {
	f := ListFilter{
		Month:  get("month"),
		Search: get("search"),
	}
	if v, err := strconv.Atoi(get("page")); err == nil {
		f.Page = v
	}
	if v, err := strconv.Atoi(get("limit")); err == nil {
		f.Limit = v
	}
	if raw := get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, errors.NewValidationFieldError("category", "category must be a numeric id", errors.ErrCodeInvalidCategory)
		}
		f.CategoryID = &id
	}
	if raw := get("type"); raw != "" {
		t, ok := ParseType(raw)
		if !ok {
			return f, errors.NewValidationFieldError("type", "type must be income or expense", errors.ErrCodeInvalidType)
		}
		f.Type = t
	}
	f.Normalize()
	return f, nil
}

type ListResponse struct {
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Data  []*Transaction `json:"data"`
}

type UpdateCategoryDTO struct {
	CategoryID int64 `json:"category_id"`
}

func (dto UpdateCategoryDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("category_id", dto.CategoryID).Required(errors.ErrCodeInvalidCategory)
	return v.Validate()
}
