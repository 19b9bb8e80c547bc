package category

import (
	categoryDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/category"
)

const (
	// IncomeName and OtherName are the two categories the classifier falls
	// back to. They cannot be deleted or renamed.
	IncomeName = "Income"
	OtherName  = "Other"

	DefaultColor = "#6B7280"
	DefaultIcon  = "📦"
)

type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	Budget    int64  `json:"budget"`
	SortOrder int    `json:"sort_order"`
}

func (c *Category) IsProtected() bool {
	return IsProtectedName(c.Name)
}

func (c *Category) HasBudget() bool {
	return c.Budget > 0
}

func IsProtectedName(name string) bool {
	return name == IncomeName || name == OtherName
}

// NewCategory fills in the default color and icon when they are empty.
func NewCategory(name, color, icon string, budget int64, sortOrder int) *Category {
	if color == "" {
		color = DefaultColor
	}
	if icon == "" {
		icon = DefaultIcon
	}
	return &Category{
		Name:      name,
		Color:     color,
		Icon:      icon,
		Budget:    budget,
		SortOrder: sortOrder,
	}
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		Icon:      c.Icon,
		Budget:    c.Budget,
		SortOrder: c.SortOrder,
	}
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:        c.ID,
		Name:      c.Name,
		Color:     c.Color,
		Icon:      c.Icon,
		Budget:    c.Budget,
		SortOrder: c.SortOrder,
	}
}
