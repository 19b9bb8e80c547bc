package category

type Category struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"column:name;uniqueIndex;not null"`
	Color     string `gorm:"column:color;not null;default:#6B7280"`
	Icon      string `gorm:"column:icon"`
	Budget    int64  `gorm:"column:budget;default:0"`
	SortOrder int    `gorm:"column:sort_order;default:0"`
}

func (Category) TableName() string {
	return "categories"
}
