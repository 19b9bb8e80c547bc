package rule

type Rule struct {
	ID         int64  `gorm:"primaryKey"`
	Keyword    string `gorm:"column:keyword;not null"`
	CategoryID int64  `gorm:"column:category_id;not null;index"`
	Priority   int    `gorm:"column:priority;default:0"`
}

func (Rule) TableName() string {
	return "rules"
}

// RuleWithCategory is a rule joined with the display fields of its category.
type RuleWithCategory struct {
	Rule
	CategoryName  *string `gorm:"column:category_name"`
	CategoryColor *string `gorm:"column:category_color"`
	CategoryIcon  *string `gorm:"column:category_icon"`
}
