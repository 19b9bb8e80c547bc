package monthlyasset

import "time"

type MonthlyAsset struct {
	ID           int64     `gorm:"primaryKey"`
	Month        string    `gorm:"column:month;uniqueIndex;not null"`
	TotalIncome  int64     `gorm:"column:total_income;default:0"`
	TotalExpense int64     `gorm:"column:total_expense;default:0"`
	NetSavings   int64     `gorm:"column:net_savings;default:0"`
	TotalAssets  int64     `gorm:"column:total_assets;default:0"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (MonthlyAsset) TableName() string {
	return "monthly_assets"
}
