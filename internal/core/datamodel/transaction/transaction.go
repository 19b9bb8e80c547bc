package transaction

import "time"

type Transaction struct {
	ID         int64     `gorm:"primaryKey"`
	Date       string    `gorm:"column:date;not null;index:idx_transactions_date;index:idx_transactions_natural_key,priority:1"`
	Time       string    `gorm:"column:time;default:'';index:idx_transactions_natural_key,priority:2"`
	Type       string    `gorm:"column:type;not null;index:idx_transactions_natural_key,priority:5"`
	Merchant   string    `gorm:"column:merchant;default:'';index:idx_transactions_natural_key,priority:3"`
	Amount     int64     `gorm:"column:amount;not null;default:0;index:idx_transactions_natural_key,priority:4"`
	Balance    int64     `gorm:"column:balance;default:0"`
	Memo       string    `gorm:"column:memo;default:''"`
	CategoryID *int64    `gorm:"column:category_id;index:idx_transactions_category"`
	Month      string    `gorm:"column:month;not null;index:idx_transactions_month"`
	SourceFile string    `gorm:"column:source_file;default:''"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// TransactionWithCategory is a transaction joined with its category display fields.
type TransactionWithCategory struct {
	Transaction
	CategoryName  *string `gorm:"column:category_name"`
	CategoryColor *string `gorm:"column:category_color"`
	CategoryIcon  *string `gorm:"column:category_icon"`
}
