// Package analytics serves the read-only dashboard views: the monthly series,
// the category breakdown, the month summary, the category trend and the
// asset forecast.
package analytics

type MonthlyPoint struct {
	Month       string `json:"month" db:"month"`
	Income      int64  `json:"income" db:"total_income"`
	Expense     int64  `json:"expense" db:"total_expense"`
	Savings     int64  `json:"savings" db:"net_savings"`
	TotalAssets int64  `json:"total_assets" db:"total_assets"`
}

// CategoryTotal is one category's sum for a type and month. The category
// fields are nil for transactions without a category.
type CategoryTotal struct {
	ID     *int64  `json:"id" db:"id"`
	Name   *string `json:"name" db:"name"`
	Color  *string `json:"color" db:"color"`
	Icon   *string `json:"icon" db:"icon"`
	Budget *int64  `json:"budget" db:"budget"`
	Total  int64   `json:"total" db:"total"`
	Count  int64   `json:"count" db:"count"`
}

type CategoryBreakdown struct {
	CategoryTotal
	// Percentage is the share of the type's total for the month, to one decimal.
	Percentage float64 `json:"percentage"`
}

type MonthStats struct {
	Income  int64 `db:"income"`
	Expense int64 `db:"expense"`
}

type PeriodSummary struct {
	Income     int64 `json:"income"`
	Expense    int64 `json:"expense"`
	Savings    int64 `json:"savings"`
	SavingRate int64 `json:"saving_rate"`
}

type Summary struct {
	CurrentMonth      string        `json:"current_month"`
	PrevMonth         string        `json:"prev_month"`
	Current           PeriodSummary `json:"current"`
	Prev              PeriodSummary `json:"prev"`
	TotalAssets       int64         `json:"total_assets"`
	TotalMonths       int64         `json:"total_months"`
	AvgMonthlySavings int64         `json:"avg_monthly_savings"`
}

type TrendPoint struct {
	Month    string  `json:"month" db:"month"`
	Category *string `json:"category" db:"category"`
	Color    *string `json:"color" db:"color"`
	Total    int64   `json:"total" db:"total"`
}
