// Package forecast projects future assets from a least-squares trend over
// recent monthly savings.
package forecast

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// HistoryMonths is how many of the most recent months feed the trend.
const HistoryMonths = 6

// Horizons are the projection windows, in months.
var Horizons = []int{6, 12, 36}

const insufficientMessage = "not enough data for a forecast: at least 2 months of history are required"

type MonthTotals struct {
	Month   string `json:"month"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

func (m MonthTotals) Savings() int64 {
	return m.Income - m.Expense
}

type MonthDetail struct {
	Month           string `json:"month"`
	ProjectedSaving int64  `json:"projected_saving"`
	ProjectedAssets int64  `json:"projected_assets"`
}

type Projection struct {
	Period         string        `json:"period"`
	Months         int           `json:"months"`
	ProjectedTotal int64         `json:"projected_total"`
	MonthlyDetail  []MonthDetail `json:"monthly_detail"`
}

type Result struct {
	InsufficientData bool          `json:"insufficient_data"`
	Message          string        `json:"message,omitempty"`
	CurrentAssets    int64         `json:"current_assets"`
	AvgMonthlySaving int64         `json:"avg_monthly_saving"`
	AvgMonthlyIncome int64         `json:"avg_monthly_income"`
	SavingRate       int64         `json:"saving_rate"`
	TrendPerMonth    int64         `json:"trend_per_month"`
	HistoryMonths    int           `json:"history_months"`
	History          []MonthTotals `json:"history"`
	Forecasts        []Projection  `json:"forecasts"`
}

// Insufficient is the result for fewer than two months of history.
func Insufficient(currentBalance int64) Result {
	return Result{
		InsufficientData: true,
		Message:          insufficientMessage,
		CurrentAssets:    currentBalance,
		History:          []MonthTotals{},
		Forecasts:        []Projection{},
	}
}

// Compute fits the trend to the most recent HistoryMonths of history and
// projects each horizon from currentBalance. Accumulation is exact; values
// are rounded only when written to the result.
func Compute(history []MonthTotals, currentBalance int64) Result {
	recent := latest(history, HistoryMonths)
	n := len(recent)
	if n < 2 {
		return Insufficient(currentBalance)
	}

	nDec := decimal.NewFromInt(int64(n))
	sumSaving, sumIncome := decimal.Zero, decimal.Zero
	for _, m := range recent {
		sumSaving = sumSaving.Add(decimal.NewFromInt(m.Savings()))
		sumIncome = sumIncome.Add(decimal.NewFromInt(m.Income))
	}
	avgSaving := sumSaving.Div(nDec)
	avgIncome := sumIncome.Div(nDec)

	slope := Slope(recent)

	savingRate := decimal.Zero
	if avgIncome.IsPositive() {
		savingRate = avgSaving.Div(avgIncome).Mul(decimal.NewFromInt(100))
	}

	lastMonth := recent[n-1].Month
	forecasts := make([]Projection, 0, len(Horizons))
	for _, k := range Horizons {
		forecasts = append(forecasts, project(k, lastMonth, currentBalance, avgSaving, slope))
	}

	return Result{
		CurrentAssets:    currentBalance,
		AvgMonthlySaving: Round(avgSaving),
		AvgMonthlyIncome: Round(avgIncome),
		SavingRate:       Round(savingRate),
		TrendPerMonth:    Round(slope),
		HistoryMonths:    n,
		History:          recent,
		Forecasts:        forecasts,
	}
}

// Slope is the ordinary least-squares slope of savings against month index.
// A degenerate x variance yields zero.
func Slope(history []MonthTotals) decimal.Decimal {
	n := len(history)
	if n < 2 {
		return decimal.Zero
	}

	nDec := decimal.NewFromInt(int64(n))
	xMean := decimal.NewFromInt(int64(n - 1)).Div(decimal.NewFromInt(2))

	yMean := decimal.Zero
	for _, m := range history {
		yMean = yMean.Add(decimal.NewFromInt(m.Savings()))
	}
	yMean = yMean.Div(nDec)

	num, den := decimal.Zero, decimal.Zero
	for i, m := range history {
		dx := decimal.NewFromInt(int64(i)).Sub(xMean)
		dy := decimal.NewFromInt(m.Savings()).Sub(yMean)
		num = num.Add(dx.Mul(dy))
		den = den.Add(dx.Mul(dx))
	}
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

func project(months int, lastMonth string, currentBalance int64, avgSaving, slope decimal.Decimal) Projection {
	total := decimal.NewFromInt(currentBalance)
	detail := make([]MonthDetail, 0, months)

	for i := 1; i <= months; i++ {
		saving := avgSaving.Add(slope.Mul(decimal.NewFromInt(int64(i))))
		if saving.IsNegative() {
			saving = decimal.Zero
		}
		total = total.Add(saving)

		detail = append(detail, MonthDetail{
			Month:           AddMonths(lastMonth, i),
			ProjectedSaving: Round(saving),
			ProjectedAssets: Round(total),
		})
	}

	return Projection{
		Period:         fmt.Sprintf("%d months", months),
		Months:         months,
		ProjectedTotal: Round(total),
		MonthlyDetail:  detail,
	}
}

// AddMonths returns the YYYY-MM label i months after month, or "" when month
// is not a valid label.
func AddMonths(month string, i int) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return ""
	}
	return t.AddDate(0, i, 0).Format("2006-01")
}

func latest(history []MonthTotals, n int) []MonthTotals {
	sorted := make([]MonthTotals, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Month < sorted[j].Month })
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

var half = decimal.New(5, -1)

// Round rounds halves toward positive infinity, so -2.5 becomes -2.
func Round(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}
