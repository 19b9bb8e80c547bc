package statement

import (
	"github.com/frahmantamala/household-finance/internal/transaction"
)

// Record is one normalized statement row, before classification.
type Record struct {
	Date     string
	Time     string
	Type     transaction.Type
	Merchant string
	Amount   int64
	Balance  int64
	Memo     string
	Month    string
}

// ToTransaction attaches the assigned category and provenance.
func (r Record) ToTransaction(categoryID int64, sourceFile string) *transaction.Transaction {
	return &transaction.Transaction{
		Date:       r.Date,
		Time:       r.Time,
		Type:       r.Type,
		Merchant:   r.Merchant,
		Amount:     r.Amount,
		Balance:    r.Balance,
		Memo:       r.Memo,
		CategoryID: &categoryID,
		Month:      r.Month,
		SourceFile: sourceFile,
	}
}
