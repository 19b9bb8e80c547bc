package transaction

import (
	"strings"
	"time"

	transactionDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/transaction"
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// ParseType accepts the canonical type names, case-insensitively.
func ParseType(s string) (Type, bool) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeIncome:
		return TypeIncome, true
	case TypeExpense:
		return TypeExpense, true
	}
	return "", false
}

type Transaction struct {
	ID            int64     `json:"id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Type          Type      `json:"type"`
	Merchant      string    `json:"merchant"`
	Amount        int64     `json:"amount"`
	Balance       int64     `json:"balance"`
	Memo          string    `json:"memo"`
	CategoryID    *int64    `json:"category_id"`
	CategoryName  *string   `json:"category_name,omitempty"`
	CategoryColor *string   `json:"category_color,omitempty"`
	CategoryIcon  *string   `json:"category_icon,omitempty"`
	Month         string    `json:"month"`
	SourceFile    string    `json:"source_file"`
	CreatedAt     time.Time `json:"created_at"`
}

// NaturalKey identifies the same bank event across re-exports of a statement.
// Balance and memo are deliberately not part of it.
type NaturalKey struct {
	Date     string
	Time     string
	Merchant string
	Amount   int64
	Type     Type
}

func (t *Transaction) Key() NaturalKey {
	return NaturalKey{
		Date:     t.Date,
		Time:     t.Time,
		Merchant: t.Merchant,
		Amount:   t.Amount,
		Type:     t.Type,
	}
}

func ToDataModel(t *Transaction) *transactionDatamodel.Transaction {
	return &transactionDatamodel.Transaction{
		ID:         t.ID,
		Date:       t.Date,
		Time:       t.Time,
		Type:       string(t.Type),
		Merchant:   t.Merchant,
		Amount:     t.Amount,
		Balance:    t.Balance,
		Memo:       t.Memo,
		CategoryID: t.CategoryID,
		Month:      t.Month,
		SourceFile: t.SourceFile,
		CreatedAt:  t.CreatedAt,
	}
}

func FromDataModel(t *transactionDatamodel.Transaction) *Transaction {
	return &Transaction{
		ID:         t.ID,
		Date:       t.Date,
		Time:       t.Time,
		Type:       Type(t.Type),
		Merchant:   t.Merchant,
		Amount:     t.Amount,
		Balance:    t.Balance,
		Memo:       t.Memo,
		CategoryID: t.CategoryID,
		Month:      t.Month,
		SourceFile: t.SourceFile,
		CreatedAt:  t.CreatedAt,
	}
}

func FromJoinedDataModel(t *transactionDatamodel.TransactionWithCategory) *Transaction {
	out := FromDataModel(&t.Transaction)
	out.CategoryName = t.CategoryName
	out.CategoryColor = t.CategoryColor
	out.CategoryIcon = t.CategoryIcon
	return out
}
