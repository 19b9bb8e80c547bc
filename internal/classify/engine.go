// Package classify assigns a category to each statement row from the
// user's keyword rules.
package classify

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/frahmantamala/household-finance/internal/statement"
	"github.com/frahmantamala/household-finance/internal/transaction"
)

type Rule struct {
	ID         int64
	Keyword    string
	CategoryID int64
	Priority   int
}

type compiledRule struct {
	id         int64
	keyword    string
	categoryID int64
	priority   int
	length     int
}

// Engine is an immutable, pre-sorted rule set. Build one per batch.
type Engine struct {
	rules    []compiledRule
	incomeID int64
	otherID  int64
}

// NewEngine orders rules by priority, then keyword length, then id, so that
// the most specific keyword wins a tie. Length is measured on the keyword as
// it is matched, after trimming and lowercasing.
func NewEngine(rules []Rule, incomeID, otherID int64) *Engine {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		kw := strings.ToLower(strings.TrimSpace(r.Keyword))
		if kw == "" {
			continue
		}
		compiled = append(compiled, compiledRule{
			id:         r.ID,
			keyword:    kw,
			categoryID: r.CategoryID,
			priority:   r.Priority,
			length:     utf8.RuneCountInString(kw),
		})
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		a, b := compiled[i], compiled[j]
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		if a.length != b.length {
			return a.length > b.length
		}
		return a.id < b.id
	})

	return &Engine{
		rules:    compiled,
		incomeID: incomeID,
		otherID:  otherID,
	}
}

// Classify never fails: income rows go to the income category and
// unmatched rows fall back to "Other".
func (e *Engine) Classify(rec statement.Record) int64 {
	if rec.Type == transaction.TypeIncome {
		return e.incomeID
	}

	text := strings.ToLower(rec.Merchant + " " + rec.Memo)
	for _, r := range e.rules {
		if strings.Contains(text, r.keyword) {
			return r.categoryID
		}
	}
	return e.otherID
}

// ClassifyBatch returns one category id per record, in input order.
func (e *Engine) ClassifyBatch(recs []statement.Record) []int64 {
	out := make([]int64, len(recs))
	for i, rec := range recs {
		out[i] = e.Classify(rec)
	}
	return out
}
