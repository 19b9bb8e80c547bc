package statement

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	errors "github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/transaction"
)

// Column aliases per logical field, in lookup order. Several bank export
// dialects name the same column differently.
var (
	dateColumns     = []string{"날짜", "거래일자", "거래일", "date"}
	timeColumns     = []string{"시간", "거래시간", "time"}
	typeColumns     = []string{"거래유형", "입출금", "유형", "type"}
	merchantColumns = []string{"거래처", "내용", "가맹점명", "merchant", "description"}
	amountColumns   = []string{"금액", "거래금액", "출금액", "입금액", "amount"}
	balanceColumns  = []string{"잔액", "거래후잔액", "계좌잔액", "balance"}
	memoColumns     = []string{"메모", "비고", "memo"}

	headerDateMarkers   = []string{"날짜", "거래일", "date"}
	headerAmountMarkers = []string{"금액", "amount"}
)

// row is one CSV line keyed by lowercased header name.
type row map[string]string

func (r row) first(aliases []string) string {
	for _, alias := range aliases {
		if v := r[alias]; v != "" {
			return v
		}
	}
	return ""
}

// Parse locates the header row, reads the table below it and returns the
// rows that look like real transactions. Rows that fail normalization are
// dropped; only a missing header, unreadable CSV or an empty result fail.
func Parse(text string) ([]Record, error) {
	text = strings.TrimPrefix(text, "\uFEFF")

	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if isHeaderLine(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, errors.ErrHeaderNotFound
	}

	reader := csv.NewReader(strings.NewReader(strings.Join(lines[start:], "\n")))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	table, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParseError(fmt.Sprintf("malformed CSV: %v", err), errors.ErrCodeMalformedCSV)
	}
	if len(table) < 2 {
		return nil, errors.ErrNoValidRows
	}

	header := make([]string, len(table[0]))
	for i, name := range table[0] {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF")))
	}

	records := make([]Record, 0, len(table)-1)
	for _, cells := range table[1:] {
		r := make(row, len(header))
		for i, name := range header {
			if i < len(cells) {
				r[name] = strings.TrimSpace(cells[i])
			}
		}
		if rec, ok := normalize(r); ok {
			records = append(records, rec)
		}
	}

	if len(records) == 0 {
		return nil, errors.ErrNoValidRows
	}
	return records, nil
}

func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	return containsAny(lower, headerDateMarkers) && containsAny(lower, headerAmountMarkers)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func normalize(r row) (Record, bool) {
	date := NormalizeDate(r.first(dateColumns))
	month := monthOf(date)

	rec := Record{
		Date:     date,
		Time:     r.first(timeColumns),
		Type:     NormalizeType(r.first(typeColumns)),
		Merchant: r.first(merchantColumns),
		Amount:   ParseAmount(r.first(amountColumns)),
		Balance:  ParseAmount(r.first(balanceColumns)),
		Memo:     r.first(memoColumns),
		Month:    month,
	}

	if rec.Date == "" || rec.Amount <= 0 || utf8.RuneCountInString(rec.Month) != 7 {
		return Record{}, false
	}
	return rec, true
}

// NormalizeType maps a free-form type cell to income or expense. Anything
// unrecognized counts as an expense.
func NormalizeType(raw string) transaction.Type {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "입금"), strings.Contains(s, "deposit"),
		s == "in", s == "수입", s == "income":
		return transaction.TypeIncome
	case strings.Contains(s, "출금"), strings.Contains(s, "withdraw"),
		s == "out", s == "지출", s == "expense":
		return transaction.TypeExpense
	}
	return transaction.TypeExpense
}

// ParseAmount keeps only the digits of raw. Signs and separators are
// dropped; direction comes from the type column.
func ParseAmount(raw string) int64 {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func NormalizeDate(raw string) string {
	return strings.TrimSpace(strings.NewReplacer(".", "-", "/", "-").Replace(raw))
}

func monthOf(date string) string {
	if utf8.RuneCountInString(date) <= 7 {
		return date
	}
	runes := []rune(date)
	return string(runes[:7])
}
