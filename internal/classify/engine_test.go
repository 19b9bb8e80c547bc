package classify_test

import (
	"github.com/frahmantamala/household-finance/internal/classify"
	"github.com/frahmantamala/household-finance/internal/statement"
	"github.com/frahmantamala/household-finance/internal/transaction"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const (
	incomeID    int64 = 1
	otherID     int64 = 10
	foodID      int64 = 5
	cafeID      int64 = 6
	transportID int64 = 7
)

func expense(merchant, memo string) statement.Record {
	return statement.Record{Type: transaction.TypeExpense, Merchant: merchant, Memo: memo, Amount: 1000}
}

var _ = Describe("Engine", func() {
	var (
		rules  []classify.Rule
		engine *classify.Engine
	)

	BeforeEach(func() {
		rules = []classify.Rule{
			{ID: 1, Keyword: "스타", CategoryID: foodID},
			{ID: 2, Keyword: "스타벅스", CategoryID: cafeID},
			{ID: 3, Keyword: "Taxi", CategoryID: transportID},
			{ID: 4, Keyword: "버스", CategoryID: transportID, Priority: 5},
		}
		engine = classify.NewEngine(rules, incomeID, otherID)
	})

	It("always assigns income rows to the income category", func() {
		rec := expense("스타벅스", "")
		rec.Type = transaction.TypeIncome
		Expect(engine.Classify(rec)).To(Equal(incomeID))

		empty := classify.NewEngine(nil, incomeID, otherID)
		Expect(empty.Classify(rec)).To(Equal(incomeID))
	})

	It("prefers the longer keyword at equal priority", func() {
		Expect(engine.Classify(expense("스타벅스 강남점", ""))).To(Equal(cafeID))
		Expect(engine.Classify(expense("스타필드", ""))).To(Equal(foodID))
	})

	It("prefers higher priority over keyword length", func() {
		Expect(engine.Classify(expense("스타벅스", "버스 정류장"))).To(Equal(transportID))
	})

	It("matches case-insensitively across merchant and memo", func() {
		Expect(engine.Classify(expense("", "late night TAXI"))).To(Equal(transportID))
	})

	It("falls back to Other when nothing matches", func() {
		Expect(engine.Classify(expense("동네 철물점", ""))).To(Equal(otherID))
	})

	It("does not depend on the input order of rules", func() {
		reversed := make([]classify.Rule, len(rules))
		for i, r := range rules {
			reversed[len(rules)-1-i] = r
		}
		other := classify.NewEngine(reversed, incomeID, otherID)
		Expect(other.Classify(expense("스타벅스", ""))).To(Equal(cafeID))
	})

	It("breaks full ties by rule id", func() {
		tied := classify.NewEngine([]classify.Rule{
			{ID: 9, Keyword: "마트", CategoryID: cafeID},
			{ID: 2, Keyword: "마트", CategoryID: foodID},
		}, incomeID, otherID)
		Expect(tied.Classify(expense("이마트", ""))).To(Equal(foodID))
	})

	It("measures keyword length after trimming", func() {
		padded := classify.NewEngine([]classify.Rule{
			{ID: 9, Keyword: "  마트  ", CategoryID: cafeID},
			{ID: 2, Keyword: "마트", CategoryID: foodID},
		}, incomeID, otherID)
		Expect(padded.Classify(expense("이마트", ""))).To(Equal(foodID))
	})

	It("ignores blank keywords", func() {
		blank := classify.NewEngine([]classify.Rule{{ID: 1, Keyword: "  ", CategoryID: foodID}}, incomeID, otherID)
		Expect(blank.Classify(expense("anything", ""))).To(Equal(otherID))
	})

	It("classifies a batch exactly like row by row", func() {
		recs := []statement.Record{
			expense("스타벅스", ""),
			{Type: transaction.TypeIncome, Merchant: "회사"},
			expense("카카오 T", "taxi"),
			expense("모르는 가게", ""),
			expense("스타일샵", ""),
		}

		batch := engine.ClassifyBatch(recs)
		Expect(batch).To(HaveLen(len(recs)))
		for i, rec := range recs {
			Expect(batch[i]).To(Equal(engine.Classify(rec)), "row %d", i)
		}
	})
})
