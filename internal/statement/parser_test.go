package statement_test

import (
	errors "github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/statement"
	"github.com/frahmantamala/household-finance/internal/transaction"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parse", func() {
	It("finds the header below a preamble and normalizes rows", func() {
		text := "토스뱅크 거래내역\n조회기간: 2024.01.01 ~ 2024.01.31\n\n" +
			"거래일자,거래시간,입출금,내용,거래금액,거래후잔액,메모\n" +
			"2024.01.15,09:30,입금,회사,\"3,000,000\",\"3,500,000\",1월 급여\n" +
			"2024.01.16,12:10,출금,스타벅스 강남점,-5500,\"3,494,500\",\n"

		records, err := statement.Parse(text)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(2))

		Expect(records[0]).To(Equal(statement.Record{
			Date:     "2024-01-15",
			Time:     "09:30",
			Type:     transaction.TypeIncome,
			Merchant: "회사",
			Amount:   3000000,
			Balance:  3500000,
			Memo:     "1월 급여",
			Month:    "2024-01",
		}))
		Expect(records[1].Type).To(Equal(transaction.TypeExpense))
		Expect(records[1].Amount).To(Equal(int64(5500)))
		Expect(records[1].Merchant).To(Equal("스타벅스 강남점"))
	})

	It("parses the minimal localized header", func() {
		records, err := statement.Parse("날짜,금액,거래유형\n2024-01-15,50000,입금\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0].Type).To(Equal(transaction.TypeIncome))
		Expect(records[0].Month).To(Equal("2024-01"))
		Expect(records[0].Time).To(BeEmpty())
	})

	It("understands English headers case-insensitively", func() {
		records, err := statement.Parse("Date,Time,Type,Description,Amount,Balance\r\n2024/02/01,10:00,OUT,Coffee,4500,100000\r\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0].Date).To(Equal("2024-02-01"))
		Expect(records[0].Merchant).To(Equal("Coffee"))
		Expect(records[0].Type).To(Equal(transaction.TypeExpense))
	})

	It("tolerates a BOM, blank lines and ragged rows", func() {
		text := "\uFEFF날짜,금액,거래처,메모\n\n2024-03-01,1000,가게\n2024-03-02,2000,가게2,메모,extra\n"
		records, err := statement.Parse(text)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(2))
		Expect(records[0].Memo).To(BeEmpty())
		Expect(records[1].Memo).To(Equal("메모"))
	})

	It("uses the first non-empty alias", func() {
		records, err := statement.Parse("날짜,출금액,입금액\n2024-03-01,,7000\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(records[0].Amount).To(Equal(int64(7000)))
	})

	It("drops rows without a date, with a zero amount or a short month", func() {
		text := "날짜,금액\n,1000\n2024-03-01,0\n2024-3,500\n2024-03-05,abc\n2024-03-06,800\n"
		records, err := statement.Parse(text)
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0].Date).To(Equal("2024-03-06"))
	})

	It("fails when no header is recognized", func() {
		_, err := statement.Parse("foo,bar\n1,2\n")
		Expect(err).To(MatchError(errors.ErrHeaderNotFound))
	})

	It("fails when every row is filtered out", func() {
		_, err := statement.Parse("날짜,금액\n,0\n")
		Expect(err).To(MatchError(errors.ErrNoValidRows))
	})

	It("rejects an unterminated quote instead of merging rows", func() {
		records, err := statement.Parse("날짜,금액\n2024-01-01,\"100\n2024-01-02,200\n")
		Expect(records).To(BeNil())
		appErr, ok := errors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(errors.ErrorTypeParse))
		Expect(appErr.Code).To(Equal(errors.ErrCodeMalformedCSV))
		Expect(appErr.Message).To(ContainSubstring("malformed CSV"))
	})

	It("rejects a bare quote inside an unquoted field", func() {
		_, err := statement.Parse("날짜,금액,내용\n2024-01-01,100,12\" pizza\n")
		appErr, ok := errors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(errors.ErrCodeMalformedCSV))
	})

	It("keeps quoted commas and quoted newlines", func() {
		records, err := statement.Parse("날짜,금액,메모\n2024-01-01,\"1,200\",\"first\nsecond\"\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(records[0].Amount).To(Equal(int64(1200)))
		Expect(records[0].Memo).To(Equal("first\nsecond"))
	})
})

var _ = DescribeTable("NormalizeType",
	func(raw string, expected transaction.Type) {
		Expect(statement.NormalizeType(raw)).To(Equal(expected))
	},
	Entry("korean deposit", "입금", transaction.TypeIncome),
	Entry("deposit phrase", "체크카드 입금", transaction.TypeIncome),
	Entry("IN", "IN", transaction.TypeIncome),
	Entry("수입", "수입", transaction.TypeIncome),
	Entry("english deposit", "Deposit", transaction.TypeIncome),
	Entry("korean withdrawal", "출금", transaction.TypeExpense),
	Entry("OUT", "OUT", transaction.TypeExpense),
	Entry("지출", "지출", transaction.TypeExpense),
	Entry("unknown defaults to expense", "이체", transaction.TypeExpense),
	Entry("empty defaults to expense", "", transaction.TypeExpense),
)

var _ = DescribeTable("ParseAmount",
	func(raw string, expected int64) {
		Expect(statement.ParseAmount(raw)).To(Equal(expected))
	},
	Entry("grouped", "1,234,567", int64(1234567)),
	Entry("currency suffix", "5,000원", int64(5000)),
	Entry("negative sign dropped", "-3000", int64(3000)),
	Entry("no digits", "n/a", int64(0)),
	Entry("empty", "", int64(0)),
)
