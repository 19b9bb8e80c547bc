package ingest_test

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/category"
	categoryDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/category"
	monthlyassetDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/monthlyasset"
	transactionDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/transaction"
	"github.com/frahmantamala/household-finance/internal/core/events"
	"github.com/frahmantamala/household-finance/internal/ingest"
	"github.com/frahmantamala/household-finance/internal/monthlyasset"
	"github.com/frahmantamala/household-finance/internal/seed"
	"github.com/frahmantamala/household-finance/internal/storage"
	"github.com/frahmantamala/household-finance/internal/storage/storagetest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

const statementCSV = "Transaction history\n" +
	"날짜,시간,거래유형,거래처,금액,잔액,메모\n" +
	"2024-01-15,09:00,입금,ACME Corp,3000000,3500000,급여\n" +
	"2024-01-16,12:30,출금,스타벅스 강남,5500,3494500,\n" +
	"2024-02-01,08:10,출금,Corner Shop,12000,3482500,\n"

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func countTransactions(db *gorm.DB) int64 {
	var n int64
	Expect(db.Model(&transactionDatamodel.Transaction{}).Count(&n).Error).To(Succeed())
	return n
}

func categoryID(db *gorm.DB, name string) int64 {
	var c categoryDatamodel.Category
	Expect(db.Where("name = ?", name).First(&c).Error).To(Succeed())
	return c.ID
}

var _ = Describe("Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		service   *ingest.Service
		publisher *recordingPublisher
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = storagetest.NewSQLite()
		Expect(err).NotTo(HaveOccurred())

		logger := newLogger()
		defaults, err := seed.LoadDefaults()
		Expect(err).NotTo(HaveOccurred())
		_, err = seed.NewSeeder(db, defaults, logger).EnsureDefaults(ctx)
		Expect(err).NotTo(HaveOccurred())

		uow := storage.NewUnitOfWork(db, internal.DriverSQLite, internal.UploadConfig{RetryAttempts: 1}, logger)
		publisher = &recordingPublisher{}
		service = ingest.NewService(uow, monthlyasset.NewMaintainer(db, logger), publisher, logger)
	})

	It("stores, classifies and rolls up a statement", func() {
		result, err := service.Ingest(ctx, ingest.Upload{FileName: "jan.csv", Data: []byte(statementCSV)})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Success).To(BeTrue())
		Expect(result.BatchID).NotTo(BeEmpty())
		Expect(result.Total).To(Equal(3))
		Expect(result.Inserted).To(Equal(3))
		Expect(result.Skipped).To(BeZero())
		Expect(result.Months).To(Equal([]string{"2024-01", "2024-02"}))
		Expect(result.Message).To(Equal("3 added, 0 duplicates skipped"))

		var coffee transactionDatamodel.Transaction
		Expect(db.Where("merchant = ?", "스타벅스 강남").First(&coffee).Error).To(Succeed())
		Expect(*coffee.CategoryID).To(Equal(categoryID(db, "Food")))
		Expect(coffee.SourceFile).To(Equal("jan.csv"))

		var shop transactionDatamodel.Transaction
		Expect(db.Where("merchant = ?", "Corner Shop").First(&shop).Error).To(Succeed())
		Expect(*shop.CategoryID).To(Equal(categoryID(db, category.OtherName)))

		var jan monthlyassetDatamodel.MonthlyAsset
		Expect(db.Where("month = ?", "2024-01").First(&jan).Error).To(Succeed())
		Expect(jan.TotalIncome).To(Equal(int64(3000000)))
		Expect(jan.TotalExpense).To(Equal(int64(5500)))
		Expect(jan.NetSavings).To(Equal(jan.TotalIncome - jan.TotalExpense))
		Expect(jan.TotalAssets).To(Equal(int64(3494500)))

		Expect(publisher.events).To(HaveLen(1))
		imported := publisher.events[0].(*events.StatementImportedEvent)
		Expect(imported.BatchID).To(Equal(result.BatchID))
		Expect(imported.Inserted).To(Equal(3))
	})

	It("skips every row when the same file is uploaded again", func() {
		first, err := service.Ingest(ctx, ingest.Upload{FileName: "jan.csv", Data: []byte(statementCSV)})
		Expect(err).NotTo(HaveOccurred())

		second, err := service.Ingest(ctx, ingest.Upload{FileName: "jan-copy.csv", Data: []byte(statementCSV)})
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Inserted).To(BeZero())
		Expect(second.Skipped).To(Equal(second.Total))
		Expect(second.BatchID).NotTo(Equal(first.BatchID))
		Expect(countTransactions(db)).To(Equal(int64(3)))

		var jan monthlyassetDatamodel.MonthlyAsset
		Expect(db.Where("month = ?", "2024-01").First(&jan).Error).To(Succeed())
		Expect(jan.TotalIncome).To(Equal(int64(3000000)))
	})

	It("treats rows differing only in memo as duplicates", func() {
		csv := "날짜,시간,거래유형,거래처,금액,잔액,메모\n" +
			"2024-03-02,10:00,출금,Bakery,4000,1000,first\n" +
			"2024-03-02,10:00,출금,Bakery,4000,1000,second\n"

		result, err := service.Ingest(ctx, ingest.Upload{FileName: "mar.csv", Data: []byte(csv)})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Total).To(Equal(2))
		Expect(result.Inserted).To(Equal(1))
		Expect(result.Skipped).To(Equal(1))
	})

	It("files a deposit under Income from a minimal Korean header", func() {
		csv := "날짜,금액,거래유형\n2024-01-15,50000,입금\n"

		result, err := service.Ingest(ctx, ingest.Upload{FileName: "min.csv", Data: []byte(csv)})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Inserted).To(Equal(1))

		var t transactionDatamodel.Transaction
		Expect(db.First(&t).Error).To(Succeed())
		Expect(t.Type).To(Equal("income"))
		Expect(t.Month).To(Equal("2024-01"))
		Expect(*t.CategoryID).To(Equal(categoryID(db, category.IncomeName)))
	})

	It("rejects a statement without a recognizable header before touching storage", func() {
		_, err := service.Ingest(ctx, ingest.Upload{FileName: "x.csv", Data: []byte("foo,bar\n1,2\n")})
		Expect(err).To(MatchError(internal.ErrHeaderNotFound))
		Expect(countTransactions(db)).To(BeZero())
		Expect(publisher.events).To(BeEmpty())
	})

	It("rejects an unterminated quote and stores nothing", func() {
		broken := "날짜,금액\n2024-01-01,\"100\n2024-01-02,200\n"
		_, err := service.Ingest(ctx, ingest.Upload{FileName: "broken.csv", Data: []byte(broken)})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeParse))
		Expect(appErr.Code).To(Equal(internal.ErrCodeMalformedCSV))

		Expect(countTransactions(db)).To(BeZero())
		var rollups int64
		Expect(db.Model(&monthlyassetDatamodel.MonthlyAsset{}).Count(&rollups).Error).To(Succeed())
		Expect(rollups).To(BeZero())
		Expect(publisher.events).To(BeEmpty())
	})

	It("rolls the whole batch back when the rollup fails", func() {
		Expect(db.Exec("DROP TABLE monthly_assets").Error).To(Succeed())

		_, err := service.Ingest(ctx, ingest.Upload{FileName: "jan.csv", Data: []byte(statementCSV)})
		Expect(err).To(HaveOccurred())
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeIngestionFailed))

		Expect(countTransactions(db)).To(BeZero())
		Expect(publisher.events).To(BeEmpty())
	})

	It("fails with an internal error when the fallback categories are missing", func() {
		Expect(db.Exec("DELETE FROM rules").Error).To(Succeed())
		Expect(db.Exec("DELETE FROM categories").Error).To(Succeed())

		_, err := service.Ingest(ctx, ingest.Upload{FileName: "jan.csv", Data: []byte(statementCSV)})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeInternal))
		Expect(countTransactions(db)).To(BeZero())
	})
})
