package classify_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/frahmantamala/household-finance/internal/category"
	"github.com/frahmantamala/household-finance/internal/classify"
	"github.com/frahmantamala/household-finance/internal/classify/mocks"
	"github.com/frahmantamala/household-finance/internal/statement"
	"github.com/frahmantamala/household-finance/internal/transaction"
	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Service", func() {
	var (
		ctrl    *gomock.Controller
		source  *mocks.MockRuleSource
		service *classify.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		source = mocks.NewMockRuleSource(ctrl)
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = classify.NewService(source, slogger)
		ctx = context.Background()
	})

	It("loads the rule set once per batch", func() {
		source.EXPECT().Rules(gomock.Any()).Return([]classify.Rule{
			{ID: 1, Keyword: "gs25", CategoryID: foodID},
		}, nil).Times(1)
		source.EXPECT().CategoryIDByName(gomock.Any(), category.IncomeName).Return(incomeID, nil).Times(1)
		source.EXPECT().CategoryIDByName(gomock.Any(), category.OtherName).Return(otherID, nil).Times(1)

		ids, err := service.ClassifyBatch(ctx, []statement.Record{
			expense("GS25 역삼점", ""),
			expense("unknown", ""),
			{Type: transaction.TypeIncome},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(ids).To(Equal([]int64{foodID, otherID, incomeID}))
	})

	It("classifies a single row", func() {
		source.EXPECT().Rules(gomock.Any()).Return(nil, nil)
		source.EXPECT().CategoryIDByName(gomock.Any(), category.IncomeName).Return(incomeID, nil)
		source.EXPECT().CategoryIDByName(gomock.Any(), category.OtherName).Return(otherID, nil)

		id, err := service.Classify(ctx, expense("anything", ""))
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal(otherID))
	})

	It("fails when the rules cannot be loaded", func() {
		source.EXPECT().Rules(gomock.Any()).Return(nil, errors.New("db down"))

		_, err := service.ClassifyBatch(ctx, []statement.Record{expense("x", "")})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("db down"))
	})

	It("fails when a default category is missing", func() {
		source.EXPECT().Rules(gomock.Any()).Return(nil, nil)
		source.EXPECT().CategoryIDByName(gomock.Any(), category.IncomeName).Return(int64(0), nil)

		_, err := service.ClassifyBatch(ctx, []statement.Record{expense("x", "")})
		Expect(err).To(MatchError(ContainSubstring("Income")))
	})
})
