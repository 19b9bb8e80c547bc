package category_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/household-finance/internal/category"
	categoryRepository "github.com/frahmantamala/household-finance/internal/category/repository"
	categoryDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/category"
	transactionDatamodel "github.com/frahmantamala/household-finance/internal/core/datamodel/transaction"
	"github.com/frahmantamala/household-finance/internal/storage/storagetest"
	"github.com/frahmantamala/household-finance/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    category.RepositoryAPI
		handler *category.Handler
		router  chi.Router
		other   *categoryDatamodel.Category
		food    *categoryDatamodel.Category
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = storagetest.NewSQLite()
		Expect(err).NotTo(HaveOccurred())

		repo = categoryRepository.NewCategoryRepository(db)
		service := category.NewService(repo, slogger)
		handler = category.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/categories", handler.GetCategories)
		router.Post("/categories", handler.CreateCategory)
		router.Put("/categories/{id}", handler.UpdateCategory)
		router.Delete("/categories/{id}", handler.DeleteCategory)

		ctx := context.Background()
		other = &categoryDatamodel.Category{Name: category.OtherName, Color: "#6B7280", SortOrder: 10}
		food = &categoryDatamodel.Category{Name: "Food", Color: "#F97316", SortOrder: 5}
		Expect(repo.Create(ctx, other)).To(Succeed())
		Expect(repo.Create(ctx, food)).To(Succeed())
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("lists categories by sort order", func() {
		w := do(http.MethodGet, "/categories", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var got []category.Category
		Expect(json.Unmarshal(w.Body.Bytes(), &got)).To(Succeed())
		Expect(got).To(HaveLen(2))
		Expect(got[0].Name).To(Equal("Food"))
	})

	It("creates a category with 201", func() {
		w := do(http.MethodPost, "/categories", map[string]interface{}{"name": "Pets", "budget": 50000})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var got category.Category
		Expect(json.Unmarshal(w.Body.Bytes(), &got)).To(Succeed())
		Expect(got.SortOrder).To(Equal(11))
		Expect(got.Icon).To(Equal(category.DefaultIcon))
	})

	It("rejects a missing name with a structured 400", func() {
		w := do(http.MethodPost, "/categories", map[string]interface{}{"color": "#000000"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(`"type":"VALIDATION_ERROR"`))
	})

	It("answers 409 on a duplicate name", func() {
		w := do(http.MethodPost, "/categories", map[string]interface{}{"name": "Food"})
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("updates a category", func() {
		w := do(http.MethodPut, "/categories/"+itoa(food.ID), map[string]interface{}{"name": "Groceries"})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Groceries"))
	})

	It("deletes a category and moves its transactions to Other", func() {
		Expect(db.Create(&transactionDatamodel.Transaction{
			Date: "2024-01-01", Type: "expense", Merchant: "GS25", Amount: 1200,
			CategoryID: &food.ID, Month: "2024-01",
		}).Error).To(Succeed())

		w := do(http.MethodDelete, "/categories/"+itoa(food.ID), nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var tx transactionDatamodel.Transaction
		Expect(db.First(&tx).Error).To(Succeed())
		Expect(*tx.CategoryID).To(Equal(other.ID))
	})

	It("refuses to delete Other", func() {
		w := do(http.MethodDelete, "/categories/"+itoa(other.ID), nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("PROTECTED_CATEGORY"))
	})

	It("answers 404 for an unknown id", func() {
		w := do(http.MethodDelete, "/categories/999", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("answers 400 for a non-numeric id", func() {
		w := do(http.MethodDelete, "/categories/abc", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
