package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/household-finance/internal/analytics"
	"github.com/frahmantamala/household-finance/internal/category"
	"github.com/frahmantamala/household-finance/internal/ingest"
	"github.com/frahmantamala/household-finance/internal/rule"
	"github.com/frahmantamala/household-finance/internal/transaction"
	"github.com/frahmantamala/household-finance/internal/transport/middleware"
	"github.com/frahmantamala/household-finance/internal/transport/swagger"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Health      *HealthHandler
	Ingest      *ingest.Handler
	Transaction *transaction.Handler
	Category    *category.Handler
	Rule        *rule.Handler
	Analytics   *analytics.Handler
}

type Options struct {
	AllowedOrigins string
	// OpenAPI is the raw API document, served at /openapi.yml.
	OpenAPI []byte
	// Validator, when set, checks /api requests against the API document.
	Validator func(http.Handler) http.Handler
	// StaticDir holds the built dashboard; empty disables it.
	StaticDir string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware(logger))

	if len(opts.OpenAPI) > 0 {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(opts.OpenAPI)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		if opts.Validator != nil {
			r.Use(opts.Validator)
		}

		r.Get("/health", h.Health.healthCheckHandler)
		r.Get("/ping", h.Health.pingHandler)

		if h.Ingest != nil {
			r.Post("/upload", h.Ingest.Upload)
		}

		if h.Transaction != nil {
			r.Route("/transactions", func(tr chi.Router) {
				tr.Get("/", h.Transaction.List)
				tr.Get("/months", h.Transaction.Months)
				tr.Put("/{id}/category", h.Transaction.UpdateCategory)
				tr.Delete("/{id}", h.Transaction.Delete)
			})
		}

		if h.Category != nil {
			r.Route("/categories", func(cr chi.Router) {
				cr.Get("/", h.Category.GetCategories)
				cr.Post("/", h.Category.CreateCategory)
				cr.Put("/{id}", h.Category.UpdateCategory)
				cr.Delete("/{id}", h.Category.DeleteCategory)
			})
		}

		if h.Rule != nil {
			r.Route("/rules", func(rr chi.Router) {
				rr.Get("/", h.Rule.GetRules)
				rr.Post("/", h.Rule.CreateRule)
				rr.Put("/{id}", h.Rule.UpdateRule)
				rr.Delete("/{id}", h.Rule.DeleteRule)
			})
		}

		if h.Analytics != nil {
			r.Route("/analytics", func(ar chi.Router) {
				ar.Get("/monthly", h.Analytics.Monthly)
				ar.Get("/categories", h.Analytics.Categories)
				ar.Get("/summary", h.Analytics.Summary)
				ar.Get("/forecast", h.Analytics.Forecast)
				ar.Get("/trend", h.Analytics.Trend)
			})
		}
	})

	if opts.StaticDir != "" {
		router.NotFound(SPAHandler(opts.StaticDir).ServeHTTP)
	}
}
