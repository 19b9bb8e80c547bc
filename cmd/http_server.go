package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/household-finance/api"
	"github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/analytics"
	analyticsRepository "github.com/frahmantamala/household-finance/internal/analytics/repository"
	"github.com/frahmantamala/household-finance/internal/category"
	categoryRepository "github.com/frahmantamala/household-finance/internal/category/repository"
	"github.com/frahmantamala/household-finance/internal/core/events"
	"github.com/frahmantamala/household-finance/internal/ingest"
	"github.com/frahmantamala/household-finance/internal/monthlyasset"
	"github.com/frahmantamala/household-finance/internal/rule"
	ruleRepository "github.com/frahmantamala/household-finance/internal/rule/repository"
	"github.com/frahmantamala/household-finance/internal/seed"
	"github.com/frahmantamala/household-finance/internal/storage"
	"github.com/frahmantamala/household-finance/internal/transaction"
	transactionRepository "github.com/frahmantamala/household-finance/internal/transaction/repository"
	"github.com/frahmantamala/household-finance/internal/transport"
	"github.com/frahmantamala/household-finance/internal/transport/middleware"
	"github.com/frahmantamala/household-finance/internal/transport/rest"
	"github.com/frahmantamala/household-finance/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server serving the API and the built dashboard`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *gorm.DB
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	deps, err := initializeDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	if err := setupRoutes(deps); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.Config.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			_ = storage.Close(deps.DB)
			return fmt.Errorf("server failed to start: %w", err)
		}
	}

	deps.EventBus.Wait()
	if err := storage.Close(deps.DB); err != nil {
		deps.Logger.Error("Database close error", "error", err)
	}

	deps.Logger.Info("Server stopped")
	return nil
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, db, err := bootstrap(ctx)
	if err != nil {
		return nil, err
	}
	lg := logger.LoggerWrapper()

	if cfg.Seed.OnStartup {
		defaults, err := seed.LoadDefaults()
		if err != nil {
			return nil, err
		}
		if _, err := seed.NewSeeder(db, defaults, lg).EnsureDefaults(ctx); err != nil {
			return nil, fmt.Errorf("failed to seed defaults: %w", err)
		}
	}

	bus := events.NewEventBus(lg)
	bus.Subscribe(events.EventTypeStatementImported, logImportedStatement(lg))

	return &Dependencies{
		Config:   cfg,
		DB:       db,
		EventBus: bus,
		Router:   chi.NewRouter(),
		Logger:   lg,
	}, nil
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	sqlDB, err := deps.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	base := transport.NewBaseHandler(deps.Logger)
	maintainer := monthlyasset.NewMaintainer(deps.DB, deps.Logger)
	uow := storage.NewUnitOfWork(deps.DB, cfg.Database.Driver, cfg.Upload, deps.Logger)
	readDB := sqlx.NewDb(sqlDB, storage.SQLXDriverName(cfg.Database))

	handlers := rest.Handlers{
		Health:      rest.NewHealthHandler(sqlDB, cfg.Database.Driver),
		Ingest:      ingest.NewHandler(base, ingest.NewService(uow, maintainer, deps.EventBus, deps.Logger), cfg.Upload.MaxBytes),
		Transaction: transaction.NewHandler(base, transaction.NewService(transactionRepository.NewTransactionRepository(deps.DB), uow, maintainer, deps.Logger)),
		Category:    category.NewHandler(base, category.NewService(categoryRepository.NewCategoryRepository(deps.DB), deps.Logger)),
		Rule:        rule.NewHandler(base, rule.NewService(ruleRepository.NewRuleRepository(deps.DB), deps.Logger)),
		Analytics:   analytics.NewHandler(base, analytics.NewService(analyticsRepository.NewAnalyticsRepository(readDB), deps.Logger)),
	}

	opts := rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		OpenAPI:        api.OpenAPI,
	}
	if cfg.Server.ValidateRequests {
		validator, err := middleware.OpenAPIValidator(api.OpenAPI, deps.Logger)
		if err != nil {
			return err
		}
		opts.Validator = validator
	}
	if info, err := os.Stat(cfg.Server.StaticDir); err == nil && info.IsDir() {
		opts.StaticDir = cfg.Server.StaticDir
		deps.Logger.Info("Serving dashboard", "dir", cfg.Server.StaticDir)
	}

	rest.RegisterAllRoutes(deps.Router, handlers, opts, deps.Logger)
	return nil
}

func logImportedStatement(lg *slog.Logger) events.Handler {
	return func(ctx context.Context, event events.Event) error {
		imported, ok := event.(*events.StatementImportedEvent)
		if !ok {
			return fmt.Errorf("unexpected event %T", event)
		}
		lg.Info("statement imported",
			"event_id", imported.EventID(),
			"batch_id", imported.BatchID,
			"file", imported.FileName,
			"inserted", imported.Inserted,
			"skipped", imported.Skipped,
			"months", imported.Months)
		return nil
	}
}
