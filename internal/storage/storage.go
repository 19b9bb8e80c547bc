// Package storage opens the relational store and owns its lifetime: the
// connection pool, schema migrations and the unit of work used by ingestion.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/frahmantamala/household-finance/db"
	"github.com/frahmantamala/household-finance/internal"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database and tunes the pool.
func Open(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.DriverPostgres:
		dialector = postgres.Open(cfg.Source)
	default:
		if err := ensureSQLiteDir(cfg.Source); err != nil {
			return nil, err
		}
		dialector = sqlite.New(sqlite.Config{
			DriverName: cfg.SQLiteDriver,
			DSN:        cfg.Source,
		})
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Driver != internal.DriverPostgres {
		if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return gdb, nil
}

// Close releases the pool behind gdb.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate applies the embedded goose migrations for driver.
func Migrate(ctx context.Context, gdb *gorm.DB, driver string) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	dialect, err := setupGoose(driver)
	if err != nil {
		return err
	}

	if err := goose.UpContext(ctx, sqlDB, db.MigrationsDir(dialect)); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	slog.Debug("database migrated", "dialect", dialect)
	return nil
}

// Rollback reverts the most recent migration.
func Rollback(ctx context.Context, gdb *gorm.DB, driver string) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	dialect, err := setupGoose(driver)
	if err != nil {
		return err
	}

	if err := goose.DownContext(ctx, sqlDB, db.MigrationsDir(dialect)); err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	return nil
}

// MigrationVersion returns the current schema version.
func MigrationVersion(ctx context.Context, gdb *gorm.DB, driver string) (int64, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if _, err := setupGoose(driver); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, sqlDB)
}

func setupGoose(driver string) (string, error) {
	dialect := GooseDialect(driver)
	goose.SetBaseFS(db.Migrations)
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("goose: unsupported dialect %s: %w", dialect, err)
	}
	return dialect, nil
}

// GooseDialect maps a configured driver to goose's dialect name.
func GooseDialect(driver string) string {
	if driver == internal.DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// SQLXDriverName is the database/sql driver name sqlx uses to pick bind vars.
func SQLXDriverName(cfg internal.DatabaseConfig) string {
	if cfg.Driver == internal.DriverPostgres {
		return "pgx"
	}
	return cfg.SQLiteDriver
}

func ensureSQLiteDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}
