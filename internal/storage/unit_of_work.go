package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/household-finance/internal"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"
)

// UnitOfWork runs a function inside one serializable transaction and retries
// it from scratch when the store reports writer contention.
type UnitOfWork struct {
	db        *gorm.DB
	driver    string
	attempts  uint64
	baseDelay time.Duration
	logger    *slog.Logger
}

func NewUnitOfWork(db *gorm.DB, driver string, cfg internal.UploadConfig, logger *slog.Logger) *UnitOfWork {
	attempts := cfg.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}
	delay := cfg.RetryBaseDelay
	if delay <= 0 {
		delay = 50 * time.Millisecond
	}
	return &UnitOfWork{
		db:        db,
		driver:    driver,
		attempts:  attempts,
		baseDelay: delay,
		logger:    logger,
	}
}

// Do commits everything fn did, or nothing. fn may run more than once.
func (u *UnitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	backoff := retry.WithMaxRetries(u.attempts-1, retry.NewExponential(u.baseDelay))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := u.db.WithContext(ctx).Transaction(fn, u.txOptions())
		if err != nil && IsRetryable(err) {
			u.logger.Warn("unit of work hit contention, retrying", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (u *UnitOfWork) txOptions() *sql.TxOptions {
	// SQLite serializes writers through BEGIN IMMEDIATE (see _txlock in the DSN).
	if u.driver == internal.DriverPostgres {
		return &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	return nil
}

// IsRetryable reports whether err is a transient writer conflict.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}

	// modernc.org/sqlite reports contention only through its message.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "sqlite_busy") ||
		strings.Contains(msg, "database table is locked")
}
