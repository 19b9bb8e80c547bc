// Package storagetest opens throwaway migrated databases for tests.
package storagetest

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/frahmantamala/household-finance/internal"
	"github.com/frahmantamala/household-finance/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// NewSQLite returns a migrated in-memory database private to the caller.
func NewSQLite() (*gorm.DB, error) {
	// a named shared-cache DSN keeps every pooled connection on the same memory db
	dsn := fmt.Sprintf("file:memdb%d?mode=memory&cache=shared&_foreign_keys=on", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := storage.Migrate(context.Background(), db, internal.DriverSQLite); err != nil {
		return nil, err
	}
	return db, nil
}
