// Package testutil opens the shared Postgres used by repo integration tests.
package testutil

import (
	"errors"
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/majormatch-backend/internal/data/db"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

const dsnEnv = "TEST_POSTGRES_DSN"

var errNoDSN = errors.New(dsnEnv + " not set")

var shared struct {
	once sync.Once
	db   *gorm.DB
	err  error
}

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	return logger.Nop()
}

func open() (*gorm.DB, error) {
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		return nil, errNoDSN
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, err
	}
	return gdb, db.Migrate(gdb)
}

// DB returns the migrated test database. Tests skip when TEST_POSTGRES_DSN is unset.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	shared.once.Do(func() { shared.db, shared.err = open() })
	switch {
	case errors.Is(shared.err, errNoDSN):
		tb.Skip("set " + dsnEnv + " to run repo integration tests")
	case shared.err != nil:
		tb.Fatalf("open test db: %v", shared.err)
	}
	return shared.db
}

// Tx opens a transaction that is rolled back when the test ends.
func Tx(tb testing.TB, gdb *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := gdb.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() { tx.Rollback() })
	return tx
}
