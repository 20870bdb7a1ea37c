package testutil

import (
	"os"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/relaybot/internal/data/db"
	"github.com/yungbote/relaybot/internal/platform/logger"
)

var (
	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns a migrated store. It uses TEST_POSTGRES_DSN when set and a private
// in-memory SQLite database otherwise.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		dsn = ":memory:"
	}
	svc, err := db.Open(Logger(tb), dsn)
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	if err := svc.AutoMigrateAll(); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	tb.Cleanup(func() {
		if dsn != ":memory:" {
			truncateAll(svc.DB())
		}
		_ = svc.Close()
	})
	return svc.DB()
}

// Tx opens a transaction that is rolled back when the test ends.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func truncateAll(db *gorm.DB) {
	for _, table := range []string{"users", "chats", "files", "searches"} {
		_ = db.Exec("DELETE FROM " + table).Error
	}
}
