package testutil

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dbpkg "github.com/yungbote/medstudy-backend/internal/data/db"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

var (
	pgOnce sync.Once
	pgDB   *gorm.DB
	pgErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	require.NoError(tb, logErr, "failed to init logger")
	return logg
}

// DB returns a migrated database. By default every call gets a private
// in-memory SQLite database; TEST_POSTGRES_DSN switches to one shared
// Postgres database, so tests should write through Tx.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
		return postgresDB(tb, dsn)
	}
	svc, err := dbpkg.NewService(dbpkg.Config{Driver: dbpkg.DriverSQLite}, Logger(tb))
	require.NoError(tb, err, "open sqlite")
	tb.Cleanup(func() { _ = svc.Close() })
	require.NoError(tb, dbpkg.AutoMigrateAll(svc.DB()), "migrate sqlite")
	return svc.DB()
}

func postgresDB(tb testing.TB, dsn string) *gorm.DB {
	tb.Helper()
	pgOnce.Do(func() {
		var svc *dbpkg.Service
		svc, pgErr = dbpkg.NewService(dbpkg.Config{Driver: dbpkg.DriverPostgres, DatabaseURL: dsn}, Logger(tb))
		if pgErr != nil {
			return
		}
		pgErr = dbpkg.AutoMigrateAll(svc.DB())
		pgDB = svc.DB()
	})
	require.NoError(tb, pgErr, "failed to init test db")
	return pgDB
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	require.NoError(tb, tx.Error, "begin tx")
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}
