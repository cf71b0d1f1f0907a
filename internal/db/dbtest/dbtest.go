// Package dbtest opens a migrated, seeded in-memory SQLite database for tests.
package dbtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/config"
	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/db"
)

func Config() *config.Config {
	return &config.Config{
		Env:              config.EnvDevelopment,
		DBDriver:         config.DriverSQLite,
		DBPath:           ":memory:",
		DBLogLevel:       "silent",
		StatementTimeout: 5 * time.Second,
		HashTime:         1,
		HashMemoryKiB:    1024,
		HashThreads:      1,
	}
}

func New(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := db.Open(Config(), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	require.NoError(t, db.SeedLookups(conn))

	t.Cleanup(func() {
		sqlDB, err := conn.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
