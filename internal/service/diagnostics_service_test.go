package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"artlink/internal/config"
	"artlink/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if migrate {
		require.NoError(t, database.Migrate(db))
	}
	return db
}

func TestDiagnostics_NoDatabase(t *testing.T) {
	report := NewDiagnosticsService(&config.Config{}, nil).Report(context.Background())

	assert.Equal(t, "✅ Running", report.Backend)
	assert.Equal(t, "❌ Not Available", report.Database)
	assert.Equal(t, "Not Connected", report.ConnectionStatus)
	assert.Equal(t, "❌ Not Set", report.DatabaseURL)
	assert.Equal(t, "❌ Not Set", report.DatabaseName)
	assert.NotNil(t, report.Collections)
	assert.Empty(t, report.Collections)
	assert.Equal(t, "❌ Not Configured", report.Cache)
}

func TestDiagnostics_Connected(t *testing.T) {
	cfg := &config.Config{DatabaseURL: "sqlite://artlink.db", DatabaseName: "artlink"}
	report := NewDiagnosticsService(cfg, openSQLite(t, true)).Report(context.Background())

	assert.Equal(t, "✅ Connected & Working", report.Database)
	assert.Equal(t, "Connected", report.ConnectionStatus)
	assert.Equal(t, "✅ Set", report.DatabaseURL)
	assert.Equal(t, "✅ Set", report.DatabaseName)
	assert.Equal(t, []string{"artwork", "comment", "order", "post", "purchaserequest", "supply", "user"}, report.Collections)
}

func TestDiagnostics_CollectionSampleIsCapped(t *testing.T) {
	db := openSQLite(t, false)
	for _, name := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "b1", "b2", "b3"} {
		require.NoError(t, db.Exec("CREATE TABLE "+name+" (id TEXT)").Error)
	}

	report := NewDiagnosticsService(&config.Config{}, db).Report(context.Background())
	assert.Len(t, report.Collections, 10)
	assert.Equal(t, "a1", report.Collections[0])
	assert.Equal(t, "b1", report.Collections[9])
}

func TestDiagnostics_PingFailure(t *testing.T) {
	db := openSQLite(t, true)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	report := NewDiagnosticsService(&config.Config{}, db).Report(context.Background())
	assert.True(t, strings.HasPrefix(report.Database, "❌ Error: "), report.Database)
	assert.LessOrEqual(t, len([]rune(strings.TrimPrefix(report.Database, "❌ Error: "))), 50)
	assert.Equal(t, "Not Connected", report.ConnectionStatus)
	assert.Empty(t, report.Collections)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet(errors.New("short")))
	assert.Equal(t, strings.Repeat("é", 50), snippet(errors.New(strings.Repeat("é", 80))))
}
