// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"code-concierge-be/internal/model"
	"code-concierge-be/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory SQLite database with every model migrated.
// The pool is pinned to one connection because each SQLite memory connection is its own database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewGormDB(database.GormConfig{
		Type:         "sqlite",
		DSN:          "file::memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     logger.Silent,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func Ptr[T any](v T) *T {
	return &v
}
