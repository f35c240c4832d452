package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	for _, dbType := range []string{"postgres", "postgresql", "mysql", "mariadb", "sqlite", "sqlserver", "mssql"} {
		d, err := Dialector(dbType, "dsn")
		require.NoError(t, err, dbType)
		assert.NotNil(t, d)
	}

	_, err := Dialector("oracle", "dsn")
	assert.Error(t, err)
}

func TestNewGormDB_SQLiteMemory(t *testing.T) {
	db, err := NewGormDB(GormConfig{Type: "sqlite", DSN: "file::memory:", LogLevel: logger.Silent})
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestSQLiteLowerFoldsUnicode(t *testing.T) {
	db, err := NewGormDB(GormConfig{Type: "sqlite", DSN: "file::memory:", LogLevel: logger.Silent})
	require.NoError(t, err)

	var lowered string
	require.NoError(t, db.Raw("SELECT LOWER(?)", "ÉVALUATION Straße").Scan(&lowered).Error)
	assert.Equal(t, "évaluation straße", lowered)

	var matched int
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM (SELECT 'Évaluation Sheet' AS name) WHERE LOWER(name) LIKE LOWER(?)", "%évaluation%").Scan(&matched).Error)
	assert.Equal(t, 1, matched)
}
