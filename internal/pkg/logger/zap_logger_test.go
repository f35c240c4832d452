package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLogger_GetLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	l := NewIsolatedLogger(path)

	l.Info("IMPORT", "first", map[string]interface{}{"rows": 3})
	l.Warn("SCRAPER", "second", nil)
	l.Error("RAG", "third", map[string]interface{}{"error": "boom"})
	require.NoError(t, l.Sync())

	all, err := l.GetLogs(LogFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message, "newest first")
	assert.Equal(t, "RAG", all[0].Module)
	assert.NotEmpty(t, all[0].Id)

	warns, err := l.GetLogs(LogFilter{Level: "WARN", Limit: 10})
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Equal(t, "second", warns[0].Message)

	byModule, err := l.GetLogs(LogFilter{Module: "IMPORT"})
	require.NoError(t, err)
	require.Len(t, byModule, 1)
	assert.EqualValues(t, 3, byModule[0].Details["rows"])

	paged, err := l.GetLogs(LogFilter{Limit: 1, Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, paged)
}

func TestGetLogs_MissingFile(t *testing.T) {
	l := NewIsolatedLogger(filepath.Join(t.TempDir(), "missing", "none.log"))
	logs, err := l.GetLogs(LogFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Error("X", "ignored", map[string]interface{}{"error": "e"})
	logs, err := l.GetLogs(LogFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}
