package database

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	sqlitedriver "github.com/glebarez/go-sqlite"
)

var registerLowerOnce sync.Once

// registerUnicodeLower replaces SQLite's ASCII-only lower() with a Unicode-aware one, so
// LOWER(col) LIKE LOWER(?) folds case the same way the server databases do.
// It applies to connections opened afterwards.
func registerUnicodeLower() {
	registerLowerOnce.Do(func() {
		sqlitedriver.MustRegisterDeterministicScalarFunction("lower", 1, unicodeLower)
	})
}

func unicodeLower(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return strings.ToLower(fmt.Sprint(v)), nil
	}
}
