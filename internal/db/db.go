package db

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"

	"golang.org/x/text/cases"
	"modernc.org/sqlite"
)

var registerFuncs sync.Once

// Open opens a SQLite database connection, configures pragmas and registers
// the casefold() SQL function used for case-insensitive search.
func Open(path string) (*sql.DB, error) {
	var regErr error
	registerFuncs.Do(func() {
		regErr = sqlite.RegisterDeterministicScalarFunction("casefold", 1, casefold)
	})
	if regErr != nil {
		return nil, fmt.Errorf("registering casefold: %w", regErr)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection: pragmas apply to every statement and ":memory:" stays
	// a single database.
	db.SetMaxOpenConns(1)

	// Set pragmas for performance and correctness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	return db, nil
}

// Fold returns the Unicode case folding of s, matching casefold() in SQL.
func Fold(s string) string {
	return cases.Fold().String(s)
}

func casefold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return Fold(v), nil
	case []byte:
		return Fold(string(v)), nil
	default:
		return v, nil
	}
}
