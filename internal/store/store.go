// Package store holds the catalogue queries. Every function takes the
// database handle explicitly; there is no hidden state.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrDuplicate is returned when a unique value (accession number,
	// category name, location, donor name) already exists.
	ErrDuplicate = errors.New("already exists")
	// ErrNotFound is returned by deletes of rows that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrInUse is returned when deleting a vocabulary entry that is still referenced.
	ErrInUse = errors.New("in use")
	// ErrInvalidReference is returned when a referenced row does not exist.
	ErrInvalidReference = errors.New("invalid reference")
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// wrap annotates err with op and, for constraint violations, with the
// matching sentinel error.
func wrap(op string, err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w: %w", op, ErrDuplicate, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w: %w", op, ErrInvalidReference, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullID maps a nil or zero id to NULL.
func nullID(id *int64) any {
	if id == nil || *id == 0 {
		return nil
	}
	return *id
}

func idPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// sortSwedish orders s by key using Swedish collation (å, ä, ö after z).
func sortSwedish[T any](s []T, key func(T) string) {
	c := collate.New(language.Swedish, collate.IgnoreCase)
	sort.SliceStable(s, func(i, j int) bool {
		return c.CompareString(key(s[i]), key(s[j])) < 0
	})
}
