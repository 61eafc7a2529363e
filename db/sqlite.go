package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

const (
	// UniqueConstrain is SQLITE_CONSTRAINT_PRIMARYKEY
	UniqueConstrain = 1555

	driverName = "sqlite3"
)

// ErrNotFound no row matches the query
var ErrNotFound = errors.New("not found")

// pragmas run right after opening the database
var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA journal_size_limit = 6144000",
	"PRAGMA busy_timeout = 5000",
}

// NewSQLiteDB opens the database at dbPath and applies the connection pragmas
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dbPath)
	if err != nil {
		return nil, err
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s on %s: %w", pragma, dbPath, err)
		}
	}
	return db, nil
}

// ReturnErrNotFound maps sql.ErrNoRows to ErrNotFound
func ReturnErrNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// IsUniqueViolation reports whether err comes from a UNIQUE or PRIMARY KEY constraint
func IsUniqueViolation(err error) bool {
	sqliteErr, ok := SQLiteErr(err)
	if !ok {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		int(sqliteErr.ExtendedCode) == UniqueConstrain
}
