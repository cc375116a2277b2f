// Package sqlite persists the chart of accounts, cost categories, assets,
// depreciation schedules, the journal, and sequence counters.
package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/pdamkota/asetledger/internal/domain"
)

// DB wraps the SQLite handle and exposes typed operations per entity.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database under dir and applies migrations.
func Open(dir string) (*DB, error) {
	path := filepath.Join(dir, "asetledger.db")
	return OpenPath(path)
}

// OpenPath opens the database at an explicit file path.
func OpenPath(path string) (*DB, error) {
	handle, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Single writer connection: SQLite serializes writes anyway, and one
	// connection keeps transactions free of SQLITE_BUSY retries.
	handle.SetMaxOpenConns(1)

	db := &DB{db: handle}
	if err := db.migrate(); err != nil {
		handle.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying handle.
func (db *DB) Close() error { return db.db.Close() }

func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ─── Error translation ──────────────────────────────────────────────────────

// isUniqueViolation detects a UNIQUE constraint failure from the driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translateUnique maps a UNIQUE violation to a domain conflict, leaving all
// other errors untouched.
func translateUnique(err error, what string) error {
	if isUniqueViolation(err) {
		return domain.Conflictf("%s already exists", what)
	}
	return err
}

// ─── Time encoding ──────────────────────────────────────────────────────────

const dateFormat = "2006-01-02"
