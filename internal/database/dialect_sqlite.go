package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDialect is the default embedded engine. A single writer connection
// with WAL journaling avoids SQLITE_BUSY under concurrent handlers.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string       { return "sqlite" }
func (d *SQLiteDialect) DriverName() string { return "sqlite3" }

func (d *SQLiteDialect) DSN(cfg ConnectionConfig) string {
	path := cfg.Path
	if path == "" {
		path = "dictado.db"
	}
	return fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)
}

func (d *SQLiteDialect) Rewrite(query string) string { return query }

func (d *SQLiteDialect) SupportsLastInsertID() bool { return true }

func (d *SQLiteDialect) Configure(db *sql.DB) error {
	db.SetMaxOpenConns(1)
	return nil
}

func (d *SQLiteDialect) AutoIncrementPK() string { return "INTEGER PRIMARY KEY AUTOINCREMENT" }
func (d *SQLiteDialect) TimestampType() string   { return "DATETIME" }
