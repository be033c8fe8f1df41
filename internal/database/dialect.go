package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Dialect abstracts the differences between the supported SQL engines so
// the repositories can be written once against ? placeholders.
type Dialect interface {
	// Name is the identifier used in configuration ("sqlite", "postgres", "mysql").
	Name() string

	// DriverName is the database/sql driver to open.
	DriverName() string

	// DSN builds the driver connection string from configuration.
	DSN(cfg ConnectionConfig) string

	// Rewrite converts ? placeholders to the engine's native form.
	Rewrite(query string) string

	// SupportsLastInsertID reports whether sql.Result.LastInsertId works.
	// Engines that do not support it use RETURNING instead.
	SupportsLastInsertID() bool

	// Configure applies per-connection pragmas or session settings.
	Configure(db *sql.DB) error

	// AutoIncrementPK is the column definition for an auto-incrementing
	// integer primary key.
	AutoIncrementPK() string

	// TimestampType is the column type used for points in time.
	TimestampType() string
}

// NewDialect returns the dialect for the given driver name.
func NewDialect(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "sqlite", "sqlite3", "":
		return &SQLiteDialect{}, nil
	case "postgres", "postgresql":
		return &PostgresDialect{}, nil
	case "mysql":
		return &MySQLDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", name)
	}
}

// rewriteNumbered replaces each ? with $1, $2, ... for engines using
// numbered placeholders. Quoted literals are left untouched.
func rewriteNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inSingle := false
	for _, r := range query {
		switch {
		case r == '\'':
			inSingle = !inSingle
			b.WriteRune(r)
		case r == '?' && !inSingle:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
