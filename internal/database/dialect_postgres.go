package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// PostgresDialect connects via lib/pq using a URL or keyword/value DSN.
type PostgresDialect struct{}

func (d *PostgresDialect) Name() string       { return "postgres" }
func (d *PostgresDialect) DriverName() string { return "postgres" }

func (d *PostgresDialect) DSN(cfg ConnectionConfig) string {
	return cfg.URL
}

func (d *PostgresDialect) Rewrite(query string) string {
	return rewriteNumbered(query)
}

func (d *PostgresDialect) SupportsLastInsertID() bool { return false }

func (d *PostgresDialect) Configure(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return nil
}

func (d *PostgresDialect) AutoIncrementPK() string { return "BIGSERIAL PRIMARY KEY" }
func (d *PostgresDialect) TimestampType() string   { return "TIMESTAMPTZ" }
