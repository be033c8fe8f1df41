package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDialect connects via go-sql-driver/mysql. parseTime is required so
// DATETIME columns scan into time.Time.
type MySQLDialect struct{}

func (d *MySQLDialect) Name() string       { return "mysql" }
func (d *MySQLDialect) DriverName() string { return "mysql" }

func (d *MySQLDialect) DSN(cfg ConnectionConfig) string {
	dsn := cfg.URL
	dsn = strings.TrimPrefix(dsn, "mysql://")
	if !strings.Contains(dsn, "parseTime") {
		if strings.Contains(dsn, "?") {
			dsn += "&parseTime=true"
		} else {
			dsn += "?parseTime=true"
		}
	}
	return dsn
}

func (d *MySQLDialect) Rewrite(query string) string { return query }

func (d *MySQLDialect) SupportsLastInsertID() bool { return true }

func (d *MySQLDialect) Configure(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return nil
}

func (d *MySQLDialect) AutoIncrementPK() string { return "BIGINT AUTO_INCREMENT PRIMARY KEY" }
func (d *MySQLDialect) TimestampType() string   { return "DATETIME(6)" }
