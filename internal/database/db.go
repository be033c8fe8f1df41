package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// ConnectionConfig holds the parameters needed to open a database.
type ConnectionConfig struct {
	// Type selects the engine: sqlite, postgres or mysql.
	Type string
	// URL is the server connection string for postgres and mysql.
	URL string
	// Path is the database file for sqlite.
	Path string
}

// DB wraps sql.DB with dialect-aware query rewriting so the repositories
// can use ? placeholders regardless of the configured engine.
type DB struct {
	conn    *sql.DB
	dialect Dialect
}

// Open connects to the configured database, verifies the connection and
// applies any pending schema migrations.
func Open(cfg ConnectionConfig) (*DB, error) {
	dialect, err := NewDialect(cfg.Type)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(dialect.DriverName(), dialect.DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialect.Name(), err)
	}

	if err := dialect.Configure(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("configuring %s connection: %w", dialect.Name(), err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to %s database: %w", dialect.Name(), err)
	}

	db := &DB{conn: conn, dialect: dialect}
	if err := db.Migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Printf("Database ready (%s)", dialect.Name())
	return db, nil
}

// Dialect returns the active dialect.
func (db *DB) Dialect() Dialect { return db.dialect }

// Close releases the underlying connection pool.
func (db *DB) Close() error { return db.conn.Close() }

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, db.dialect.Rewrite(query), args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, db.dialect.Rewrite(query), args...)
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, db.dialect.Rewrite(query), args...)
}

// ExecReturningID runs an INSERT and returns the generated integer key.
// On engines without LastInsertId the statement gets a RETURNING id clause.
func (db *DB) ExecReturningID(ctx context.Context, query string, args ...any) (int64, error) {
	return execReturningID(ctx, db, db.dialect, query, args...)
}

// BeginTx starts a transaction that carries the same rewriting behaviour.
func (db *DB) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &Tx{tx: tx, dialect: db.dialect}, nil
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back if fn returns an error or panics.
func (db *DB) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func execReturningID(ctx context.Context, q DBTX, dialect Dialect, query string, args ...any) (int64, error) {
	if dialect.SupportsLastInsertID() {
		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	var id int64
	if err := q.QueryRowContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
