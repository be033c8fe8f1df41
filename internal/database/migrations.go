package database

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// migration is a numbered schema step. Statements may contain the
// {{pk}} and {{ts}} tokens, expanded per dialect before execution.
type migration struct {
	version    int
	name       string
	statements []string
}

var migrations = []migration{
	{
		version: 1,
		name:    "core vocabulary and sessions",
		statements: []string{
			`CREATE TABLE vocabulary (
				id TEXT PRIMARY KEY,
				word TEXT NOT NULL,
				pos TEXT NOT NULL DEFAULT '',
				meaning TEXT NOT NULL DEFAULT '',
				example TEXT NOT NULL DEFAULT '',
				date_added {{ts}} NOT NULL,
				times_studied INTEGER NOT NULL DEFAULT 0,
				average_accuracy REAL NOT NULL DEFAULT 0,
				last_studied {{ts}}
			)`,
			`CREATE TABLE session_records (
				id TEXT PRIMARY KEY,
				started_at {{ts}} NOT NULL,
				completed_at {{ts}},
				difficulty TEXT NOT NULL,
				total_words INTEGER NOT NULL,
				completed_words INTEGER NOT NULL,
				total_accuracy INTEGER NOT NULL,
				average_accuracy REAL NOT NULL,
				duration_minutes INTEGER NOT NULL,
				study_date TEXT NOT NULL
			)`,
			`CREATE TABLE session_word_results (
				session_id TEXT NOT NULL REFERENCES session_records(id),
				position INTEGER NOT NULL,
				word_id TEXT NOT NULL,
				word TEXT NOT NULL,
				pos TEXT NOT NULL DEFAULT '',
				meaning TEXT NOT NULL DEFAULT '',
				example TEXT NOT NULL DEFAULT '',
				accuracy INTEGER,
				submitted TEXT,
				expected TEXT,
				completed INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (session_id, position)
			)`,
			`CREATE INDEX idx_session_records_date ON session_records(study_date)`,
		},
	},
	{
		version: 2,
		name:    "achievements and study time",
		statements: []string{
			`CREATE TABLE achievements (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL,
				icon TEXT NOT NULL,
				earned_at {{ts}} NOT NULL,
				session_id TEXT NOT NULL
			)`,
			`CREATE TABLE study_time (
				id INTEGER PRIMARY KEY,
				total_minutes INTEGER NOT NULL DEFAULT 0
			)`,
			`INSERT INTO study_time (id, total_minutes) VALUES (1, 0)`,
		},
	},
	{
		version: 3,
		name:    "accounts and assignments",
		statements: []string{
			`CREATE TABLE users (
				id {{pk}},
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				name TEXT NOT NULL,
				class_code TEXT NOT NULL UNIQUE,
				created_at {{ts}} NOT NULL,
				updated_at {{ts}} NOT NULL
			)`,
			`CREATE TABLE students (
				id {{pk}},
				user_id BIGINT NOT NULL,
				name TEXT NOT NULL,
				class_code TEXT NOT NULL,
				created_at {{ts}} NOT NULL
			)`,
			`CREATE TABLE auth_sessions (
				id TEXT PRIMARY KEY,
				user_id BIGINT NOT NULL,
				expires_at {{ts}} NOT NULL,
				created_at {{ts}} NOT NULL
			)`,
			`CREATE TABLE assignments (
				id {{pk}},
				user_id BIGINT NOT NULL,
				name TEXT NOT NULL,
				difficulty TEXT NOT NULL,
				session_size INTEGER NOT NULL,
				class_code TEXT NOT NULL,
				created_at {{ts}} NOT NULL
			)`,
			`CREATE TABLE assignment_completions (
				id {{pk}},
				assignment_id BIGINT NOT NULL,
				student_id BIGINT NOT NULL,
				session_id TEXT NOT NULL,
				average_accuracy REAL NOT NULL,
				completed_words INTEGER NOT NULL,
				completed_at {{ts}} NOT NULL
			)`,
			`CREATE INDEX idx_students_class_code ON students(class_code)`,
		},
	},
}

// Migrate applies all pending migrations in order. Applied versions are
// tracked in schema_migrations so startup is idempotent.
func (db *DB) Migrate() error {
	ctx := context.Background()

	_, err := db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at %s NOT NULL
		)`, db.dialect.TimestampType()))
	if err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	applied := map[int]bool{}
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("reading applied migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return err
		}
		applied[v] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if err := db.apply(ctx, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		log.Printf("Applied migration %d: %s", m.version, m.name)
	}
	return nil
}

func (db *DB) apply(ctx context.Context, m migration) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		for _, stmt := range m.statements {
			if _, err := tx.ExecContext(ctx, db.expand(stmt)); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, applied_at) VALUES (?, CURRENT_TIMESTAMP)`,
			m.version)
		return err
	})
}

func (db *DB) expand(stmt string) string {
	stmt = strings.ReplaceAll(stmt, "{{pk}}", db.dialect.AutoIncrementPK())
	stmt = strings.ReplaceAll(stmt, "{{ts}}", db.dialect.TimestampType())
	return stmt
}
