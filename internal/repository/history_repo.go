package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dictado/internal/database"
	"dictado/internal/models"
)

// HistoryRepository persists finalized session records together with their
// per-word results.
type HistoryRepository struct {
	db *database.DB
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db *database.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Save stores a finalized session and its word results atomically.
func (r *HistoryRepository) Save(ctx context.Context, record *models.SessionRecord) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO session_records
				(id, started_at, completed_at, difficulty, total_words,
				 completed_words, total_accuracy, average_accuracy,
				 duration_minutes, study_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			record.ID, record.StartedAt, record.CompletedAt, record.Difficulty,
			record.TotalWords, record.CompletedWords, record.TotalAccuracy,
			record.AverageAccuracy, record.DurationMinutes, record.Date)
		if err != nil {
			return fmt.Errorf("inserting session record %s: %w", record.ID, err)
		}

		for i, w := range record.Words {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO session_word_results
					(session_id, position, word_id, word, pos, meaning,
					 example, accuracy, submitted, expected, completed)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				record.ID, i, w.WordID, w.Word, w.POS, w.Meaning,
				w.Example, w.Accuracy, w.Submitted, w.Expected, w.Completed)
			if err != nil {
				return fmt.Errorf("inserting word result %d for session %s: %w", i, record.ID, err)
			}
		}
		return nil
	})
}

// List returns all session records ordered oldest first, each with its
// word results attached.
func (r *HistoryRepository) List(ctx context.Context) ([]models.SessionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, started_at, completed_at, difficulty, total_words,
		       completed_words, total_accuracy, average_accuracy,
		       duration_minutes, study_date
		FROM session_records
		ORDER BY started_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.SessionRecord
	for rows.Next() {
		var rec models.SessionRecord
		var completedAt sql.NullTime
		err := rows.Scan(
			&rec.ID, &rec.StartedAt, &completedAt, &rec.Difficulty,
			&rec.TotalWords, &rec.CompletedWords, &rec.TotalAccuracy,
			&rec.AverageAccuracy, &rec.DurationMinutes, &rec.Date)
		if err != nil {
			return nil, err
		}
		if completedAt.Valid {
			rec.CompletedAt = &completedAt.Time
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		words, err := r.wordResults(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Words = words
	}
	return records, nil
}

func (r *HistoryRepository) wordResults(ctx context.Context, sessionID string) ([]models.SessionWordResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT word_id, word, pos, meaning, example, accuracy, submitted, expected, completed
		FROM session_word_results
		WHERE session_id = ?
		ORDER BY position
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []models.SessionWordResult
	for rows.Next() {
		var w models.SessionWordResult
		var accuracy sql.NullInt64
		var submitted, expected sql.NullString
		err := rows.Scan(&w.WordID, &w.Word, &w.POS, &w.Meaning, &w.Example,
			&accuracy, &submitted, &expected, &w.Completed)
		if err != nil {
			return nil, err
		}
		if accuracy.Valid {
			a := int(accuracy.Int64)
			w.Accuracy = &a
		}
		if submitted.Valid {
			w.Submitted = &submitted.String
		}
		if expected.Valid {
			w.Expected = &expected.String
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// DeleteAll clears all session history.
func (r *HistoryRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM session_word_results`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM session_records`)
		return err
	})
}
