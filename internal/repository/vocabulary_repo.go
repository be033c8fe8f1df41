package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dictado/internal/database"
	"dictado/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// VocabularyRepository persists vocabulary entries and their study stats.
type VocabularyRepository struct {
	db *database.DB
}

// NewVocabularyRepository creates a new vocabulary repository.
func NewVocabularyRepository(db *database.DB) *VocabularyRepository {
	return &VocabularyRepository{db: db}
}

const vocabularyColumns = `id, word, pos, meaning, example, date_added, times_studied, average_accuracy, last_studied`

// Create inserts a single vocabulary entry.
func (r *VocabularyRepository) Create(ctx context.Context, entry *models.VocabularyEntry) error {
	query := `
		INSERT INTO vocabulary (` + vocabularyColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Word, entry.POS, entry.Meaning, entry.Example,
		entry.DateAdded, entry.TimesStudied, entry.AverageAccuracy, entry.LastStudied)
	if err != nil {
		return fmt.Errorf("inserting vocabulary entry %s: %w", entry.Word, err)
	}
	return nil
}

// ImportBatch inserts a set of entries in a single transaction. Words that
// already exist (same id) are replaced with the imported definition but
// keep their accumulated study statistics.
func (r *VocabularyRepository) ImportBatch(ctx context.Context, entries []*models.VocabularyEntry) error {
	return r.db.WithTx(ctx, func(tx *database.Tx) error {
		for _, entry := range entries {
			var timesStudied int
			var avg float64
			var lastStudied sql.NullTime
			err := tx.QueryRowContext(ctx,
				`SELECT times_studied, average_accuracy, last_studied FROM vocabulary WHERE id = ?`,
				entry.ID).Scan(&timesStudied, &avg, &lastStudied)
			switch {
			case err == sql.ErrNoRows:
				_, err = tx.ExecContext(ctx,
					`INSERT INTO vocabulary (`+vocabularyColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					entry.ID, entry.Word, entry.POS, entry.Meaning, entry.Example,
					entry.DateAdded, entry.TimesStudied, entry.AverageAccuracy, entry.LastStudied)
				if err != nil {
					return fmt.Errorf("importing %s: %w", entry.Word, err)
				}
			case err != nil:
				return err
			default:
				_, err = tx.ExecContext(ctx,
					`UPDATE vocabulary SET word = ?, pos = ?, meaning = ?, example = ? WHERE id = ?`,
					entry.Word, entry.POS, entry.Meaning, entry.Example, entry.ID)
				if err != nil {
					return fmt.Errorf("updating %s: %w", entry.Word, err)
				}
			}
		}
		return nil
	})
}

// GetByID retrieves one entry.
func (r *VocabularyRepository) GetByID(ctx context.Context, id string) (*models.VocabularyEntry, error) {
	query := `SELECT ` + vocabularyColumns + ` FROM vocabulary WHERE id = ?`
	entry, err := scanVocabulary(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return entry, err
}

// List returns all entries ordered by the date they were added.
func (r *VocabularyRepository) List(ctx context.Context) ([]*models.VocabularyEntry, error) {
	query := `SELECT ` + vocabularyColumns + ` FROM vocabulary ORDER BY date_added, word`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.VocabularyEntry
	for rows.Next() {
		entry, err := scanVocabulary(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// UpdateStudyStats writes back the statistics mutated during a session.
func (r *VocabularyRepository) UpdateStudyStats(ctx context.Context, entry *models.VocabularyEntry) error {
	query := `
		UPDATE vocabulary
		SET times_studied = ?, average_accuracy = ?, last_studied = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.TimesStudied, entry.AverageAccuracy, entry.LastStudied, entry.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an entry.
func (r *VocabularyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vocabulary WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll clears the vocabulary table.
func (r *VocabularyRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM vocabulary`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVocabulary(row rowScanner) (*models.VocabularyEntry, error) {
	entry := &models.VocabularyEntry{}
	var lastStudied sql.NullTime
	err := row.Scan(
		&entry.ID,
		&entry.Word,
		&entry.POS,
		&entry.Meaning,
		&entry.Example,
		&entry.DateAdded,
		&entry.TimesStudied,
		&entry.AverageAccuracy,
		&lastStudied,
	)
	if err != nil {
		return nil, err
	}
	if lastStudied.Valid {
		entry.LastStudied = &lastStudied.Time
	}
	return entry, nil
}
