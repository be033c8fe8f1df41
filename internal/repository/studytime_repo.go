package repository

import (
	"context"

	"dictado/internal/database"
)

// StudyTimeRepository tracks the accumulated total study time. The table
// holds a single counter row seeded by the migrations.
type StudyTimeRepository struct {
	db *database.DB
}

// NewStudyTimeRepository creates a new study time repository.
func NewStudyTimeRepository(db *database.DB) *StudyTimeRepository {
	return &StudyTimeRepository{db: db}
}

// Total returns the accumulated study time in minutes.
func (r *StudyTimeRepository) Total(ctx context.Context) (int, error) {
	var minutes int
	err := r.db.QueryRowContext(ctx,
		`SELECT total_minutes FROM study_time WHERE id = 1`).Scan(&minutes)
	return minutes, err
}

// Add increments the accumulated study time.
func (r *StudyTimeRepository) Add(ctx context.Context, minutes int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE study_time SET total_minutes = total_minutes + ? WHERE id = 1`, minutes)
	return err
}

// Set overwrites the accumulated study time, used by snapshot import.
func (r *StudyTimeRepository) Set(ctx context.Context, minutes int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE study_time SET total_minutes = ? WHERE id = 1`, minutes)
	return err
}
