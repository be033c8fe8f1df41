package repository

import (
	"context"

	"dictado/internal/database"
	"dictado/internal/models"
)

// AchievementRepository persists earned achievements.
type AchievementRepository struct {
	db *database.DB
}

// NewAchievementRepository creates a new achievement repository.
func NewAchievementRepository(db *database.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// Save stores a newly earned achievement. Saving an already earned id is
// a no-op so replaying history cannot duplicate badges.
func (r *AchievementRepository) Save(ctx context.Context, a *models.Achievement) error {
	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM achievements WHERE id = ?`, a.ID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return nil
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO achievements (id, name, description, icon, earned_at, session_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.Name, a.Description, a.Icon, a.EarnedAt, a.SessionID)
	return err
}

// List returns all earned achievements in the order they were earned.
func (r *AchievementRepository) List(ctx context.Context) ([]models.Achievement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, icon, earned_at, session_id
		FROM achievements
		ORDER BY earned_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.EarnedAt, &a.SessionID); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// DeleteAll clears all earned achievements.
func (r *AchievementRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM achievements`)
	return err
}
