package repository

import (
	"context"
	"database/sql"

	"dictado/internal/database"
	"dictado/internal/models"
)

// AssignmentRepository persists teacher assignments and student completions.
type AssignmentRepository struct {
	db *database.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *database.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts an assignment and fills in the generated id.
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	id, err := r.db.ExecReturningID(ctx, `
		INSERT INTO assignments (user_id, name, difficulty, session_size, class_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.UserID, a.Name, a.Difficulty, a.SessionSize, a.ClassCode, a.CreatedAt)
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// GetByID retrieves one assignment.
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*models.Assignment, error) {
	a := &models.Assignment{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, difficulty, session_size, class_code, created_at
		FROM assignments WHERE id = ?
	`, id).Scan(&a.ID, &a.UserID, &a.Name, &a.Difficulty, &a.SessionSize, &a.ClassCode, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListByUser returns a teacher's assignments, newest first.
func (r *AssignmentRepository) ListByUser(ctx context.Context, userID int64) ([]models.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, difficulty, session_size, class_code, created_at
		FROM assignments WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Difficulty, &a.SessionSize, &a.ClassCode, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// RecordCompletion stores one student's finished assignment run.
func (r *AssignmentRepository) RecordCompletion(ctx context.Context, c *models.AssignmentCompletion) error {
	id, err := r.db.ExecReturningID(ctx, `
		INSERT INTO assignment_completions
			(assignment_id, student_id, session_id, average_accuracy, completed_words, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.AssignmentID, c.StudentID, c.SessionID, c.AverageAccuracy, c.CompletedWords, c.CompletedAt)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// ListCompletions returns all completions for an assignment, newest first.
func (r *AssignmentRepository) ListCompletions(ctx context.Context, assignmentID int64) ([]models.AssignmentCompletion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, assignment_id, student_id, session_id, average_accuracy, completed_words, completed_at
		FROM assignment_completions WHERE assignment_id = ?
		ORDER BY completed_at DESC
	`, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []models.AssignmentCompletion
	for rows.Next() {
		var c models.AssignmentCompletion
		if err := rows.Scan(&c.ID, &c.AssignmentID, &c.StudentID, &c.SessionID,
			&c.AverageAccuracy, &c.CompletedWords, &c.CompletedAt); err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}
