package repository

import (
	"context"
	"database/sql"

	"dictado/internal/database"
	"dictado/internal/models"
)

// UserRepository persists teacher accounts, their students and browser
// auth sessions.
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a teacher account and fills in the generated id.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	id, err := r.db.ExecReturningID(ctx, `
		INSERT INTO users (email, password_hash, name, class_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.Email, user.PasswordHash, user.Name, user.ClassCode, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

// GetUserByEmail looks up a teacher account by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, class_code, created_at, updated_at
		FROM users WHERE email = ?
	`, email))
}

// GetUserByID looks up a teacher account by id.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, class_code, created_at, updated_at
		FROM users WHERE id = ?
	`, id))
}

// GetUserByClassCode looks up the teacher owning a class code.
func (r *UserRepository) GetUserByClassCode(ctx context.Context, code string) (*models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, class_code, created_at, updated_at
		FROM users WHERE class_code = ?
	`, code))
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name,
		&user.ClassCode, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateStudent inserts a student profile and fills in the generated id.
func (r *UserRepository) CreateStudent(ctx context.Context, student *models.Student) error {
	id, err := r.db.ExecReturningID(ctx, `
		INSERT INTO students (user_id, name, class_code, created_at)
		VALUES (?, ?, ?, ?)
	`, student.UserID, student.Name, student.ClassCode, student.CreatedAt)
	if err != nil {
		return err
	}
	student.ID = id
	return nil
}

// GetStudentByID looks up a student profile.
func (r *UserRepository) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	student := &models.Student{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, class_code, created_at
		FROM students WHERE id = ?
	`, id).Scan(&student.ID, &student.UserID, &student.Name, &student.ClassCode, &student.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return student, nil
}

// ListStudentsByClassCode returns all students in a class, by name.
func (r *UserRepository) ListStudentsByClassCode(ctx context.Context, code string) ([]models.Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, class_code, created_at
		FROM students WHERE class_code = ?
		ORDER BY name
	`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.ClassCode, &s.CreatedAt); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// CreateAuthSession stores a browser session token.
func (r *UserRepository) CreateAuthSession(ctx context.Context, session *models.AuthSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auth_sessions (id, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`, session.ID, session.UserID, session.ExpiresAt, session.CreatedAt)
	return err
}

// GetAuthSession looks up a browser session by token.
func (r *UserRepository) GetAuthSession(ctx context.Context, id string) (*models.AuthSession, error) {
	session := &models.AuthSession{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, expires_at, created_at
		FROM auth_sessions WHERE id = ?
	`, id).Scan(&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteAuthSession removes a browser session, logging the user out.
func (r *UserRepository) DeleteAuthSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE id = ?`, id)
	return err
}

// DeleteExpiredAuthSessions clears sessions past their expiry.
func (r *UserRepository) DeleteExpiredAuthSessions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE expires_at < CURRENT_TIMESTAMP`)
	return err
}
