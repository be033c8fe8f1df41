package models

import "time"

// User represents a teacher account in the system
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	ClassCode    string    `json:"class_code"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Student represents a student profile attached to a teacher's class
type Student struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"` // owning teacher
	Name      string    `json:"name"`
	ClassCode string    `json:"class_code"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthSession represents an authenticated browser session
type AuthSession struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *AuthSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
