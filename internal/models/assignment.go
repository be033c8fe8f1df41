package models

import "time"

// Assignment is a teacher-created practice task shared with a class via link
type Assignment struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"` // creating teacher
	Name        string     `json:"name"`
	Difficulty  Difficulty `json:"difficulty"`
	SessionSize int        `json:"session_size"`
	ClassCode   string     `json:"class_code"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AssignmentCompletion records one student finishing an assignment
type AssignmentCompletion struct {
	ID              int64     `json:"id"`
	AssignmentID    int64     `json:"assignment_id"`
	StudentID       int64     `json:"student_id"`
	SessionID       string    `json:"session_id"`
	AverageAccuracy float64   `json:"average_accuracy"`
	CompletedWords  int       `json:"completed_words"`
	CompletedAt     time.Time `json:"completed_at"`
}
