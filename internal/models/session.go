package models

import "time"

// Difficulty is the session difficulty level
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// IsValid reports whether d is a known difficulty level
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// SessionWordResult holds one word slot in a session: a snapshot of the
// vocabulary entry plus the recorded answer, if any
type SessionWordResult struct {
	WordID    string  `json:"word_id"`
	Word      string  `json:"word"`
	POS       string  `json:"pos"`
	Meaning   string  `json:"meaning"`
	Example   string  `json:"example"`
	Accuracy  *int    `json:"accuracy,omitempty"`
	Submitted *string `json:"submitted,omitempty"`
	Expected  *string `json:"expected,omitempty"`
	Completed bool    `json:"completed"`
}

// Session represents one bounded practice run over a subset of vocabulary
type Session struct {
	ID              string              `json:"id"`
	StartedAt       time.Time           `json:"started_at"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	Difficulty      Difficulty          `json:"difficulty"`
	Words           []SessionWordResult `json:"words"`
	TotalWords      int                 `json:"total_words"`
	CompletedWords  int                 `json:"completed_words"`
	TotalAccuracy   int                 `json:"total_accuracy"`
	AverageAccuracy float64             `json:"average_accuracy"`
}

// SessionRecord is a finalized session enriched with derived duration and
// calendar date, as stored in history
type SessionRecord struct {
	Session
	DurationMinutes int    `json:"duration_minutes"`
	Date            string `json:"date"` // YYYY-MM-DD of StartedAt
}

// SessionProgress is a display snapshot of an active session
type SessionProgress struct {
	Current         int     `json:"current"`
	Total           int     `json:"total"`
	Completed       int     `json:"completed"`
	AverageAccuracy float64 `json:"average_accuracy"`
}
