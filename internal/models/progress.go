package models

import "time"

// AggregateStats summarizes the full session history. Derived on demand,
// never stored.
type AggregateStats struct {
	TotalSessions          int `json:"total_sessions"`
	TotalWordsStudied      int `json:"total_words_studied"`
	AverageAccuracy        int `json:"average_accuracy"` // rounded percentage
	TotalStudyTime         int `json:"total_study_time"` // minutes
	CurrentStreak          int `json:"current_streak"`
	BestStreak             int `json:"best_streak"`
	AverageSessionDuration int `json:"average_session_duration"` // minutes, rounded
}

// Streaks holds consecutive-day study streak counts
type Streaks struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

// PerformancePoint is one history record reduced for charting
type PerformancePoint struct {
	Date         string  `json:"date"`
	Accuracy     float64 `json:"accuracy"`
	WordsStudied int     `json:"words_studied"`
	Duration     int     `json:"duration"`
}

// WordProgress aggregates every completed result for one word across history
type WordProgress struct {
	WordID          string     `json:"word_id"`
	Word            string     `json:"word"`
	POS             string     `json:"pos"`
	Meaning         string     `json:"meaning"`
	Attempts        int        `json:"attempts"`
	AverageAccuracy float64    `json:"average_accuracy"`
	LastStudied     *time.Time `json:"last_studied,omitempty"`
	Difficulty      Difficulty `json:"difficulty"`
}

// Trend classifies the direction of recent accuracy
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// Recommendation is one piece of study advice derived from the analytics.
type Recommendation struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

// Snapshot is the backup/restore unit: the full persisted progress state
type Snapshot struct {
	History        []SessionRecord `json:"session_history"`
	Achievements   []Achievement   `json:"achievements"`
	TotalStudyTime int             `json:"total_study_time"`
	ExportedAt     time.Time       `json:"exported_at"`
}
