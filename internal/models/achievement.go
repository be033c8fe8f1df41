package models

import "time"

// Achievement is a one-time badge earned by meeting a condition over the
// aggregate statistics or a just-completed session
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	EarnedAt    time.Time `json:"earned_at"`
	SessionID   string    `json:"session_id"`
}
