package models

import "time"

// VocabularyEntry represents a single imported vocabulary word with its
// accumulated study statistics
type VocabularyEntry struct {
	ID              string     `json:"id"`
	Word            string     `json:"word"`
	POS             string     `json:"pos"`
	Meaning         string     `json:"meaning"`
	Example         string     `json:"example"`
	DateAdded       time.Time  `json:"date_added"`
	TimesStudied    int        `json:"times_studied"`
	AverageAccuracy float64    `json:"average_accuracy"`
	LastStudied     *time.Time `json:"last_studied,omitempty"`
}

// UpdatedAverage returns the new running average accuracy after recording
// one more score. newCount is the attempt count including the new score.
func UpdatedAverage(oldAvg float64, newCount int, score int) float64 {
	if newCount <= 0 {
		return 0
	}
	return (oldAvg*float64(newCount-1) + float64(score)) / float64(newCount)
}

// RecordStudy applies one answer score to the entry's statistics at the
// given time
func (e *VocabularyEntry) RecordStudy(score int, at time.Time) {
	e.TimesStudied++
	e.AverageAccuracy = UpdatedAverage(e.AverageAccuracy, e.TimesStudied, score)
	t := at
	e.LastStudied = &t
}
