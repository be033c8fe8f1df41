package models

import (
	"math"
	"testing"
	"time"
)

func TestUpdatedAverage(t *testing.T) {
	tests := []struct {
		name     string
		oldAvg   float64
		newCount int
		score    int
		want     float64
	}{
		{name: "first score", oldAvg: 0, newCount: 1, score: 80, want: 80},
		{name: "second score averages", oldAvg: 80, newCount: 2, score: 60, want: 70},
		{name: "third score", oldAvg: 70, newCount: 3, score: 100, want: 80},
		{name: "zero count guarded", oldAvg: 50, newCount: 0, score: 90, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UpdatedAverage(tt.oldAvg, tt.newCount, tt.score)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("UpdatedAverage(%v, %d, %d) = %v, want %v",
					tt.oldAvg, tt.newCount, tt.score, got, tt.want)
			}
		})
	}
}

func TestRecordStudy(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	entry := VocabularyEntry{ID: "w1", Word: "magnificent"}

	entry.RecordStudy(90, now)
	if entry.TimesStudied != 1 {
		t.Errorf("TimesStudied = %d, want 1", entry.TimesStudied)
	}
	if entry.AverageAccuracy != 90 {
		t.Errorf("AverageAccuracy = %v, want 90", entry.AverageAccuracy)
	}
	if entry.LastStudied == nil || !entry.LastStudied.Equal(now) {
		t.Errorf("LastStudied = %v, want %v", entry.LastStudied, now)
	}

	later := now.Add(24 * time.Hour)
	entry.RecordStudy(70, later)
	if entry.TimesStudied != 2 {
		t.Errorf("TimesStudied = %d, want 2", entry.TimesStudied)
	}
	if entry.AverageAccuracy != 80 {
		t.Errorf("AverageAccuracy = %v, want 80", entry.AverageAccuracy)
	}
	if !entry.LastStudied.Equal(later) {
		t.Errorf("LastStudied = %v, want %v", entry.LastStudied, later)
	}
}

func TestDifficultyIsValid(t *testing.T) {
	valid := []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
	for _, d := range valid {
		if !d.IsValid() {
			t.Errorf("%q should be valid", d)
		}
	}
	invalid := []Difficulty{"", "expert", "b1"}
	for _, d := range invalid {
		if d.IsValid() {
			t.Errorf("%q should be invalid", d)
		}
	}
}

func TestSessionCompletedInvariant(t *testing.T) {
	session := Session{
		TotalWords: 3,
		Words: []SessionWordResult{
			{WordID: "a", Completed: true},
			{WordID: "b", Completed: true},
			{WordID: "c", Completed: false},
		},
		CompletedWords: 2,
	}

	count := 0
	for _, w := range session.Words {
		if w.Completed {
			count++
		}
	}
	if count != session.CompletedWords {
		t.Errorf("CompletedWords = %d, but %d results are flagged complete",
			session.CompletedWords, count)
	}
	if session.CompletedWords < 0 || session.CompletedWords > len(session.Words) {
		t.Errorf("CompletedWords %d out of range [0,%d]", session.CompletedWords, len(session.Words))
	}
}
