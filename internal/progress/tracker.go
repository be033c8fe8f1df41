// Package progress accumulates completed sessions into historical records
// and derives longitudinal analytics: aggregate statistics, study streaks,
// per-word progress, and performance trend.
package progress

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"dictado/internal/models"
)

// ErrSessionNotFinalized is returned when an unfinished session is recorded.
var ErrSessionNotFinalized = errors.New("session has no end timestamp")

const (
	trendWindow    = 5
	trendMinimum   = 3
	trendThreshold = 2.0
	reviewCutoff   = 80.0
	reviewStaleAge = 7 * 24 * time.Hour
)

// Tracker holds the append-only session history and everything derived from
// it. It performs no I/O; persistence wraps it from the outside.
type Tracker struct {
	now            func() time.Time
	history        []models.SessionRecord
	achievements   []models.Achievement
	totalStudyTime int // minutes
}

// NewTracker creates an empty progress tracker
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// NewTrackerAt creates a tracker with a fixed clock, for tests and replays.
func NewTrackerAt(now func() time.Time) *Tracker {
	return &Tracker{now: now}
}

// RecordSession enriches a finalized session with its duration and UTC
// calendar date, appends it to history, accumulates total study time, and evaluates
// achievements. It returns the stored record and any newly unlocked
// achievements.
func (t *Tracker) RecordSession(s *models.Session) (models.SessionRecord, []models.Achievement, error) {
	if s == nil || s.CompletedAt == nil {
		return models.SessionRecord{}, nil, ErrSessionNotFinalized
	}

	duration := int(math.Round(s.CompletedAt.Sub(s.StartedAt).Minutes()))
	record := models.SessionRecord{
		Session:         *s,
		DurationMinutes: duration,
		Date:            s.StartedAt.UTC().Format("2006-01-02"),
	}

	t.history = append(t.history, record)
	t.totalStudyTime += duration

	unlocked := t.evaluate(record)
	return record, unlocked, nil
}

// OverallStats summarizes the whole history. All fields are zero when no
// sessions have been recorded.
func (t *Tracker) OverallStats() models.AggregateStats {
	if len(t.history) == 0 {
		return models.AggregateStats{}
	}

	var words int
	var accuracy, duration float64
	for _, r := range t.history {
		words += r.CompletedWords
		accuracy += r.AverageAccuracy
		duration += float64(r.DurationMinutes)
	}
	n := float64(len(t.history))
	streaks := t.Streaks()

	return models.AggregateStats{
		TotalSessions:          len(t.history),
		TotalWordsStudied:      words,
		AverageAccuracy:        int(math.Round(accuracy / n)),
		TotalStudyTime:         t.totalStudyTime,
		CurrentStreak:          streaks.Current,
		BestStreak:             streaks.Best,
		AverageSessionDuration: int(math.Round(duration / n)),
	}
}

// Streaks computes the current and best consecutive-calendar-day study
// streaks over the set of distinct study dates. The current streak requires
// the most recent study date to be today or yesterday.
func (t *Tracker) Streaks() models.Streaks {
	if len(t.history) == 0 {
		return models.Streaks{}
	}

	dates := t.distinctStudyDays()
	today := dayOf(t.now())

	best, run := 0, 1
	for i := 1; i < len(dates); i++ {
		if daysBetween(dates[i-1], dates[i]) == 1 {
			run++
		} else {
			if run > best {
				best = run
			}
			run = 1
		}
	}
	if run > best {
		best = run
	}

	current := 0
	if daysBetween(dates[len(dates)-1], today) <= 1 {
		current = run // the trailing run ends on the most recent date
	}

	return models.Streaks{Current: current, Best: best}
}

// RecentPerformance returns the last n history records reduced to chart
// points, in chronological order. n defaults to 7 when not positive.
func (t *Tracker) RecentPerformance(n int) []models.PerformancePoint {
	if n <= 0 {
		n = 7
	}
	start := len(t.history) - n
	if start < 0 {
		start = 0
	}

	points := make([]models.PerformancePoint, 0, len(t.history)-start)
	for _, r := range t.history[start:] {
		points = append(points, models.PerformancePoint{
			Date:         r.Date,
			Accuracy:     r.AverageAccuracy,
			WordsStudied: r.CompletedWords,
			Duration:     r.DurationMinutes,
		})
	}
	return points
}

// WordProgress aggregates every completed word result across history, keyed
// by word, sorted worst average accuracy first to surface review candidates.
func (t *Tracker) WordProgress() []models.WordProgress {
	byID := make(map[string]*models.WordProgress)
	totals := make(map[string]int)

	for _, r := range t.history {
		for _, w := range r.Words {
			if !w.Completed {
				continue
			}
			wp, ok := byID[w.WordID]
			if !ok {
				wp = &models.WordProgress{
					WordID:     w.WordID,
					Word:       w.Word,
					POS:        w.POS,
					Meaning:    w.Meaning,
					Difficulty: r.Difficulty,
				}
				byID[w.WordID] = wp
			}
			wp.Attempts++
			if w.Accuracy != nil {
				totals[w.WordID] += *w.Accuracy
			}
			wp.AverageAccuracy = float64(totals[w.WordID]) / float64(wp.Attempts)
			studied := r.StartedAt
			if wp.LastStudied == nil || studied.After(*wp.LastStudied) {
				ts := studied
				wp.LastStudied = &ts
			}
		}
	}

	out := make([]models.WordProgress, 0, len(byID))
	for _, wp := range byID {
		out = append(out, *wp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageAccuracy == out[j].AverageAccuracy {
			return out[i].Word < out[j].Word
		}
		return out[i].AverageAccuracy < out[j].AverageAccuracy
	})
	return out
}

// WordsNeedingReview filters WordProgress down to low-accuracy words and
// words not studied within the last week.
func (t *Tracker) WordsNeedingReview() []models.WordProgress {
	cutoff := t.now().Add(-reviewStaleAge)

	var out []models.WordProgress
	for _, wp := range t.WordProgress() {
		lowAccuracy := wp.AverageAccuracy < reviewCutoff
		stale := wp.LastStudied == nil || wp.LastStudied.Before(cutoff)
		if lowAccuracy || stale {
			out = append(out, wp)
		}
	}
	return out
}

// PerformanceTrend classifies the direction of recent session accuracy by
// fitting an ordinary-least-squares line through the last five records.
func (t *Tracker) PerformanceTrend() models.Trend {
	if len(t.history) < trendMinimum {
		return models.TrendInsufficientData
	}

	start := len(t.history) - trendWindow
	if start < 0 {
		start = 0
	}
	recent := t.history[start:]

	var sumX, sumY, sumXY, sumXX float64
	for i, r := range recent {
		x := float64(i)
		y := r.AverageAccuracy
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	n := float64(len(recent))
	slope := (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)

	switch {
	case slope > trendThreshold:
		return models.TrendImproving
	case slope < -trendThreshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

const easierDifficultyCutoff = 70

// Recommendations derives study advice from the current analytics: words
// overdue for review, overall accuracy, the daily streak, and the recent
// trend. Empty when nothing stands out.
func (t *Tracker) Recommendations() []models.Recommendation {
	var recs []models.Recommendation

	if n := len(t.WordsNeedingReview()); n > 0 {
		recs = append(recs, models.Recommendation{
			Type:    "review",
			Message: fmt.Sprintf("You have %d words that could use more practice", n),
			Action:  "Review difficult words",
		})
	}

	stats := t.OverallStats()
	if stats.TotalSessions > 0 && stats.AverageAccuracy < easierDifficultyCutoff {
		recs = append(recs, models.Recommendation{
			Type:    "difficulty",
			Message: "Consider using easier difficulty level to build confidence",
			Action:  "Try beginner level",
		})
	}

	if stats.CurrentStreak == 0 {
		recs = append(recs, models.Recommendation{
			Type:    "consistency",
			Message: "Regular practice helps improve retention",
			Action:  "Try to study daily",
		})
	}

	if t.PerformanceTrend() == models.TrendDeclining {
		recs = append(recs, models.Recommendation{
			Type:    "performance",
			Message: "Your recent performance shows room for improvement",
			Action:  "Focus on accuracy over speed",
		})
	}

	return recs
}

// ExportSnapshot returns a copy of the full tracker state as the backup unit
func (t *Tracker) ExportSnapshot() models.Snapshot {
	history := make([]models.SessionRecord, len(t.history))
	copy(history, t.history)
	achievements := make([]models.Achievement, len(t.achievements))
	copy(achievements, t.achievements)

	return models.Snapshot{
		History:        history,
		Achievements:   achievements,
		TotalStudyTime: t.totalStudyTime,
		ExportedAt:     t.now(),
	}
}

// ImportSnapshot restores tracker state from a snapshot. Each field is
// replaced only when present in the snapshot, matching the export layout.
func (t *Tracker) ImportSnapshot(snap models.Snapshot) {
	if snap.History != nil {
		t.history = make([]models.SessionRecord, len(snap.History))
		copy(t.history, snap.History)
	}
	if snap.Achievements != nil {
		t.achievements = make([]models.Achievement, len(snap.Achievements))
		copy(t.achievements, snap.Achievements)
	}
	if snap.TotalStudyTime > 0 {
		t.totalStudyTime = snap.TotalStudyTime
	}
}

// History returns the stored records in insertion order
func (t *Tracker) History() []models.SessionRecord {
	return t.history
}

// Achievements returns all earned achievements
func (t *Tracker) Achievements() []models.Achievement {
	return t.achievements
}

// TotalStudyTime returns the accumulated study time in minutes
func (t *Tracker) TotalStudyTime() int {
	return t.totalStudyTime
}

// Clear wipes all progress state
func (t *Tracker) Clear() {
	t.history = nil
	t.achievements = nil
	t.totalStudyTime = 0
}

// distinctStudyDays returns the unique study dates in ascending order,
// truncated to midnight UTC.
func (t *Tracker) distinctStudyDays() []time.Time {
	seen := make(map[string]struct{}, len(t.history))
	var days []time.Time
	for _, r := range t.history {
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		day, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			day = dayOf(r.StartedAt)
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func dayOf(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
