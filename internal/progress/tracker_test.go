package progress

import (
	"testing"
	"time"

	"dictado/internal/models"
)

// finishedSession builds a finalized session starting at start with the
// given per-word accuracies.
func finishedSession(id string, start time.Time, minutes int, accuracies ...int) *models.Session {
	end := start.Add(time.Duration(minutes) * time.Minute)
	s := &models.Session{
		ID:          id,
		StartedAt:   start,
		CompletedAt: &end,
		Difficulty:  models.DifficultyBeginner,
	}
	total := 0
	for i, acc := range accuracies {
		a := acc
		sub, exp := "submitted", "expected"
		s.Words = append(s.Words, models.SessionWordResult{
			WordID:    string(rune('a' + i)),
			Word:      string(rune('a' + i)),
			Accuracy:  &a,
			Submitted: &sub,
			Expected:  &exp,
			Completed: true,
		})
		total += acc
	}
	s.TotalWords = len(s.Words)
	s.CompletedWords = len(s.Words)
	s.TotalAccuracy = total
	if len(accuracies) > 0 {
		s.AverageAccuracy = float64(total) / float64(len(accuracies))
	}
	return s
}

func trackerAt(day time.Time) *Tracker {
	return NewTrackerAt(func() time.Time { return day })
}

func TestRecordSessionEnrichment(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	tr := trackerAt(now)

	rec, _, err := tr.RecordSession(finishedSession("s1", now, 12, 80, 90))
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}
	if rec.DurationMinutes != 12 {
		t.Errorf("DurationMinutes = %d, want 12", rec.DurationMinutes)
	}
	if rec.Date != "2024-06-01" {
		t.Errorf("Date = %q, want 2024-06-01", rec.Date)
	}
	if tr.TotalStudyTime() != 12 {
		t.Errorf("TotalStudyTime = %d, want 12", tr.TotalStudyTime())
	}
}

func TestRecordSessionRequiresFinalized(t *testing.T) {
	tr := NewTracker()
	if _, _, err := tr.RecordSession(&models.Session{}); err != ErrSessionNotFinalized {
		t.Errorf("got %v, want ErrSessionNotFinalized", err)
	}
}

func TestOverallStatsEmpty(t *testing.T) {
	stats := NewTracker().OverallStats()
	if stats != (models.AggregateStats{}) {
		t.Errorf("empty history stats = %+v, want zero value", stats)
	}
}

func TestStreaksConsecutive(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 6, d, 9, 0, 0, 0, time.UTC)
	}
	tr := trackerAt(day(3))
	for i, d := range []int{1, 2, 3} {
		if _, _, err := tr.RecordSession(finishedSession(string(rune('a'+i)), day(d), 10, 80)); err != nil {
			t.Fatalf("RecordSession: %v", err)
		}
	}

	streaks := tr.Streaks()
	if streaks.Current != 3 {
		t.Errorf("Current = %d, want 3", streaks.Current)
	}
	if streaks.Best != 3 {
		t.Errorf("Best = %d, want 3", streaks.Best)
	}
}

func TestStreaksBrokenRun(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 6, d, 9, 0, 0, 0, time.UTC)
	}
	// study on days 1, 2, 5; "today" is day 8 so the current streak is dead
	tr := trackerAt(day(8))
	for i, d := range []int{1, 2, 5} {
		if _, _, err := tr.RecordSession(finishedSession(string(rune('a'+i)), day(d), 10, 80)); err != nil {
			t.Fatalf("RecordSession: %v", err)
		}
	}

	streaks := tr.Streaks()
	if streaks.Current != 0 {
		t.Errorf("Current = %d, want 0", streaks.Current)
	}
	if streaks.Best != 2 {
		t.Errorf("Best = %d, want 2", streaks.Best)
	}
}

func TestStreaksYesterdayStillCurrent(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 6, d, 9, 0, 0, 0, time.UTC)
	}
	tr := trackerAt(day(4))
	for i, d := range []int{2, 3} {
		if _, _, err := tr.RecordSession(finishedSession(string(rune('a'+i)), day(d), 10, 80)); err != nil {
			t.Fatalf("RecordSession: %v", err)
		}
	}

	if streaks := tr.Streaks(); streaks.Current != 2 {
		t.Errorf("Current = %d, want 2 when last study was yesterday", streaks.Current)
	}
}

func TestMultipleSessionsSameDayCountOnce(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tr := trackerAt(start)
	for i := 0; i < 3; i++ {
		if _, _, err := tr.RecordSession(finishedSession(string(rune('a'+i)), start.Add(time.Duration(i)*time.Hour), 10, 80)); err != nil {
			t.Fatalf("RecordSession: %v", err)
		}
	}

	if streaks := tr.Streaks(); streaks.Current != 1 || streaks.Best != 1 {
		t.Errorf("streaks = %+v, want current 1 best 1 for a single study day", streaks)
	}
}

func TestPerformanceTrend(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("insufficient data", func(t *testing.T) {
		tr := trackerAt(start)
		if _, _, err := tr.RecordSession(finishedSession("a", start, 10, 50)); err != nil {
			t.Fatal(err)
		}
		if _, _, err := tr.RecordSession(finishedSession("b", start.Add(time.Hour), 10, 60)); err != nil {
			t.Fatal(err)
		}
		if got := tr.PerformanceTrend(); got != models.TrendInsufficientData {
			t.Errorf("trend = %q, want insufficient_data", got)
		}
	})

	trendCases := []struct {
		name       string
		accuracies []int
		want       models.Trend
	}{
		{name: "improving", accuracies: []int{50, 55, 60, 65, 70}, want: models.TrendImproving},
		{name: "declining", accuracies: []int{90, 80, 70, 60, 50}, want: models.TrendDeclining},
		{name: "stable", accuracies: []int{70, 71, 70, 69, 70}, want: models.TrendStable},
	}
	for _, tt := range trendCases {
		t.Run(tt.name, func(t *testing.T) {
			tr := trackerAt(start)
			for i, acc := range tt.accuracies {
				s := finishedSession(string(rune('a'+i)), start.Add(time.Duration(i)*time.Hour), 10, acc)
				if _, _, err := tr.RecordSession(s); err != nil {
					t.Fatal(err)
				}
			}
			if got := tr.PerformanceTrend(); got != tt.want {
				t.Errorf("trend = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWordProgressSortedWorstFirst(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tr := trackerAt(start)

	s := finishedSession("s1", start, 10, 95, 40, 70)
	if _, _, err := tr.RecordSession(s); err != nil {
		t.Fatal(err)
	}

	wp := tr.WordProgress()
	if len(wp) != 3 {
		t.Fatalf("got %d words, want 3", len(wp))
	}
	for i := 1; i < len(wp); i++ {
		if wp[i-1].AverageAccuracy > wp[i].AverageAccuracy {
			t.Errorf("word progress not sorted ascending: %v then %v",
				wp[i-1].AverageAccuracy, wp[i].AverageAccuracy)
		}
	}
}

func TestWordProgressAccumulatesAcrossSessions(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tr := trackerAt(start)

	// the helper names words a, b, ... so word "a" repeats across sessions
	if _, _, err := tr.RecordSession(finishedSession("s1", start, 10, 60)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := tr.RecordSession(finishedSession("s2", start.Add(time.Hour), 10, 80)); err != nil {
		t.Fatal(err)
	}

	wp := tr.WordProgress()
	if len(wp) != 1 {
		t.Fatalf("got %d words, want 1", len(wp))
	}
	if wp[0].Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", wp[0].Attempts)
	}
	if wp[0].AverageAccuracy != 70 {
		t.Errorf("AverageAccuracy = %v, want 70", wp[0].AverageAccuracy)
	}
	if wp[0].LastStudied == nil || !wp[0].LastStudied.Equal(start.Add(time.Hour)) {
		t.Errorf("LastStudied = %v, want most recent session start", wp[0].LastStudied)
	}
}

func TestWordsNeedingReview(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("low accuracy", func(t *testing.T) {
		tr := trackerAt(start.Add(time.Hour))
		if _, _, err := tr.RecordSession(finishedSession("s1", start, 10, 50)); err != nil {
			t.Fatal(err)
		}
		if got := tr.WordsNeedingReview(); len(got) != 1 {
			t.Errorf("got %d review words, want 1", len(got))
		}
	})

	t.Run("stale despite high accuracy", func(t *testing.T) {
		tr := trackerAt(start.Add(8 * 24 * time.Hour))
		if _, _, err := tr.RecordSession(finishedSession("s1", start, 10, 95)); err != nil {
			t.Fatal(err)
		}
		if got := tr.WordsNeedingReview(); len(got) != 1 {
			t.Errorf("got %d review words, want 1", len(got))
		}
	})

	t.Run("fresh and accurate", func(t *testing.T) {
		tr := trackerAt(start.Add(time.Hour))
		if _, _, err := tr.RecordSession(finishedSession("s1", start, 10, 95)); err != nil {
			t.Fatal(err)
		}
		if got := tr.WordsNeedingReview(); len(got) != 0 {
			t.Errorf("got %d review words, want 0", len(got))
		}
	})
}

func TestRecentPerformance(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tr := trackerAt(start)
	for i := 0; i < 10; i++ {
		s := finishedSession(string(rune('a'+i)), start.Add(time.Duration(i)*24*time.Hour), 10, 50+i)
		if _, _, err := tr.RecordSession(s); err != nil {
			t.Fatal(err)
		}
	}

	points := tr.RecentPerformance(7)
	if len(points) != 7 {
		t.Fatalf("got %d points, want 7", len(points))
	}
	// chronological order, ending at the latest record
	if points[0].Date != "2024-06-04" || points[6].Date != "2024-06-10" {
		t.Errorf("window = %s..%s, want 2024-06-04..2024-06-10", points[0].Date, points[6].Date)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tr := trackerAt(start)
	for i := 0; i < 4; i++ {
		s := finishedSession(string(rune('a'+i)), start.Add(time.Duration(i)*24*time.Hour), 15, 80, 90)
		if _, _, err := tr.RecordSession(s); err != nil {
			t.Fatal(err)
		}
	}
	want := tr.OverallStats()

	snap := tr.ExportSnapshot()
	fresh := trackerAt(start)
	fresh.ImportSnapshot(snap)

	if got := fresh.OverallStats(); got != want {
		t.Errorf("stats after round trip = %+v, want %+v", got, want)
	}
	if fresh.TotalStudyTime() != tr.TotalStudyTime() {
		t.Errorf("study time after round trip = %d, want %d",
			fresh.TotalStudyTime(), tr.TotalStudyTime())
	}
}

func TestImportSnapshotPartial(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tr := trackerAt(start)
	if _, _, err := tr.RecordSession(finishedSession("s1", start, 10, 80)); err != nil {
		t.Fatal(err)
	}

	// a snapshot carrying only study time leaves history untouched
	tr.ImportSnapshot(models.Snapshot{TotalStudyTime: 500})
	if len(tr.History()) != 1 {
		t.Errorf("history replaced by partial import")
	}
	if tr.TotalStudyTime() != 500 {
		t.Errorf("TotalStudyTime = %d, want 500", tr.TotalStudyTime())
	}
}

func TestRecordSessionDateInUTC(t *testing.T) {
	// 23:30 on June 1 in UTC-5 is already June 2 in UTC. The record date
	// and the streak day must agree on the UTC day.
	zone := time.FixedZone("UTC-5", -5*60*60)
	start := time.Date(2024, 6, 1, 23, 30, 0, 0, zone)
	tr := trackerAt(start.Add(time.Hour))

	rec, _, err := tr.RecordSession(finishedSession("s1", start, 10, 80))
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}
	if rec.Date != "2024-06-02" {
		t.Errorf("Date = %q, want the UTC day 2024-06-02", rec.Date)
	}
	if streaks := tr.Streaks(); streaks.Current != 1 {
		t.Errorf("Current = %d, want 1 for a session studied today", streaks.Current)
	}
}

func recommendationTypes(recs []models.Recommendation) map[string]bool {
	types := make(map[string]bool, len(recs))
	for _, r := range recs {
		types[r.Type] = true
	}
	return types
}

func TestRecommendations(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("nothing stands out", func(t *testing.T) {
		tr := trackerAt(start.Add(3 * time.Hour))
		for i := 0; i < 3; i++ {
			if _, _, err := tr.RecordSession(finishedSession(string(rune('a'+i)), start.Add(time.Duration(i)*time.Hour), 10, 95)); err != nil {
				t.Fatal(err)
			}
		}
		if recs := tr.Recommendations(); len(recs) != 0 {
			t.Errorf("recommendations = %+v, want none", recs)
		}
	})

	t.Run("struggling words and low accuracy", func(t *testing.T) {
		tr := trackerAt(start.Add(time.Hour))
		if _, _, err := tr.RecordSession(finishedSession("s1", start, 10, 40, 50)); err != nil {
			t.Fatal(err)
		}

		recs := tr.Recommendations()
		types := recommendationTypes(recs)
		if !types["review"] || !types["difficulty"] {
			t.Fatalf("recommendation types = %v, want review and difficulty", types)
		}
		for _, r := range recs {
			if r.Type == "review" && r.Message != "You have 2 words that could use more practice" {
				t.Errorf("review message = %q", r.Message)
			}
			if r.Action == "" {
				t.Errorf("recommendation %q has no action", r.Type)
			}
		}
	})

	t.Run("lapsed streak", func(t *testing.T) {
		tr := trackerAt(start.Add(8 * 24 * time.Hour))
		if _, _, err := tr.RecordSession(finishedSession("s1", start, 10, 95)); err != nil {
			t.Fatal(err)
		}
		if types := recommendationTypes(tr.Recommendations()); !types["consistency"] {
			t.Errorf("recommendation types = %v, want consistency after a lapsed streak", types)
		}
	})

	t.Run("declining trend", func(t *testing.T) {
		tr := trackerAt(start.Add(5 * time.Hour))
		for i, acc := range []int{95, 90, 85, 80, 75} {
			if _, _, err := tr.RecordSession(finishedSession(string(rune('a'+i)), start.Add(time.Duration(i)*time.Hour), 10, acc)); err != nil {
				t.Fatal(err)
			}
		}
		if types := recommendationTypes(tr.Recommendations()); !types["performance"] {
			t.Errorf("recommendation types = %v, want performance on a declining trend", types)
		}
	})
}
