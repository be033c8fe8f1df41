package progress

import (
	"testing"
	"time"

	"dictado/internal/models"
)

func hasAchievement(list []models.Achievement, id string) bool {
	for _, a := range list {
		if a.ID == id {
			return true
		}
	}
	return false
}

func TestFirstSessionUnlocksOnce(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tr := trackerAt(start)

	_, unlocked, err := tr.RecordSession(finishedSession("s1", start, 10, 80))
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}
	if !hasAchievement(unlocked, "first_session") {
		t.Error("first_session not unlocked on first recorded session")
	}

	// condition stays true forever, but the badge is earned at most once
	for i := 0; i < 3; i++ {
		_, unlocked, err = tr.RecordSession(finishedSession("later", start.Add(time.Hour), 10, 80))
		if err != nil {
			t.Fatalf("RecordSession: %v", err)
		}
		if hasAchievement(unlocked, "first_session") {
			t.Error("first_session unlocked again")
		}
	}

	count := 0
	for _, a := range tr.Achievements() {
		if a.ID == "first_session" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("first_session earned %d times, want 1", count)
	}
}

func TestPerfectSessionAchievement(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tr := trackerAt(start)

	_, unlocked, err := tr.RecordSession(finishedSession("s1", start, 10, 90, 80))
	if err != nil {
		t.Fatal(err)
	}
	if hasAchievement(unlocked, "perfect_session") {
		t.Error("perfect_session unlocked by an imperfect session")
	}

	_, unlocked, err = tr.RecordSession(finishedSession("s2", start.Add(time.Hour), 10, 100, 100))
	if err != nil {
		t.Fatal(err)
	}
	if !hasAchievement(unlocked, "perfect_session") {
		t.Error("perfect_session not unlocked by a 100% session")
	}
}

func TestMarathonSessionAchievement(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tr := trackerAt(start)

	_, unlocked, err := tr.RecordSession(finishedSession("s1", start, 45, 80))
	if err != nil {
		t.Fatal(err)
	}
	if !hasAchievement(unlocked, "marathon_session") {
		t.Error("marathon_session not unlocked by a 45 minute session")
	}
}

func TestHundredWordsAchievement(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tr := trackerAt(start)

	accuracies := make([]int, 20)
	for i := range accuracies {
		accuracies[i] = 80
	}

	var last []models.Achievement
	for i := 0; i < 5; i++ {
		var err error
		_, last, err = tr.RecordSession(finishedSession(string(rune('a'+i)), start.Add(time.Duration(i)*time.Hour), 10, accuracies...))
		if err != nil {
			t.Fatal(err)
		}
	}
	if !hasAchievement(last, "hundred_words") {
		t.Error("hundred_words not unlocked after 100 studied words")
	}
}

func TestAchievementStampsSessionID(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	tr := trackerAt(start)

	_, unlocked, err := tr.RecordSession(finishedSession("session-42", start, 10, 80))
	if err != nil {
		t.Fatal(err)
	}
	if len(unlocked) == 0 {
		t.Fatal("no achievements unlocked")
	}
	for _, a := range unlocked {
		if a.SessionID != "session-42" {
			t.Errorf("SessionID = %q, want session-42", a.SessionID)
		}
		if a.EarnedAt.IsZero() {
			t.Error("EarnedAt not stamped")
		}
	}
}
