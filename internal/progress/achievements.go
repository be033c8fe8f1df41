package progress

import (
	"dictado/internal/models"
)

// AchievementDefinition pairs a badge's metadata with the predicate that
// unlocks it. Predicates are independent of each other, so evaluation order
// never changes the outcome.
type AchievementDefinition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Unlocks     func(stats models.AggregateStats, session models.SessionRecord) bool
}

// Definitions is the fixed, ordered achievement rule set
var Definitions = []AchievementDefinition{
	{
		ID:          "first_session",
		Name:        "Getting Started",
		Description: "Complete your first dictation session",
		Icon:        "🎯",
		Unlocks: func(stats models.AggregateStats, _ models.SessionRecord) bool {
			return stats.TotalSessions >= 1
		},
	},
	{
		ID:          "week_streak",
		Name:        "Week Warrior",
		Description: "Study for 7 consecutive days",
		Icon:        "🔥",
		Unlocks: func(stats models.AggregateStats, _ models.SessionRecord) bool {
			return stats.CurrentStreak >= 7
		},
	},
	{
		ID:          "perfect_session",
		Name:        "Perfectionist",
		Description: "Complete a session with 100% accuracy",
		Icon:        "⭐",
		Unlocks: func(_ models.AggregateStats, session models.SessionRecord) bool {
			return session.AverageAccuracy == 100
		},
	},
	{
		ID:          "hundred_words",
		Name:        "Century Scholar",
		Description: "Study 100 words in total",
		Icon:        "📚",
		Unlocks: func(stats models.AggregateStats, _ models.SessionRecord) bool {
			return stats.TotalWordsStudied >= 100
		},
	},
	{
		ID:          "marathon_session",
		Name:        "Marathon Learner",
		Description: "Complete a session lasting over 30 minutes",
		Icon:        "⏰",
		Unlocks: func(_ models.AggregateStats, session models.SessionRecord) bool {
			return session.DurationMinutes >= 30
		},
	},
	{
		ID:          "consistency_champion",
		Name:        "Consistency Champion",
		Description: "Complete 30 sessions",
		Icon:        "🏆",
		Unlocks: func(stats models.AggregateStats, _ models.SessionRecord) bool {
			return stats.TotalSessions >= 30
		},
	},
	{
		ID:          "accuracy_expert",
		Name:        "Accuracy Expert",
		Description: "Maintain 90%+ average accuracy",
		Icon:        "🎓",
		Unlocks: func(stats models.AggregateStats, _ models.SessionRecord) bool {
			return stats.AverageAccuracy >= 90
		},
	},
}

// evaluate checks every definition not yet earned against the aggregate
// stats (including the just-recorded session) and unlocks the ones whose
// predicate holds. Each achievement id is earned at most once.
func (t *Tracker) evaluate(record models.SessionRecord) []models.Achievement {
	earned := make(map[string]struct{}, len(t.achievements))
	for _, a := range t.achievements {
		earned[a.ID] = struct{}{}
	}

	stats := t.OverallStats()
	var unlocked []models.Achievement
	for _, def := range Definitions {
		if _, ok := earned[def.ID]; ok {
			continue
		}
		if !def.Unlocks(stats, record) {
			continue
		}
		a := models.Achievement{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			EarnedAt:    t.now(),
			SessionID:   record.ID,
		}
		t.achievements = append(t.achievements, a)
		unlocked = append(unlocked, a)
	}
	return unlocked
}
