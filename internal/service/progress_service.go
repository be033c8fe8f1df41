package service

import (
	"context"
	"fmt"

	"dictado/internal/models"
	"dictado/internal/progress"
	"dictado/internal/repository"
)

// ProgressService wraps the in-memory progress tracker with persistence.
// The tracker is hydrated from the database at startup and every recorded
// session is written through.
type ProgressService struct {
	tracker         *progress.Tracker
	historyRepo     *repository.HistoryRepository
	achievementRepo *repository.AchievementRepository
	studyTimeRepo   *repository.StudyTimeRepository
}

// NewProgressService creates a progress service and loads the persisted
// history into the tracker.
func NewProgressService(
	tracker *progress.Tracker,
	historyRepo *repository.HistoryRepository,
	achievementRepo *repository.AchievementRepository,
	studyTimeRepo *repository.StudyTimeRepository,
) (*ProgressService, error) {
	s := &ProgressService{
		tracker:         tracker,
		historyRepo:     historyRepo,
		achievementRepo: achievementRepo,
		studyTimeRepo:   studyTimeRepo,
	}
	if err := s.hydrate(context.Background()); err != nil {
		return nil, fmt.Errorf("loading progress history: %w", err)
	}
	return s, nil
}

func (s *ProgressService) hydrate(ctx context.Context) error {
	history, err := s.historyRepo.List(ctx)
	if err != nil {
		return err
	}
	achievements, err := s.achievementRepo.List(ctx)
	if err != nil {
		return err
	}
	totalStudyTime, err := s.studyTimeRepo.Total(ctx)
	if err != nil {
		return err
	}
	s.tracker.ImportSnapshot(models.Snapshot{
		History:        history,
		Achievements:   achievements,
		TotalStudyTime: totalStudyTime,
	})
	return nil
}

// RecordSession stores a finalized session in the tracker and the
// database. It returns the enriched record and any newly earned
// achievements.
func (s *ProgressService) RecordSession(ctx context.Context, session *models.Session) (models.SessionRecord, []models.Achievement, error) {
	record, unlocked, err := s.tracker.RecordSession(session)
	if err != nil {
		return models.SessionRecord{}, nil, err
	}

	if err := s.historyRepo.Save(ctx, &record); err != nil {
		return record, unlocked, fmt.Errorf("persisting session record: %w", err)
	}
	if err := s.studyTimeRepo.Add(ctx, record.DurationMinutes); err != nil {
		return record, unlocked, fmt.Errorf("persisting study time: %w", err)
	}
	for i := range unlocked {
		if err := s.achievementRepo.Save(ctx, &unlocked[i]); err != nil {
			return record, unlocked, fmt.Errorf("persisting achievement %s: %w", unlocked[i].ID, err)
		}
	}
	return record, unlocked, nil
}

// OverallStats summarizes the full history.
func (s *ProgressService) OverallStats() models.AggregateStats {
	return s.tracker.OverallStats()
}

// Streaks returns the current and best study streaks.
func (s *ProgressService) Streaks() models.Streaks {
	return s.tracker.Streaks()
}

// RecentPerformance returns chart points for the last n sessions.
func (s *ProgressService) RecentPerformance(n int) []models.PerformancePoint {
	return s.tracker.RecentPerformance(n)
}

// WordProgress returns per-word aggregates, weakest first.
func (s *ProgressService) WordProgress() []models.WordProgress {
	return s.tracker.WordProgress()
}

// WordsNeedingReview returns words below the review cutoff or gone stale.
func (s *ProgressService) WordsNeedingReview() []models.WordProgress {
	return s.tracker.WordsNeedingReview()
}

// PerformanceTrend classifies the recent accuracy direction.
func (s *ProgressService) PerformanceTrend() models.Trend {
	return s.tracker.PerformanceTrend()
}

// Recommendations derives study advice from the current analytics.
func (s *ProgressService) Recommendations() []models.Recommendation {
	return s.tracker.Recommendations()
}

// History returns the stored session records.
func (s *ProgressService) History() []models.SessionRecord {
	return s.tracker.History()
}

// Achievements returns all earned achievements.
func (s *ProgressService) Achievements() []models.Achievement {
	return s.tracker.Achievements()
}

// ExportSnapshot returns the full progress state as a backup unit.
func (s *ProgressService) ExportSnapshot() models.Snapshot {
	return s.tracker.ExportSnapshot()
}

// ImportSnapshot replaces the tracker and database state with the
// snapshot's contents. Fields absent from the snapshot keep their
// current values.
func (s *ProgressService) ImportSnapshot(ctx context.Context, snap models.Snapshot) error {
	s.tracker.ImportSnapshot(snap)

	if snap.History != nil {
		if err := s.historyRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clearing session history: %w", err)
		}
		for i := range snap.History {
			if err := s.historyRepo.Save(ctx, &snap.History[i]); err != nil {
				return fmt.Errorf("restoring session %s: %w", snap.History[i].ID, err)
			}
		}
	}
	if snap.Achievements != nil {
		if err := s.achievementRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clearing achievements: %w", err)
		}
		for i := range snap.Achievements {
			if err := s.achievementRepo.Save(ctx, &snap.Achievements[i]); err != nil {
				return fmt.Errorf("restoring achievement %s: %w", snap.Achievements[i].ID, err)
			}
		}
	}
	if snap.TotalStudyTime > 0 {
		if err := s.studyTimeRepo.Set(ctx, snap.TotalStudyTime); err != nil {
			return fmt.Errorf("restoring study time: %w", err)
		}
	}
	return nil
}

// Clear wipes all progress state from the tracker and the database.
func (s *ProgressService) Clear(ctx context.Context) error {
	s.tracker.Clear()
	if err := s.historyRepo.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.achievementRepo.DeleteAll(ctx); err != nil {
		return err
	}
	return s.studyTimeRepo.Set(ctx, 0)
}
