package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"dictado/internal/models"
	"dictado/internal/repository"
)

// BackupData is the on-disk backup layout: the progress snapshot plus the
// vocabulary store.
type BackupData struct {
	Version        string                    `json:"version"`
	ExportedAt     time.Time                 `json:"exported_at"`
	Vocabulary     []*models.VocabularyEntry `json:"vocabulary"`
	History        []models.SessionRecord    `json:"session_history"`
	Achievements   []models.Achievement      `json:"achievements"`
	TotalStudyTime int                       `json:"total_study_time"`
}

const backupVersion = "1"

// BackupService exports and restores the full application state as JSON.
type BackupService struct {
	vocabRepo *repository.VocabularyRepository
	progress  *ProgressService
}

// NewBackupService creates a new backup service.
func NewBackupService(vocabRepo *repository.VocabularyRepository, progressService *ProgressService) *BackupService {
	return &BackupService{
		vocabRepo: vocabRepo,
		progress:  progressService,
	}
}

// Export writes the full state to w as indented JSON.
func (s *BackupService) Export(ctx context.Context, w io.Writer) error {
	vocabulary, err := s.vocabRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading vocabulary: %w", err)
	}
	snapshot := s.progress.ExportSnapshot()

	data := BackupData{
		Version:        backupVersion,
		ExportedAt:     snapshot.ExportedAt,
		Vocabulary:     vocabulary,
		History:        snapshot.History,
		Achievements:   snapshot.Achievements,
		TotalStudyTime: snapshot.TotalStudyTime,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

// Import restores state from a backup produced by Export. Sections absent
// from the backup leave the current state untouched.
func (s *BackupService) Import(ctx context.Context, r io.Reader) error {
	var data BackupData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return fmt.Errorf("parsing backup: %w", err)
	}
	if data.Version != "" && data.Version != backupVersion {
		return fmt.Errorf("unsupported backup version %q", data.Version)
	}

	if data.Vocabulary != nil {
		if err := s.vocabRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clearing vocabulary: %w", err)
		}
		for _, entry := range data.Vocabulary {
			if err := s.vocabRepo.Create(ctx, entry); err != nil {
				return fmt.Errorf("restoring word %s: %w", entry.Word, err)
			}
		}
	}

	return s.progress.ImportSnapshot(ctx, models.Snapshot{
		History:        data.History,
		Achievements:   data.Achievements,
		TotalStudyTime: data.TotalStudyTime,
	})
}
