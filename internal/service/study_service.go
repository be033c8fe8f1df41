package service

import (
	"context"
	"fmt"
	"log"

	"dictado/internal/generator"
	"dictado/internal/models"
	"dictado/internal/repository"
	"dictado/internal/session"
	"dictado/internal/similarity"
)

// DictationPrompt is the current word slot together with the sentence the
// learner is asked to transcribe.
type DictationPrompt struct {
	models.SessionWordResult
	Sentence string `json:"sentence"`
}

// AnswerResult is what the student sees after submitting an answer.
type AnswerResult struct {
	Accuracy  int    `json:"accuracy"`
	Correct   bool   `json:"correct"`
	Submitted string `json:"submitted"`
	Expected  string `json:"expected"`
	HasNext   bool   `json:"has_next"`
}

// StudyService orchestrates a dictation run: it draws words from the
// vocabulary store, produces a dictation sentence for each word, scores
// submitted transcriptions against that sentence, advances the session
// engine and hands finished sessions to the progress service.
type StudyService struct {
	engine    *session.Engine
	vocabRepo *repository.VocabularyRepository
	progress  *ProgressService
	generator *generator.Client

	// pool indexes the entries handed to the engine for the active
	// session, so updated study stats can be written back.
	pool       map[string]*models.VocabularyEntry
	difficulty models.Difficulty
	// sentences caches the dictation sentence per word, so the sentence
	// read aloud is the one the answer is scored against.
	sentences map[string]string
}

// NewStudyService creates a study service.
func NewStudyService(
	engine *session.Engine,
	vocabRepo *repository.VocabularyRepository,
	progressService *ProgressService,
	gen *generator.Client,
) *StudyService {
	return &StudyService{
		engine:    engine,
		vocabRepo: vocabRepo,
		progress:  progressService,
		generator: gen,
	}
}

// StartSession begins a session of up to size words at the given
// difficulty. When the vocabulary store is empty and a generator is
// configured, a fresh word set is generated and stored first.
func (s *StudyService) StartSession(ctx context.Context, size int, difficulty models.Difficulty) (*models.Session, error) {
	pool, err := s.vocabRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading vocabulary: %w", err)
	}

	if len(pool) == 0 && s.generator != nil {
		generated := s.generator.GenerateWithFallback(ctx, difficulty, size, nil)
		if len(generated) > 0 {
			if err := s.vocabRepo.ImportBatch(ctx, generated); err != nil {
				return nil, fmt.Errorf("storing generated words: %w", err)
			}
			pool = generated
			log.Printf("Generated %d %s words for empty vocabulary", len(generated), difficulty)
		}
	}

	started, err := s.engine.Start(pool, size, difficulty)
	if err != nil {
		return nil, err
	}
	s.pool = make(map[string]*models.VocabularyEntry, len(pool))
	for _, entry := range pool {
		s.pool[entry.ID] = entry
	}
	s.difficulty = difficulty
	s.sentences = make(map[string]string, started.TotalWords)
	return started, nil
}

// CurrentPrompt returns the word awaiting an answer together with its
// dictation sentence.
func (s *StudyService) CurrentPrompt(ctx context.Context) (*DictationPrompt, error) {
	word, ok := s.engine.CurrentWord()
	if !ok {
		return nil, session.ErrNoActiveSession
	}
	return &DictationPrompt{
		SessionWordResult: word,
		Sentence:          s.sentenceFor(ctx, word),
	}, nil
}

// sentenceFor resolves the dictation sentence for a word, once per session:
// the generator if configured, else the entry's stored example, else a stock
// sentence. The result is cached so scoring sees the same sentence.
func (s *StudyService) sentenceFor(ctx context.Context, word models.SessionWordResult) string {
	if cached, ok := s.sentences[word.WordID]; ok {
		return cached
	}

	var sentence string
	if s.generator != nil {
		entry := s.pool[word.WordID]
		if entry == nil {
			entry = &models.VocabularyEntry{Word: word.Word, POS: word.POS, Meaning: word.Meaning, Example: word.Example}
		}
		generated, err := s.generator.GenerateSentence(ctx, entry, s.difficulty)
		if err != nil {
			log.Printf("Sentence generation failed for %q, falling back: %v", word.Word, err)
		} else {
			sentence = generated
		}
	}
	if sentence == "" {
		sentence = word.Example
	}
	if sentence == "" {
		sentence = generator.FallbackSentence(word.Word, word.POS, s.difficulty)
	}

	if s.sentences != nil {
		s.sentences[word.WordID] = sentence
	}
	return sentence
}

// Progress returns a display snapshot of the active session.
func (s *StudyService) Progress() (models.SessionProgress, error) {
	return s.engine.Progress()
}

// SubmitAnswer scores the submitted transcription against the current
// word's dictation sentence, records the result and advances to the next
// word. Updated word statistics are written back to the vocabulary store.
func (s *StudyService) SubmitAnswer(ctx context.Context, submitted string) (*AnswerResult, error) {
	word, ok := s.engine.CurrentWord()
	if !ok {
		return nil, session.ErrNoActiveSession
	}

	expected := s.sentenceFor(ctx, word)
	accuracy := similarity.Score(expected, submitted)
	if err := s.engine.RecordResult(word.WordID, submitted, expected, accuracy); err != nil {
		return nil, err
	}

	// The engine has already folded the score into the entry's running
	// stats; write the updated entry back.
	if entry, ok := s.pool[word.WordID]; ok {
		if err := s.vocabRepo.UpdateStudyStats(ctx, entry); err != nil {
			log.Printf("Failed to update stats for word %s: %v", word.Word, err)
		}
	}

	hasNext := s.engine.Advance()
	return &AnswerResult{
		Accuracy:  accuracy,
		Correct:   accuracy == 100,
		Submitted: submitted,
		Expected:  expected,
		HasNext:   hasNext,
	}, nil
}

// SkipWord advances past the current word without recording an answer.
func (s *StudyService) SkipWord() (bool, error) {
	if _, ok := s.engine.CurrentWord(); !ok {
		return false, session.ErrNoActiveSession
	}
	return s.engine.Advance(), nil
}

// CompleteSession finalizes the active session and records it in progress
// history. It returns the stored record and any newly earned achievements.
func (s *StudyService) CompleteSession(ctx context.Context) (models.SessionRecord, []models.Achievement, error) {
	finished, err := s.engine.Complete()
	if err != nil {
		return models.SessionRecord{}, nil, err
	}
	s.reset()
	return s.progress.RecordSession(ctx, finished)
}

// AbandonSession discards the active session without recording anything.
func (s *StudyService) AbandonSession() {
	s.engine.Abandon()
	s.reset()
}

func (s *StudyService) reset() {
	s.pool = nil
	s.sentences = nil
	s.difficulty = ""
}
