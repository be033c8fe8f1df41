// Package session owns the lifecycle of one practice session: word
// selection, sequencing, per-word result recording, and completion.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"dictado/internal/models"
)

var (
	// ErrEmptyPool is returned when a session is started with no vocabulary.
	ErrEmptyPool = errors.New("no vocabulary entries available")
	// ErrSessionActive is returned when a session is started while another
	// is still active.
	ErrSessionActive = errors.New("a session is already active")
	// ErrNoActiveSession is returned by operations that require an active
	// session when the engine is idle.
	ErrNoActiveSession = errors.New("no active session")
	// ErrWordNotFound is returned when a result is recorded for a word that
	// is not part of the active session.
	ErrWordNotFound = errors.New("word not in session")
	// ErrResultRecorded is returned when a result is recorded twice for the
	// same word, which would double-count accuracy totals.
	ErrResultRecorded = errors.New("result already recorded for word")
)

// Engine drives a single practice session at a time. It is not safe for
// concurrent use; the calling loop invokes it sequentially.
type Engine struct {
	rng  *rand.Rand
	now  func() time.Time
	s    *models.Session
	pool map[string]*models.VocabularyEntry
	idx  int
}

// NewEngine creates a practice session engine
func NewEngine() *Engine {
	return &Engine{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// newEngineAt returns an engine with a fixed clock and seed, for tests.
func newEngineAt(now func() time.Time, seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed)), now: now}
}

// Active reports whether a session is currently in progress
func (e *Engine) Active() bool {
	return e.s != nil
}

// Start begins a new session over size entries drawn uniformly without
// replacement from pool. If pool has fewer than size entries the session
// covers the whole pool. A strict single-session policy applies: starting
// while another session is active returns ErrSessionActive.
func (e *Engine) Start(pool []*models.VocabularyEntry, size int, difficulty models.Difficulty) (*models.Session, error) {
	if e.s != nil {
		return nil, ErrSessionActive
	}
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	if !difficulty.IsValid() {
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}
	if size <= 0 || size > len(pool) {
		size = len(pool)
	}

	// Fisher-Yates over a copy so the caller's pool order is untouched.
	shuffled := make([]*models.VocabularyEntry, len(pool))
	copy(shuffled, pool)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	selected := shuffled[:size]

	words := make([]models.SessionWordResult, len(selected))
	byID := make(map[string]*models.VocabularyEntry, len(selected))
	for i, entry := range selected {
		words[i] = models.SessionWordResult{
			WordID:  entry.ID,
			Word:    entry.Word,
			POS:     entry.POS,
			Meaning: entry.Meaning,
			Example: entry.Example,
		}
		byID[entry.ID] = entry
	}

	e.s = &models.Session{
		ID:         uuid.NewString(),
		StartedAt:  e.now(),
		Difficulty: difficulty,
		Words:      words,
		TotalWords: len(words),
	}
	e.pool = byID
	e.idx = 0

	return e.s, nil
}

// CurrentWord returns the word at the current position. ok is false when the
// session is exhausted or no session is active.
func (e *Engine) CurrentWord() (models.SessionWordResult, bool) {
	if e.s == nil || e.idx >= len(e.s.Words) {
		return models.SessionWordResult{}, false
	}
	return e.s.Words[e.idx], true
}

// Advance moves to the next word. It returns false at the last word; the
// index stays on the last valid position and the session is not completed.
func (e *Engine) Advance() bool {
	if e.s == nil || e.idx >= len(e.s.Words)-1 {
		return false
	}
	e.idx++
	return true
}

// RecordResult stores the submitted answer, the expected sentence, and the
// accuracy score for one word, and updates the underlying vocabulary entry's
// study statistics. Recording the same word twice in one session is rejected
// so completion counts and accuracy sums are never inflated.
func (e *Engine) RecordResult(wordID, submitted, expected string, accuracy int) error {
	if e.s == nil {
		return ErrNoActiveSession
	}

	var slot *models.SessionWordResult
	for i := range e.s.Words {
		if e.s.Words[i].WordID == wordID {
			slot = &e.s.Words[i]
			break
		}
	}
	if slot == nil {
		return fmt.Errorf("%w: %s", ErrWordNotFound, wordID)
	}
	if slot.Completed {
		return fmt.Errorf("%w: %s", ErrResultRecorded, wordID)
	}

	slot.Submitted = &submitted
	slot.Expected = &expected
	slot.Accuracy = &accuracy
	slot.Completed = true

	e.s.CompletedWords++
	e.s.TotalAccuracy += accuracy

	if entry, ok := e.pool[wordID]; ok {
		entry.RecordStudy(accuracy, e.now())
	}

	return nil
}

// Complete finalizes the active session: the end timestamp is set, the
// average accuracy computed (0 when nothing was completed), and the engine
// returns to idle. The returned session must not be mutated afterwards.
func (e *Engine) Complete() (*models.Session, error) {
	if e.s == nil {
		return nil, ErrNoActiveSession
	}

	done := e.s
	endedAt := e.now()
	done.CompletedAt = &endedAt
	if done.CompletedWords > 0 {
		done.AverageAccuracy = float64(done.TotalAccuracy) / float64(done.CompletedWords)
	} else {
		done.AverageAccuracy = 0
	}

	e.s = nil
	e.pool = nil
	e.idx = 0

	return done, nil
}

// Abandon discards the active session without recording it. Discarding when
// idle is a no-op.
func (e *Engine) Abandon() {
	e.s = nil
	e.pool = nil
	e.idx = 0
}

// Progress returns a display snapshot of the active session
func (e *Engine) Progress() (models.SessionProgress, error) {
	if e.s == nil {
		return models.SessionProgress{}, ErrNoActiveSession
	}

	avg := 0.0
	if e.s.CompletedWords > 0 {
		avg = float64(e.s.TotalAccuracy) / float64(e.s.CompletedWords)
	}

	return models.SessionProgress{
		Current:         e.idx + 1,
		Total:           len(e.s.Words),
		Completed:       e.s.CompletedWords,
		AverageAccuracy: avg,
	}, nil
}
