package handlers

import (
	"errors"
	"net/http"
	"strings"

	"dictado/internal/audio"
	"dictado/internal/models"
	"dictado/internal/service"
	"dictado/internal/session"
)

// StudyHandler drives the dictation session endpoints.
type StudyHandler struct {
	studyService *service.StudyService
	tts          *audio.TTSService
}

// NewStudyHandler creates a new study handler.
func NewStudyHandler(studyService *service.StudyService, tts *audio.TTSService) *StudyHandler {
	return &StudyHandler{
		studyService: studyService,
		tts:          tts,
	}
}

type startSessionRequest struct {
	Size       int               `json:"size"`
	Difficulty models.Difficulty `json:"difficulty"`
}

// Start begins a new dictation session.
func (h *StudyHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyIntermediate
	}
	if !req.Difficulty.IsValid() {
		respondError(w, http.StatusBadRequest, "unknown difficulty", nil)
		return
	}

	started, err := h.studyService.StartSession(r.Context(), req.Size, req.Difficulty)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionActive):
			respondError(w, http.StatusConflict, "a session is already active", nil)
		case errors.Is(err, session.ErrEmptyPool):
			respondError(w, http.StatusUnprocessableEntity, "no vocabulary to study", nil)
		default:
			respondError(w, http.StatusInternalServerError, "starting session failed", err)
		}
		return
	}
	respondJSON(w, http.StatusCreated, started)
}

// CurrentWord returns the word slot awaiting an answer together with the
// sentence to dictate.
func (h *StudyHandler) CurrentWord(w http.ResponseWriter, r *http.Request) {
	prompt, err := h.studyService.CurrentPrompt(r.Context())
	if err != nil {
		respondError(w, http.StatusNotFound, "no active session", nil)
		return
	}
	respondJSON(w, http.StatusOK, prompt)
}

// Progress returns a snapshot of the active session.
func (h *StudyHandler) Progress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.studyService.Progress()
	if err != nil {
		respondError(w, http.StatusNotFound, "no active session", nil)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

type answerRequest struct {
	Answer string `json:"answer"`
}

// Answer scores a submitted answer against the current word.
func (h *StudyHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.studyService.SubmitAnswer(r.Context(), req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoActiveSession):
			respondError(w, http.StatusNotFound, "no active session", nil)
		case errors.Is(err, session.ErrResultRecorded):
			respondError(w, http.StatusConflict, "word already answered", nil)
		default:
			respondError(w, http.StatusInternalServerError, "recording answer failed", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Skip advances past the current word without an answer.
func (h *StudyHandler) Skip(w http.ResponseWriter, r *http.Request) {
	hasNext, err := h.studyService.SkipWord()
	if err != nil {
		respondError(w, http.StatusNotFound, "no active session", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"has_next": hasNext})
}

// Complete finalizes the session and returns the stored record plus any
// newly earned achievements.
func (h *StudyHandler) Complete(w http.ResponseWriter, r *http.Request) {
	record, earned, err := h.studyService.CompleteSession(r.Context())
	if err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			respondError(w, http.StatusNotFound, "no active session", nil)
		} else {
			respondError(w, http.StatusInternalServerError, "completing session failed", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"record":       record,
		"achievements": earned,
	})
}

// Abandon discards the active session.
func (h *StudyHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	h.studyService.AbandonSession()
	respondJSON(w, http.StatusOK, map[string]string{"status": "abandoned"})
}

// Audio serves a spoken clip for the given text. kind selects word or
// example sentence voicing.
func (h *StudyHandler) Audio(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(r.URL.Query().Get("text"))
	if text == "" {
		respondError(w, http.StatusBadRequest, "text parameter required", nil)
		return
	}

	var path string
	var err error
	if r.URL.Query().Get("kind") == "example" {
		path, err = h.tts.SpeakExample(r.Context(), text)
	} else {
		path, err = h.tts.SpeakWord(r.Context(), text)
	}
	if err != nil {
		respondError(w, http.StatusBadGateway, "fetching audio failed", err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}
