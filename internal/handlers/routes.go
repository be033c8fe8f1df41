package handlers

import "net/http"

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth       *AuthHandler
	Study      *StudyHandler
	Progress   *ProgressHandler
	Vocabulary *VocabularyHandler
	Backup     *BackupHandler
	Assignment *AssignmentHandler
	Middleware *Middleware
}

// Routes registers every API endpoint on mux.
func Routes(mux *http.ServeMux, h *Handlers) {
	auth := h.Middleware.RequireAuth
	limited := h.Middleware.RateLimit
	csrf := h.Middleware.CSRFProtect

	// Accounts and class membership
	mux.HandleFunc("POST /api/auth/register", limited(h.Auth.Register))
	mux.HandleFunc("POST /api/auth/login", limited(h.Auth.Login))
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.HandleFunc("GET /api/auth/me", auth(h.Auth.Me))
	mux.HandleFunc("POST /api/class/join", limited(h.Auth.JoinClass))
	mux.HandleFunc("GET /api/class/roster", auth(h.Auth.Roster))

	// Dictation sessions
	mux.HandleFunc("POST /api/study/session", h.Study.Start)
	mux.HandleFunc("DELETE /api/study/session", h.Study.Abandon)
	mux.HandleFunc("GET /api/study/word", h.Study.CurrentWord)
	mux.HandleFunc("GET /api/study/progress", h.Study.Progress)
	mux.HandleFunc("POST /api/study/answer", h.Study.Answer)
	mux.HandleFunc("POST /api/study/skip", h.Study.Skip)
	mux.HandleFunc("POST /api/study/complete", h.Study.Complete)
	mux.HandleFunc("GET /api/study/audio", h.Study.Audio)

	// Progress analytics
	mux.HandleFunc("GET /api/progress/stats", h.Progress.Stats)
	mux.HandleFunc("GET /api/progress/streaks", h.Progress.Streaks)
	mux.HandleFunc("GET /api/progress/recent", h.Progress.Recent)
	mux.HandleFunc("GET /api/progress/words", h.Progress.Words)
	mux.HandleFunc("GET /api/progress/review", h.Progress.Review)
	mux.HandleFunc("GET /api/progress/trend", h.Progress.Trend)
	mux.HandleFunc("GET /api/progress/recommendations", h.Progress.Recommendations)
	mux.HandleFunc("GET /api/progress/history", h.Progress.History)
	mux.HandleFunc("GET /api/progress/achievements", h.Progress.Achievements)
	mux.HandleFunc("DELETE /api/progress", h.Progress.Clear)

	// Vocabulary management
	mux.HandleFunc("GET /api/vocabulary", h.Vocabulary.List)
	mux.HandleFunc("POST /api/vocabulary", h.Vocabulary.Create)
	mux.HandleFunc("DELETE /api/vocabulary", h.Vocabulary.DeleteAll)
	mux.HandleFunc("DELETE /api/vocabulary/{id}", h.Vocabulary.Delete)
	mux.HandleFunc("POST /api/vocabulary/import", h.Vocabulary.ImportFile)
	mux.HandleFunc("POST /api/vocabulary/import/sheet", limited(h.Vocabulary.ImportSheet))
	mux.HandleFunc("POST /api/vocabulary/generate", limited(h.Vocabulary.Generate))

	// Backup and restore
	mux.HandleFunc("GET /api/backup/export", h.Backup.Export)
	mux.HandleFunc("POST /api/backup/import", h.Backup.Import)

	// Assignments
	mux.HandleFunc("POST /api/assignments", auth(csrf(h.Assignment.Create)))
	mux.HandleFunc("GET /api/assignments", auth(h.Assignment.List))
	mux.HandleFunc("GET /api/assignments/{id}/completions", auth(h.Assignment.Completions))
	mux.HandleFunc("GET /api/assignments/shared", h.Assignment.Resolve)
	mux.HandleFunc("POST /api/assignments/shared/complete", limited(h.Assignment.Complete))

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
