package handlers

import (
	"net/http"
	"strconv"

	"dictado/internal/service"
)

// ProgressHandler exposes progress analytics.
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// Stats returns aggregate statistics over the full history.
func (h *ProgressHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.progressService.OverallStats())
}

// Streaks returns current and best consecutive-day streaks.
func (h *ProgressHandler) Streaks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.progressService.Streaks())
}

// Recent returns the most recent sessions reduced for charting. The
// limit query parameter caps the count, defaulting to 10.
func (h *ProgressHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "invalid limit", nil)
			return
		}
		limit = n
	}
	respondJSON(w, http.StatusOK, h.progressService.RecentPerformance(limit))
}

// Words returns per-word progress across the full history.
func (h *ProgressHandler) Words(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.progressService.WordProgress())
}

// Review returns the words due for another look.
func (h *ProgressHandler) Review(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.progressService.WordsNeedingReview())
}

// Trend classifies the direction of recent accuracy.
func (h *ProgressHandler) Trend(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"trend": h.progressService.PerformanceTrend()})
}

// Recommendations returns study advice derived from the analytics.
func (h *ProgressHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.progressService.Recommendations())
}

// History returns all stored session records, oldest first.
func (h *ProgressHandler) History(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.progressService.History())
}

// Achievements returns the earned achievements.
func (h *ProgressHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.progressService.Achievements())
}

// Clear wipes all stored progress.
func (h *ProgressHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.progressService.Clear(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "clearing progress failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
