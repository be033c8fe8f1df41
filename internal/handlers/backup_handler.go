package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"dictado/internal/service"
)

// BackupHandler exports and restores the full application state.
type BackupHandler struct {
	backupService *service.BackupService
}

// NewBackupHandler creates a new backup handler.
func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// Export streams the full state as a JSON download.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("dictado-backup-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := h.backupService.Export(r.Context(), w); err != nil {
		log.Printf("Backup export failed: %v", err)
	}
}

// Import replaces the stored state with an uploaded backup.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	if err := h.backupService.Import(r.Context(), http.MaxBytesReader(w, r.Body, maxUploadSize)); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "restoring backup failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}
