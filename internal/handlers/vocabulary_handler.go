package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"dictado/internal/generator"
	"dictado/internal/importer"
	"dictado/internal/models"
	"dictado/internal/repository"
)

// maxUploadSize caps vocabulary file uploads at 5 MB.
const maxUploadSize = 5 << 20

// VocabularyHandler manages the word list.
type VocabularyHandler struct {
	vocabRepo *repository.VocabularyRepository
	importer  *importer.Importer
	sheets    *importer.SheetClient
	generator *generator.Client
}

// NewVocabularyHandler creates a new vocabulary handler. sheets and gen
// may be nil when the corresponding integration is not configured.
func NewVocabularyHandler(
	vocabRepo *repository.VocabularyRepository,
	im *importer.Importer,
	sheets *importer.SheetClient,
	gen *generator.Client,
) *VocabularyHandler {
	return &VocabularyHandler{
		vocabRepo: vocabRepo,
		importer:  im,
		sheets:    sheets,
		generator: gen,
	}
}

// List returns all vocabulary entries.
func (h *VocabularyHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.vocabRepo.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "loading vocabulary failed", err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

type createEntryRequest struct {
	Word    string `json:"word"`
	POS     string `json:"pos"`
	Meaning string `json:"meaning"`
	Example string `json:"example"`
}

// Create adds a single vocabulary entry.
func (h *VocabularyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	req.Word = strings.TrimSpace(req.Word)
	if req.Word == "" {
		respondError(w, http.StatusBadRequest, "word is required", nil)
		return
	}

	entry := &models.VocabularyEntry{
		ID:        uuid.NewString(),
		Word:      req.Word,
		POS:       strings.TrimSpace(req.POS),
		Meaning:   strings.TrimSpace(req.Meaning),
		Example:   strings.TrimSpace(req.Example),
		DateAdded: time.Now(),
	}
	if err := h.vocabRepo.Create(r.Context(), entry); err != nil {
		respondError(w, http.StatusInternalServerError, "storing entry failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// Delete removes one vocabulary entry by id.
func (h *VocabularyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.vocabRepo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "entry not found", nil)
		} else {
			respondError(w, http.StatusInternalServerError, "deleting entry failed", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// DeleteAll wipes the word list.
func (h *VocabularyHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.vocabRepo.DeleteAll(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "clearing vocabulary failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ImportFile parses an uploaded vocabulary file and stores the entries.
// Existing words keep their accumulated study statistics.
func (h *VocabularyHandler) ImportFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file upload required", err)
		return
	}
	defer file.Close()

	result, err := h.importer.Import(file, header.Filename)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "parsing file failed", err)
		return
	}
	if err := h.vocabRepo.ImportBatch(r.Context(), result.Entries); err != nil {
		respondError(w, http.StatusInternalServerError, "storing entries failed", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type importSheetRequest struct {
	SpreadsheetID string `json:"spreadsheet_id"`
}

// ImportSheet pulls a Google Sheet and stores its rows as vocabulary.
func (h *VocabularyHandler) ImportSheet(w http.ResponseWriter, r *http.Request) {
	if h.sheets == nil {
		respondError(w, http.StatusNotImplemented, "sheet import not configured", nil)
		return
	}
	var req importSheetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.SpreadsheetID == "" {
		respondError(w, http.StatusBadRequest, "spreadsheet_id is required", nil)
		return
	}

	result, err := h.sheets.ImportSheet(r.Context(), req.SpreadsheetID)
	if err != nil {
		respondError(w, http.StatusBadGateway, "fetching sheet failed", err)
		return
	}
	if err := h.vocabRepo.ImportBatch(r.Context(), result.Entries); err != nil {
		respondError(w, http.StatusInternalServerError, "storing entries failed", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type generateRequest struct {
	Difficulty models.Difficulty `json:"difficulty"`
	Count      int               `json:"count"`
}

// Generate asks the language model for new words and stores them. Words
// already in the list are excluded from the prompt.
func (h *VocabularyHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		respondError(w, http.StatusNotImplemented, "word generation not configured", nil)
		return
	}
	var req generateRequest
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
	if req.Count < 1 || req.Count > 50 {
		req.Count = 10
	}

	existing, err := h.vocabRepo.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "loading vocabulary failed", err)
		return
	}
	exclude := make([]string, 0, len(existing))
	for _, entry := range existing {
		exclude = append(exclude, entry.Word)
	}

	generated := h.generator.GenerateWithFallback(r.Context(), req.Difficulty, req.Count, exclude)
	if err := h.vocabRepo.ImportBatch(r.Context(), generated); err != nil {
		respondError(w, http.StatusInternalServerError, "storing entries failed", err)
		return
	}
	respondJSON(w, http.StatusOK, generated)
}
