package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"dictado/internal/models"
	"dictado/internal/repository"
	"dictado/internal/service"
)

// AssignmentHandler handles teacher assignments and student completions.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
	authService       *service.AuthService
	emailService      *service.EmailService
}

// NewAssignmentHandler creates a new assignment handler.
func NewAssignmentHandler(
	assignmentService *service.AssignmentService,
	authService *service.AuthService,
	emailService *service.EmailService,
) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		authService:       authService,
		emailService:      emailService,
	}
}

type createAssignmentRequest struct {
	Name         string            `json:"name"`
	Difficulty   models.Difficulty `json:"difficulty"`
	SessionSize  int               `json:"session_size"`
	InviteEmails []string          `json:"invite_emails,omitempty"`
}

type assignmentResponse struct {
	Assignment *models.Assignment `json:"assignment"`
	ShareToken string             `json:"share_token"`
}

// Create publishes an assignment and returns its share token. Invitation
// emails go out when addresses are supplied and email is configured.
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req createAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyIntermediate
	}

	assignment, err := h.assignmentService.Create(r.Context(), user, req.Name, req.Difficulty, req.SessionSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "creating assignment failed", err)
		return
	}

	token, err := h.assignmentService.ShareToken(assignment)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "signing share token failed", err)
		return
	}

	for _, email := range req.InviteEmails {
		if err := h.emailService.SendAssignmentInvitation(r.Context(), email, user.Name, assignment.Name, token); err != nil {
			log.Printf("Failed to send invitation to %s: %v", email, err)
		}
	}

	respondJSON(w, http.StatusCreated, assignmentResponse{Assignment: assignment, ShareToken: token})
}

// List returns the teacher's assignments, newest first.
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	assignments, err := h.assignmentService.ListForTeacher(r.Context(), user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "loading assignments failed", err)
		return
	}
	respondJSON(w, http.StatusOK, assignments)
}

// Resolve verifies a share link token and returns the assignment it
// points at. Students open this before joining the class.
func (h *AssignmentHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusBadRequest, "token parameter required", nil)
		return
	}

	assignment, err := h.assignmentService.ResolveShareToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidShareToken) {
			respondError(w, http.StatusUnauthorized, "invalid or expired share token", nil)
		} else {
			respondError(w, http.StatusInternalServerError, "resolving share token failed", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, assignment)
}

type completeAssignmentRequest struct {
	Token     string               `json:"token"`
	StudentID int64                `json:"student_id"`
	Record    models.SessionRecord `json:"record"`
}

// Complete records that a student finished an assignment run.
func (h *AssignmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completeAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	assignment, err := h.assignmentService.ResolveShareToken(r.Context(), req.Token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid or expired share token", nil)
		return
	}

	student, err := h.authService.Student(r.Context(), req.StudentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(w, http.StatusNotFound, "student not found", nil)
		} else {
			respondError(w, http.StatusInternalServerError, "loading student failed", err)
		}
		return
	}
	if student.ClassCode != assignment.ClassCode {
		respondError(w, http.StatusForbidden, "student is not in this class", nil)
		return
	}

	completion, err := h.assignmentService.RecordCompletion(r.Context(), assignment, student, req.Record)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "recording completion failed", err)
		return
	}
	respondJSON(w, http.StatusCreated, completion)
}

// Completions lists who finished an assignment belonging to the teacher.
func (h *AssignmentHandler) Completions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid assignment id", nil)
		return
	}

	completions, err := h.assignmentService.Completions(r.Context(), user, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			respondError(w, http.StatusNotFound, "assignment not found", nil)
		case errors.Is(err, service.ErrNotAssignmentOwner):
			respondError(w, http.StatusForbidden, "assignment belongs to another teacher", nil)
		default:
			respondError(w, http.StatusInternalServerError, "loading completions failed", err)
		}
		return
	}
	respondJSON(w, http.StatusOK, completions)
}
