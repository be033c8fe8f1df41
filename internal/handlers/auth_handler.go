package handlers

import (
	"errors"
	"net/http"
	"time"

	"dictado/internal/security"
	"dictado/internal/service"
)

// AuthHandler handles account and class membership requests.
type AuthHandler struct {
	authService     *service.AuthService
	csrf            *security.CSRFGenerator
	sessionDuration time.Duration
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService, csrf *security.CSRFGenerator, sessionDuration time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		csrf:            csrf,
		sessionDuration: sessionDuration,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	ClassCode string `json:"class_code"`
}

// Register creates a teacher account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		var vErr security.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondError(w, http.StatusBadRequest, vErr.Error(), nil)
		case errors.Is(err, service.ErrEmailTaken):
			respondError(w, http.StatusConflict, "email already taken", nil)
		default:
			respondError(w, http.StatusInternalServerError, "registration failed", err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, userResponse{
		ID: user.ID, Email: user.Email, Name: user.Name, ClassCode: user.ClassCode,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	userResponse
	CSRFToken string `json:"csrf_token"`
}

// Login authenticates a teacher and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	authSession, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid email or password", nil)
		} else {
			respondError(w, http.StatusInternalServerError, "login failed", err)
		}
		return
	}

	csrfToken, err := h.csrf.GenerateToken(authSession.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "login failed", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, authSession.ID, authSession.ExpiresAt))
	respondJSON(w, http.StatusOK, loginResponse{
		userResponse: userResponse{
			ID: user.ID, Email: user.Email, Name: user.Name, ClassCode: user.ClassCode,
		},
		CSRFToken: csrfToken,
	})
}

// Logout invalidates the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			respondError(w, http.StatusInternalServerError, "logout failed", err)
			return
		}
	}
	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the logged-in teacher.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	respondJSON(w, http.StatusOK, userResponse{
		ID: user.ID, Email: user.Email, Name: user.Name, ClassCode: user.ClassCode,
	})
}

type joinClassRequest struct {
	Name      string `json:"name"`
	ClassCode string `json:"class_code"`
}

// JoinClass registers a student into a class by code.
func (h *AuthHandler) JoinClass(w http.ResponseWriter, r *http.Request) {
	var req joinClassRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	student, err := h.authService.JoinClass(r.Context(), req.Name, req.ClassCode)
	if err != nil {
		var vErr security.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondError(w, http.StatusBadRequest, vErr.Error(), nil)
		case errors.Is(err, service.ErrUnknownClassCode):
			respondError(w, http.StatusNotFound, "unknown class code", nil)
		default:
			respondError(w, http.StatusInternalServerError, "joining class failed", err)
		}
		return
	}
	respondJSON(w, http.StatusCreated, student)
}

// Roster lists the teacher's students.
func (h *AuthHandler) Roster(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	students, err := h.authService.ClassRoster(r.Context(), user)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "loading roster failed", err)
		return
	}
	respondJSON(w, http.StatusOK, students)
}
