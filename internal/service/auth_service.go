package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dictado/internal/models"
	"dictado/internal/repository"
	"dictado/internal/security"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrUnknownClassCode   = errors.New("unknown class code")
)

// AuthService handles teacher accounts, browser sessions and students
// joining a class by code.
type AuthService struct {
	userRepo        *repository.UserRepository
	sessionDuration time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo *repository.UserRepository, sessionDuration time.Duration) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		sessionDuration: sessionDuration,
	}
}

// Register creates a teacher account with a fresh class code.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	if err := security.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := security.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := security.ValidateName(name); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	classCode, err := security.GenerateClassCode()
	if err != nil {
		return nil, fmt.Errorf("generating class code: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		ClassCode:    classCode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Login authenticates a teacher and creates a browser session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthSession, *models.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("looking up user: %w", err)
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now()
	authSession := &models.AuthSession{
		ID:        security.GenerateSessionToken(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionDuration),
		CreatedAt: now,
	}
	if err := s.userRepo.CreateAuthSession(ctx, authSession); err != nil {
		return nil, nil, fmt.Errorf("creating session: %w", err)
	}
	return authSession, user, nil
}

// ValidateSession checks a session token and returns the logged-in user.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	authSession, err := s.userRepo.GetAuthSession(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up session: %w", err)
	}

	if authSession.IsExpired() {
		_ = s.userRepo.DeleteAuthSession(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(ctx, authSession.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	return user, nil
}

// Logout invalidates a browser session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.userRepo.DeleteAuthSession(ctx, token)
}

// JoinClass creates a student profile under the teacher owning the code.
func (s *AuthService) JoinClass(ctx context.Context, name, classCode string) (*models.Student, error) {
	if err := security.ValidateName(name); err != nil {
		return nil, err
	}

	teacher, err := s.userRepo.GetUserByClassCode(ctx, classCode)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnknownClassCode
	}
	if err != nil {
		return nil, fmt.Errorf("looking up class code: %w", err)
	}

	student := &models.Student{
		UserID:    teacher.ID,
		Name:      name,
		ClassCode: classCode,
		CreatedAt: time.Now(),
	}
	if err := s.userRepo.CreateStudent(ctx, student); err != nil {
		return nil, fmt.Errorf("creating student: %w", err)
	}
	return student, nil
}

// Student loads a student by id.
func (s *AuthService) Student(ctx context.Context, id int64) (*models.Student, error) {
	return s.userRepo.GetStudentByID(ctx, id)
}

// ClassRoster lists the students in a teacher's class.
func (s *AuthService) ClassRoster(ctx context.Context, teacher *models.User) ([]models.Student, error) {
	return s.userRepo.ListStudentsByClassCode(ctx, teacher.ClassCode)
}

// CleanupExpiredSessions removes expired browser sessions.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) error {
	return s.userRepo.DeleteExpiredAuthSessions(ctx)
}
