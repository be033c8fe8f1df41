package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dictado/internal/models"
	"dictado/internal/repository"
)

var (
	ErrInvalidShareToken  = errors.New("invalid or expired share token")
	ErrNotAssignmentOwner = errors.New("assignment belongs to another teacher")
)

const shareTokenLifetime = 30 * 24 * time.Hour

// AssignmentService lets teachers publish practice assignments and share
// them with students through signed links.
type AssignmentService struct {
	assignmentRepo *repository.AssignmentRepository
	jwtSecret      []byte
}

// NewAssignmentService creates a new assignment service.
func NewAssignmentService(assignmentRepo *repository.AssignmentRepository, jwtSecret string) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		jwtSecret:      []byte(jwtSecret),
	}
}

// Create publishes an assignment for the teacher's class.
func (s *AssignmentService) Create(ctx context.Context, teacher *models.User, name string, difficulty models.Difficulty, sessionSize int) (*models.Assignment, error) {
	if name == "" {
		return nil, errors.New("assignment name is required")
	}
	if !difficulty.IsValid() {
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}
	if sessionSize <= 0 {
		sessionSize = 10
	}

	assignment := &models.Assignment{
		UserID:      teacher.ID,
		Name:        name,
		Difficulty:  difficulty,
		SessionSize: sessionSize,
		ClassCode:   teacher.ClassCode,
		CreatedAt:   time.Now(),
	}
	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("creating assignment: %w", err)
	}
	return assignment, nil
}

// shareClaims is the payload carried by an assignment share link.
type shareClaims struct {
	AssignmentID int64  `json:"assignment_id"`
	ClassCode    string `json:"class_code"`
	jwt.RegisteredClaims
}

// ShareToken signs a link token for an assignment.
func (s *AssignmentService) ShareToken(assignment *models.Assignment) (string, error) {
	now := time.Now()
	claims := shareClaims{
		AssignmentID: assignment.ID,
		ClassCode:    assignment.ClassCode,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(shareTokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("signing share token: %w", err)
	}
	return signed, nil
}

// ResolveShareToken verifies a share link and loads the assignment.
func (s *AssignmentService) ResolveShareToken(ctx context.Context, tokenString string) (*models.Assignment, error) {
	token, err := jwt.ParseWithClaims(tokenString, &shareClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidShareToken
	}
	claims, ok := token.Claims.(*shareClaims)
	if !ok {
		return nil, ErrInvalidShareToken
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, claims.AssignmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidShareToken
	}
	if err != nil {
		return nil, fmt.Errorf("loading assignment: %w", err)
	}
	return assignment, nil
}

// ListForTeacher returns the teacher's assignments, newest first.
func (s *AssignmentService) ListForTeacher(ctx context.Context, teacher *models.User) ([]models.Assignment, error) {
	return s.assignmentRepo.ListByUser(ctx, teacher.ID)
}

// RecordCompletion stores a student's finished assignment run.
func (s *AssignmentService) RecordCompletion(ctx context.Context, assignment *models.Assignment, student *models.Student, record models.SessionRecord) (*models.AssignmentCompletion, error) {
	completion := &models.AssignmentCompletion{
		AssignmentID:    assignment.ID,
		StudentID:       student.ID,
		SessionID:       record.ID,
		AverageAccuracy: record.AverageAccuracy,
		CompletedWords:  record.CompletedWords,
		CompletedAt:     time.Now(),
	}
	if err := s.assignmentRepo.RecordCompletion(ctx, completion); err != nil {
		return nil, fmt.Errorf("recording completion: %w", err)
	}
	return completion, nil
}

// Completions lists who finished an assignment, checking ownership.
func (s *AssignmentService) Completions(ctx context.Context, teacher *models.User, assignmentID int64) ([]models.AssignmentCompletion, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment.UserID != teacher.ID {
		return nil, ErrNotAssignmentOwner
	}
	return s.assignmentRepo.ListCompletions(ctx, assignmentID)
}
