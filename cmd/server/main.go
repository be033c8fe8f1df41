package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2/google"

	"dictado/internal/audio"
	"dictado/internal/config"
	"dictado/internal/database"
	"dictado/internal/generator"
	"dictado/internal/handlers"
	"dictado/internal/importer"
	"dictado/internal/progress"
	"dictado/internal/repository"
	"dictado/internal/security"
	"dictado/internal/service"
	"dictado/internal/session"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.Open(database.ConnectionConfig{
		Type: cfg.DatabaseType,
		URL:  cfg.DatabaseURL,
		Path: cfg.DatabasePath,
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Repositories
	vocabRepo := repository.NewVocabularyRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	studyTimeRepo := repository.NewStudyTimeRepository(db)
	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	// Services
	progressService, err := service.NewProgressService(
		progress.NewTracker(), historyRepo, achievementRepo, studyTimeRepo,
	)
	if err != nil {
		log.Fatalf("Failed to load progress history: %v", err)
	}

	var gen *generator.Client
	if cfg.LLMAPIKey != "" {
		gen = generator.New(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
		log.Printf("Word generator enabled (model: %s)", cfg.LLMModel)
	}

	studyService := service.NewStudyService(session.NewEngine(), vocabRepo, progressService, gen)
	authService := service.NewAuthService(userRepo, cfg.SessionDuration)
	assignmentService := service.NewAssignmentService(assignmentRepo, cfg.JWTSecret)
	backupService := service.NewBackupService(vocabRepo, progressService)

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.EmailSender, "http://localhost:"+cfg.ServerPort)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	im := importer.New()
	var sheets *importer.SheetClient
	if cfg.SheetsImportEnabled {
		source, err := google.DefaultTokenSource(ctx, "https://www.googleapis.com/auth/spreadsheets.readonly")
		if err != nil {
			log.Printf("Warning: sheet import disabled, no Google credentials: %v", err)
		} else {
			sheets = importer.NewSheetClient(im, source)
			log.Println("Google Sheets import enabled")
		}
	}

	tts := audio.NewTTSService(cfg.AudioCachePath)
	limiter := security.NewRateLimiter(20, time.Minute)
	csrfGen := security.NewCSRFGenerator(cfg.JWTSecret)
	middleware := handlers.NewMiddleware(authService, limiter, csrfGen)

	mux := http.NewServeMux()
	handlers.Routes(mux, &handlers.Handlers{
		Auth:       handlers.NewAuthHandler(authService, csrfGen, cfg.SessionDuration),
		Study:      handlers.NewStudyHandler(studyService, tts),
		Progress:   handlers.NewProgressHandler(progressService),
		Vocabulary: handlers.NewVocabularyHandler(vocabRepo, im, sheets, gen),
		Backup:     handlers.NewBackupHandler(backupService),
		Assignment: handlers.NewAssignmentHandler(assignmentService, authService, emailService),
		Middleware: middleware,
	})

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handlers.Logging(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go cleanupLoop(ctx, authService, limiter)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupLoop drops expired auth sessions and stale rate limit buckets
// once an hour.
func cleanupLoop(ctx context.Context, authService *service.AuthService, limiter *security.RateLimiter) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		if err := authService.CleanupExpiredSessions(ctx); err != nil {
			log.Printf("Session cleanup failed: %v", err)
		}
		limiter.Prune()
	}
}
