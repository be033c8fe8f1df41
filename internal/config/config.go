package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string
	DatabaseURL     string
	DatabasePath    string
	SessionDuration time.Duration
	SessionSize     int
	JWTSecret       string
	AudioCachePath  string

	// Word generator (OpenAI-compatible chat completions endpoint)
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	// Assignment invitation email via SES
	AWSRegion   string
	EmailSender string

	// Google Sheets import, via application default credentials
	SheetsImportEnabled bool
}

// Load reads configuration from a .env file if present, then from
// environment variables with sensible defaults
func Load() *Config {
	godotenv.Load()

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:     getEnv("DB_URL", ""),
		DatabasePath:    getEnv("DB_PATH", "./dictado.db"),
		SessionDuration: 24 * time.Hour,
		SessionSize:     getEnvInt("SESSION_SIZE", 10),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		AudioCachePath:  getEnv("AUDIO_CACHE_PATH", "./audio-cache"),

		LLMBaseURL: getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:  getEnv("LLM_API_KEY", ""),
		LLMModel:   getEnv("LLM_MODEL", "gpt-4o-mini"),

		AWSRegion:   getEnv("AWS_REGION", "eu-west-1"),
		EmailSender: getEnv("EMAIL_SENDER", ""),

		SheetsImportEnabled: getEnv("SHEETS_IMPORT_ENABLED", "") == "true",
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
