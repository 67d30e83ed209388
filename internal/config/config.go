package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
)

// Config holds all application configuration
type Config struct {
	Port         string
	DatabasePath string
	RedisURL     string // optional; empty disables event publishing

	// Transcription providers
	GroqAPIKey   string
	OpenAIAPIKey string

	// Heuristic tables
	HeuristicsPath  string // optional YAML override; empty uses compiled defaults
	HeuristicsWatch bool

	// Retention
	CleanupSchedule string // cron expression
	RetentionDays   int
	CleanupEnabled  bool

	// HTTP limits
	MaxAudioUploadMB int
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3001"),
		DatabasePath: getEnv("DATABASE_PATH", "./data/vibecode.db"),
		RedisURL:     getEnv("REDIS_URL", ""),

		GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		HeuristicsPath:  getEnv("HEURISTICS_PATH", ""),
		HeuristicsWatch: getBoolEnv("HEURISTICS_WATCH", false),

		CleanupSchedule: getEnv("CLEANUP_SCHEDULE", "0 3 * * *"),
		RetentionDays:   getIntEnv("RETENTION_DAYS", 90),
		CleanupEnabled:  getBoolEnv("CLEANUP_ENABLED", true),

		MaxAudioUploadMB: getIntEnv("MAX_AUDIO_UPLOAD_MB", 25),
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("DATABASE_PATH must not be empty")
	}
	if c.RetentionDays < 1 {
		return fmt.Errorf("RETENTION_DAYS must be at least 1, got %d", c.RetentionDays)
	}
	if c.MaxAudioUploadMB < 1 {
		return fmt.Errorf("MAX_AUDIO_UPLOAD_MB must be at least 1, got %d", c.MaxAudioUploadMB)
	}
	if _, err := cron.ParseStandard(c.CleanupSchedule); err != nil {
		return fmt.Errorf("invalid CLEANUP_SCHEDULE %q: %w", c.CleanupSchedule, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
