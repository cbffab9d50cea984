// Package config provides widget configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all widget configuration.
type Config struct {
	APIBaseURL      string
	DBPath          string
	RequestTimeout  time.Duration
	Locale          string
	HistoryPageSize int
}

// Load reads configuration from environment variables, with optional
// overrides from a .env file.
func Load() (*Config, error) {
	// Proceed without a .env file; real env vars take precedence anyway.
	_ = godotenv.Load()

	timeoutSeconds := getEnvInt("CHATBOT_TIMEOUT_SECONDS", 30)
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	pageSize := getEnvInt("CHATKIT_HISTORY_PAGE_SIZE", 10)
	if pageSize <= 0 {
		pageSize = 10
	}

	cfg := &Config{
		APIBaseURL:      getEnv("CHATBOT_API_URL", "http://localhost:8080/api/v1"),
		DBPath:          getEnv("CHATKIT_DB_PATH", "./data/chatkit.db"),
		RequestTimeout:  time.Duration(timeoutSeconds) * time.Second,
		Locale:          getEnv("CHATKIT_LOCALE", "en"),
		HistoryPageSize: pageSize,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("CHATBOT_API_URL cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("CHATKIT_DB_PATH cannot be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("CHATBOT_TIMEOUT_SECONDS must be > 0")
	}
	if c.HistoryPageSize <= 0 {
		return fmt.Errorf("CHATKIT_HISTORY_PAGE_SIZE must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
