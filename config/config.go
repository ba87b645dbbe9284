// Package config loads service configuration from environment variables,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// App
	AppName string
	Env     string
	Host    string
	Port    string

	// Security
	Passcode       string
	AllowedOrigins []string

	// Session lifetimes
	SessionTTL time.Duration
	ThreadTTL  time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Model
	ModelProvider  string // "openai" or "anthropic"
	OpenAIModel    string
	AnthropicModel string
	MaxIterations  int
}

// Load reads configuration from environment variables. A .env file is
// loaded when present but its absence is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppName:        getEnv("APP_NAME", "smoothoperator"),
		Env:            getEnv("ENV", "development"),
		Host:           getEnv("HOST", "0.0.0.0"),
		Port:           getEnv("PORT", "8000"),
		Passcode:       getEnv("APP_PASSCODE", ""),
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
		SessionTTL:     time.Duration(getEnvInt("SESSION_TTL", 3600)) * time.Second,
		ThreadTTL:      time.Duration(getEnvInt("THREAD_TTL", 7200)) * time.Second,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		ModelProvider:  getEnv("MODEL_PROVIDER", "openai"),
		OpenAIModel:    getEnv("OPENAI_MODEL", ""),
		AnthropicModel: getEnv("ANTHROPIC_MODEL", ""),
		MaxIterations:  getEnvInt("MAX_ITERATIONS", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Passcode == "" {
		return fmt.Errorf("APP_PASSCODE is required")
	}
	if c.ModelProvider != "openai" && c.ModelProvider != "anthropic" {
		return fmt.Errorf("MODEL_PROVIDER must be openai or anthropic, got %q", c.ModelProvider)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("MAX_ITERATIONS must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool { return c.Env == "production" }

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
