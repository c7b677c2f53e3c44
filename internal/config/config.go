package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Dealer platform API
	PlatformAPIBaseURL string
	PlatformAPIKey     string

	// Auth
	JWTSecret string

	// Database (optional invoice-history archive)
	DatabaseURL string

	// Object storage (optional PDF archive)
	StorageURL    string
	StorageKey    string
	StorageBucket string

	// Company profile printed on every invoice
	CompanyName    string
	CompanyAddress string
	CompanyPhone   string
	CompanyEmail   string
	CompanyWebsite string

	// Pipeline tuning
	ImageEmbedTimeout time.Duration
	SessionTTL        time.Duration

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string

	// Server
	Port        string
	Environment string
	BaseURL     string
}

func Load() (*Config, error) {
	// Best-effort; a missing .env just means plain env vars.
	_ = godotenv.Load()

	cfg := &Config{
		PlatformAPIBaseURL: getEnv("PLATFORM_API_BASE_URL", "https://api.dealer-platform.example/v1"),
		PlatformAPIKey:     getEnv("PLATFORM_API_KEY", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		StorageURL:    getEnv("STORAGE_URL", ""),
		StorageKey:    getEnv("STORAGE_KEY", ""),
		StorageBucket: getEnv("STORAGE_BUCKET", "invoice-archive"),

		CompanyName:    getEnv("COMPANY_NAME", "Prestige Dealer Exchange"),
		CompanyAddress: getEnv("COMPANY_ADDRESS", ""),
		CompanyPhone:   getEnv("COMPANY_PHONE", ""),
		CompanyEmail:   getEnv("COMPANY_EMAIL", ""),
		CompanyWebsite: getEnv("COMPANY_WEBSITE", ""),

		ImageEmbedTimeout: getDurationEnv("IMAGE_EMBED_TIMEOUT_SECONDS", 10*time.Second),
		SessionTTL:        getDurationEnv("SESSION_TTL_SECONDS", 2*time.Hour),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
		LogOutput: getEnv("LOG_OUTPUT", "stdout"),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.CompanyName == "" {
		return fmt.Errorf("COMPANY_NAME is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
