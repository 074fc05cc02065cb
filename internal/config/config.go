// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/acampos/matriculabot/internal/i18n"
)

// Config holds all application configuration.
type Config struct {
	Port          string
	FrontendURL   string
	DBPath        string
	AdminSecret   string
	SessionTTL    time.Duration
	DefaultLocale string
	TermOverride  string // fixed term id; empty means resolve from the clock
	TermTimezone  string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		FrontendURL:   getEnv("FRONTEND_URL", ""),
		DBPath:        getEnv("DB_PATH", "./data/matricula.db"),
		AdminSecret:   getEnv("ADMIN_SECRET", ""),
		SessionTTL:    getEnvDuration("SESSION_TTL", 60*time.Minute),
		// Any language tag is accepted ("es-CO", "EN-us"); it normalizes
		// to one of the supported locales, falling back to Spanish.
		DefaultLocale: i18n.MatchLocale(getEnv("DEFAULT_LOCALE", "es")),
		TermOverride:  getEnv("TERM_OVERRIDE", ""),
		TermTimezone:  getEnv("TERM_TIMEZONE", "America/Bogota"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.AdminSecret == "" {
		return fmt.Errorf("ADMIN_SECRET must be set")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	if c.DefaultLocale != "es" && c.DefaultLocale != "en" {
		return fmt.Errorf("DEFAULT_LOCALE must normalize to es or en, got %q", c.DefaultLocale)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
