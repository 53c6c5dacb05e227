// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds everything the server needs at startup. Provider API keys are
// not here: they are per-user settings resolved at request time.
type Config struct {
	Port        int
	DatabaseURL string

	// Upstream identity provider (Supabase GoTrue compatible).
	IdentityURL     string
	IdentityAnonKey string

	// CORS allowed origins. "*" allows everything.
	AllowedOrigins []string
}

// Load reads configuration from the environment. DATABASE_URL is optional:
// without it the server falls back to in-memory storage, which is useful
// for local development and tests.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnvInt("PORT", 8000),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		IdentityURL:     strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		IdentityAnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		AllowedOrigins:  splitList(getEnvString("ALLOWED_ORIGINS", "*")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: invalid port %d", c.Port)
	}
	if c.IdentityURL == "" {
		return fmt.Errorf("config error: SUPABASE_URL is required")
	}
	if c.IdentityAnonKey == "" {
		return fmt.Errorf("config error: SUPABASE_ANON_KEY is required")
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
