// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LLM modes.
const (
	ModeMock   = "mock"
	ModeOpenAI = "openai"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	DBPath      string
	LLMMode     string
	MaxAttempts int
	OpenAI      OpenAIConfig
}

// OpenAIConfig holds the OpenAI connection settings, used only when
// LLMMode is "openai".
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DBPath:      getEnv("DB_PATH", "./data/triage.db"),
		LLMMode:     strings.ToLower(getEnv("LLM_MODE", ModeMock)),
		MaxAttempts: getEnvInt("MAX_ATTEMPTS", 5),
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
		},
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
	if c.LLMMode != ModeMock && c.LLMMode != ModeOpenAI {
		return fmt.Errorf("LLM_MODE must be %q or %q, got %q", ModeMock, ModeOpenAI, c.LLMMode)
	}
	if c.LLMMode == ModeOpenAI && c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when LLM_MODE is %q", ModeOpenAI)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("MAX_ATTEMPTS must be > 0")
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
