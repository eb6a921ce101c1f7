package config

import (
	"os"
	"testing"
)

// clearEnv removes every config variable for the test, restoring the
// original values afterwards via t.Setenv's cleanup.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DB_PATH", "LLM_MODE", "MAX_ATTEMPTS", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LLMMode != ModeMock {
		t.Errorf("LLMMode = %q, want mock", cfg.LLMMode)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", cfg.MaxAttempts)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("OpenAI.Model = %q", cfg.OpenAI.Model)
	}
}

func TestLoadOpenAIRequiresKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_MODE", "openai")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for openai mode without API key")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLMMode != ModeOpenAI {
		t.Errorf("LLMMode = %q, want openai", cfg.LLMMode)
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_MODE", "anthropic")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown LLM mode")
	}
}

func TestLoadBadMaxAttemptsFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_ATTEMPTS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want fallback 5", cfg.MaxAttempts)
	}
}
