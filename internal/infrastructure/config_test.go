package infrastructure

import (
	"errors"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.SummaryFormat != "object" {
		t.Errorf("Expected default format object, got %s", cfg.SummaryFormat)
	}
	if cfg.PromptBudget != 30000 {
		t.Errorf("Expected default budget 30000, got %d", cfg.PromptBudget)
	}
	if cfg.FeedTTLMinutes != 10 {
		t.Errorf("Expected default feed TTL 10 minutes, got %d", cfg.FeedTTLMinutes)
	}
	if cfg.DurableTTLHours != 336 {
		t.Errorf("Expected default durable TTL of 14 days, got %d", cfg.DurableTTLHours)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
	if cerr.Field != "GEMINI_API_KEY" {
		t.Errorf("Expected GEMINI_API_KEY error, got %s", cerr.Field)
	}
}

func TestLoadInvalidFormat(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("SUMMARY_FORMAT", "yaml")

	_, err := Load()
	var cerr *ConfigError
	if !errors.As(err, &cerr) || cerr.Field != "SUMMARY_FORMAT" {
		t.Errorf("Expected SUMMARY_FORMAT error, got %v", err)
	}
}

func TestLoadBudgetOutOfRange(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PROMPT_BUDGET", "1000")

	_, err := Load()
	var cerr *ConfigError
	if !errors.As(err, &cerr) || cerr.Field != "PROMPT_BUDGET" {
		t.Errorf("Expected PROMPT_BUDGET error, got %v", err)
	}
}

func TestEnvOverridesDefault(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("EDGE_CACHE_TYPE", "memory")
	t.Setenv("BULLET_POINTS", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.EdgeCacheType != "memory" {
		t.Errorf("Expected memory edge cache, got %s", cfg.EdgeCacheType)
	}
	if cfg.BulletPoints != 7 {
		t.Errorf("Expected 7 bullet points, got %d", cfg.BulletPoints)
	}
}
