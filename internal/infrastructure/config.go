package infrastructure

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port string `json:"port"`
	Host string `json:"host"`

	// Gemini API settings
	GeminiAPIKey string `json:"-"` // Don't expose in JSON
	GeminiModel  string `json:"gemini_model"`

	// Summarization settings
	TargetLanguage string `json:"target_language"`
	BulletPoints   int    `json:"bullet_points"`
	SummaryFormat  string `json:"summary_format"` // "object" or "list"
	PromptBudget   int    `json:"prompt_budget"`  // max payload characters per prompt

	// Edge cache (rendered pages)
	EdgeCacheType   string `json:"edge_cache_type"` // "redis" or "memory"
	RedisAddr       string `json:"redis_addr"`
	RedisPassword   string `json:"-"`
	RedisDB         int    `json:"redis_db"`
	ArticleTTLHours int    `json:"article_ttl_hours"`
	FeedTTLMinutes  int    `json:"feed_ttl_minutes"`

	// Durable cache (summaries only)
	DurableCacheType string `json:"durable_cache_type"` // "cloud-storage" or "memory"
	CacheBucket      string `json:"cache_bucket"`
	DurableTTLHours  int    `json:"durable_ttl_hours"`

	// Feed warming
	WarmSchedule string `json:"warm_schedule"` // cron expression, empty disables warming
	PublicHost   string `json:"public_host"`   // host the warmer writes edge keys under

	// Optional portal front page; empty falls back to aggregated feeds
	PortalURL string `json:"portal_url"`
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		Host:             getEnvOrDefault("HOST", "0.0.0.0"),
		GeminiAPIKey:     getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiModel:      getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		TargetLanguage:   getEnvOrDefault("TARGET_LANGUAGE", "English"),
		BulletPoints:     getEnvOrDefaultInt("BULLET_POINTS", 5),
		SummaryFormat:    getEnvOrDefault("SUMMARY_FORMAT", "object"),
		PromptBudget:     getEnvOrDefaultInt("PROMPT_BUDGET", 30000),
		EdgeCacheType:    getEnvOrDefault("EDGE_CACHE_TYPE", "redis"),
		RedisAddr:        getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:          getEnvOrDefaultInt("REDIS_DB", 0),
		ArticleTTLHours:  getEnvOrDefaultInt("ARTICLE_TTL_HOURS", 24),
		FeedTTLMinutes:   getEnvOrDefaultInt("FEED_TTL_MINUTES", 10),
		DurableCacheType: getEnvOrDefault("DURABLE_CACHE_TYPE", "cloud-storage"),
		CacheBucket:      getEnvOrDefault("CACHE_BUCKET", "newslens-summary-cache"),
		DurableTTLHours:  getEnvOrDefaultInt("DURABLE_TTL_HOURS", 336),
		WarmSchedule:     getEnvOrDefault("WARM_SCHEDULE", ""),
		PublicHost:       getEnvOrDefault("PUBLIC_HOST", "localhost:8080"),
		PortalURL:        getEnvOrDefault("PORTAL_URL", ""),
	}

	return config, config.validate()
}

// validate checks if required configuration values are present
func (c *Config) validate() error {
	if c.GeminiAPIKey == "" {
		return &ConfigError{Field: "GEMINI_API_KEY", Message: "Gemini API key is required"}
	}
	if c.SummaryFormat != "object" && c.SummaryFormat != "list" {
		return &ConfigError{Field: "SUMMARY_FORMAT", Message: "must be object or list"}
	}
	if c.PromptBudget < 15000 || c.PromptBudget > 65000 {
		return &ConfigError{Field: "PROMPT_BUDGET", Message: "must be between 15000 and 65000"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
