package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPListenAddr string

	SportsAPIBaseURL string
	SportsAPITimeout time.Duration
	ProbeTimeout     time.Duration

	GeminiAPIKey  string
	GeminiModel   string
	GeminiTimeout time.Duration

	MetricsNamespace string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	DefaultSessionID string
	SessionTTL       time.Duration
}

// Load returns configuration populated from environment variables with fallbacks.
// A missing GEMINI_API_KEY is not an error: the bot falls back to deterministic
// extraction and synthesis.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:           getenvDefault("APP_ENV", "development"),
		LogLevel:         getenvDefault("LOG_LEVEL", "info"),
		HTTPListenAddr:   getenvDefault("HTTP_LISTEN_ADDR", ":8080"),
		SportsAPIBaseURL: getenvDefault("API_BASE_URL", "https://v46fnhvrjvtlrsmnismnwhdh5y0lckdl.lambda-url.us-east-1.on.aws"),
		GeminiAPIKey:     trimmedEnv("GEMINI_API_KEY"),
		GeminiModel:      getenvDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		MetricsNamespace: getenvDefault("METRICS_NAMESPACE", "chatbet"),
		RedisAddr:        trimmedEnv("REDIS_ADDR"),
		RedisPassword:    trimmedEnv("REDIS_PASSWORD"),
		DefaultSessionID: getenvDefault("DEFAULT_SESSION_ID", "default"),
	}

	var err error
	if cfg.SportsAPITimeout, err = durationEnv("API_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.ProbeTimeout, err = durationEnv("API_PROBE_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.GeminiTimeout, err = durationEnv("GEMINI_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = durationEnv("CACHE_TTL", "5m"); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", "30m"); err != nil {
		return nil, err
	}

	if redisDBStr := getenvDefault("REDIS_DB", "0"); redisDBStr != "" {
		db, convErr := strconv.Atoi(redisDBStr)
		if convErr != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value: %w", convErr)
		}
		cfg.RedisDB = db
	}

	if cfg.SportsAPIBaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}
	cfg.SportsAPIBaseURL = strings.TrimRight(cfg.SportsAPIBaseURL, "/")

	return cfg, nil
}

func durationEnv(key, fallback string) (time.Duration, error) {
	raw := getenvDefault(key, fallback)
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return dur, nil
}

func getenvDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func trimmedEnv(key string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return ""
}
