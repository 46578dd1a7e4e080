package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv    string
	Port      string
	LogLevel  string
	LogFormat string

	// DecayRate is the tilt decay speed in points per minute.
	DecayRate float64
	// Sensitivity is the starting detection sensitivity: low, medium, or high.
	Sensitivity string

	// ClassifierURL points at the optional sentiment inference endpoint.
	// Empty means the classifier is unavailable and keyword extraction is
	// the sole signal source.
	ClassifierURL     string
	ClassifierTimeout time.Duration

	// SignalRateLimit is the sustained per-user signal rate in signals per
	// second; 0 disables rate limiting. SignalRateBurst is the bucket size.
	SignalRateLimit float64
	SignalRateBurst int
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		Sensitivity: getEnv("SENSITIVITY", "medium"),

		ClassifierURL: getEnv("CLASSIFIER_URL", ""),
	}

	var err error
	if cfg.DecayRate, err = getFloat("TILT_DECAY_RATE", 5); err != nil {
		return nil, err
	}
	if cfg.DecayRate <= 0 {
		return nil, fmt.Errorf("TILT_DECAY_RATE must be positive, got %v", cfg.DecayRate)
	}

	if cfg.ClassifierTimeout, err = getDuration("CLASSIFIER_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}

	if cfg.SignalRateLimit, err = getFloat("SIGNAL_RATE_LIMIT", 1); err != nil {
		return nil, err
	}
	if cfg.SignalRateLimit < 0 {
		return nil, fmt.Errorf("SIGNAL_RATE_LIMIT must not be negative, got %v", cfg.SignalRateLimit)
	}
	if cfg.SignalRateBurst, err = getInt("SIGNAL_RATE_BURST", 5); err != nil {
		return nil, err
	}
	if cfg.SignalRateLimit > 0 && cfg.SignalRateBurst < 1 {
		return nil, fmt.Errorf("SIGNAL_RATE_BURST must be at least 1 when rate limiting is enabled, got %d", cfg.SignalRateBurst)
	}

	switch cfg.Sensitivity {
	case "low", "medium", "high":
	default:
		return nil, fmt.Errorf("SENSITIVITY must be low, medium, or high, got %q", cfg.Sensitivity)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return parsed, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 2s or 500ms: %w", key, err)
	}
	return parsed, nil
}
