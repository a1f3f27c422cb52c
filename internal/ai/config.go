package ai

import (
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config collects the categorization tunables in one place.
type Config struct {
	// MaxCallsPerMinute caps outbound LLM calls within a sliding 60s window.
	MaxCallsPerMinute int
	// CacheTTL is how long a categorization result stays valid in the cache.
	CacheTTL time.Duration
	// BatchSize is the number of bookmarks categorized concurrently per chunk.
	BatchSize int
	// BatchDelay is the pacing delay inserted between chunks.
	BatchDelay time.Duration
	// CallTimeout bounds a single outbound LLM call.
	CallTimeout time.Duration
	// Model is the LLM model used for categorization.
	Model string
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		MaxCallsPerMinute: 10,
		CacheTTL:          24 * time.Hour,
		BatchSize:         3,
		BatchDelay:        time.Second,
		CallTimeout:       30 * time.Second,
		Model:             "gpt-4o-mini",
	}
}

// ConfigFromEnv returns the defaults with environment overrides applied.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("MAX_CONCURRENT_CATEGORIZATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BatchSize = n
		}
	}
	if v := os.Getenv("AI_CATEGORIZATION_TIMEOUT"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.CallTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("AI_MODEL"); v != "" {
		cfg.Model = v
	}
	return cfg
}

// Validate validates the configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxCallsPerMinute, validation.Required, validation.Min(1)),
		validation.Field(&c.CacheTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.BatchSize, validation.Required, validation.Min(1)),
		validation.Field(&c.CallTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.Model, validation.Required),
	)
}
