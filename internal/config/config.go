// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	str2duration "github.com/xhit/go-str2duration/v2"

	"github.com/jonathan/pagefeed/internal/extract"
	"github.com/jonathan/pagefeed/internal/llm"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultPort       = 8080
	DefaultModels     = "llama-3.1-8b-instant,llama-3.3-70b-versatile"
	DefaultContentTTL = time.Hour
	DefaultFeedTTL    = 7 * 24 * time.Hour
)

// Config holds the service configuration, loaded from environment variables.
type Config struct {
	Port int `validate:"gte=1,lte=65535"`

	// Reader service used for content extraction.
	ReaderURL    string `validate:"required,http_url"`
	ReaderAPIKey string

	// Completion providers. At least one credential must be set.
	OpenAIKey     string `validate:"required_without=GeminiKey"`
	OpenAIBaseURL string `validate:"omitempty,http_url"`
	GeminiKey     string `validate:"required_without=OpenAIKey"`

	// Models lists candidate specs in fallback order, each "model" or
	// "provider:model".
	Models []string `validate:"min=1"`

	ContentTTL time.Duration `validate:"gt=0"`
	FeedTTL    time.Duration `validate:"gt=0"`

	FetchTimeout      time.Duration `validate:"gt=0"`
	CompletionTimeout time.Duration `validate:"gt=0"`

	// RedisURL switches caching from in-process memory to Redis when set.
	RedisURL string
}

var validate = validator.New()

// Load reads configuration from the environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		ReaderURL:    envString("READER_URL", extract.DefaultBaseURL),
		ReaderAPIKey: os.Getenv("READER_API_KEY"),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		GeminiKey:     os.Getenv("GEMINI_API_KEY"),

		Models: splitModels(envString("MODELS", DefaultModels)),

		RedisURL: os.Getenv("REDIS_URL"),
	}

	portStr := envString("PORT", strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %v", err)
	}
	cfg.Port = port

	if cfg.ContentTTL, err = envDuration("CONTENT_CACHE_TTL", DefaultContentTTL); err != nil {
		return nil, err
	}
	if cfg.FeedTTL, err = envDuration("FEED_CACHE_TTL", DefaultFeedTTL); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = envDuration("FETCH_TIMEOUT", extract.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.CompletionTimeout, err = envDuration("COMPLETION_TIMEOUT", llm.DefaultCompletionTimeout); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// envString returns the named variable, or fallback when unset or empty.
func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// envDuration parses the named variable as a duration. Day suffixes are
// accepted, so "7d" and "168h" are equivalent.
func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	d, err := str2duration.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return d, nil
}

// splitModels splits a comma-separated candidate list, dropping blanks.
func splitModels(raw string) []string {
	parts := strings.Split(raw, ",")
	models := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			models = append(models, part)
		}
	}
	return models
}
