// Package config provides configuration loading and validation for the CLI.
// It uses koanf to merge an optional YAML file with environment overrides;
// environment variables take precedence over file values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default values for non-secret configuration.
const (
	DefaultViewLimit              = 10
	DefaultMaxPerCategory         = 3
	DefaultMaxPerSource           = 4
	DefaultMaxPerHardwareCategory = 2
	DefaultHardwareRatio          = 0.3
	DefaultFreshDays              = 5
	DefaultStickyDays             = 10
	DefaultGuardrailMode          = "medium"
	DefaultSignalWindowDays       = 7
	DefaultSignalWorkers          = 4
	DefaultSignalPacingMS         = 250
	DefaultSignalCacheTTLMin      = 30
	DefaultLLMProvider            = "gemini"
)

// Config holds all configuration for the curation pipeline.
type Config struct {
	// View quotas
	ViewLimit              int     `koanf:"view_limit" validate:"gte=0"`
	MaxPerCategory         int     `koanf:"max_per_category" validate:"gte=0"`
	MaxPerSource           int     `koanf:"max_per_source" validate:"gte=0"`
	MaxPerHardwareCategory int     `koanf:"max_per_hardware_category" validate:"gte=0"`
	HardwareRatio          float64 `koanf:"hardware_ratio" validate:"gte=0,lte=1"`

	// Freshness windows (days)
	FreshDays  int `koanf:"fresh_days" validate:"gte=0"`
	StickyDays int `koanf:"sticky_days" validate:"gte=0"`

	// Guardrail
	GuardrailMode string `koanf:"guardrail_mode" validate:"oneof=conservative medium aggressive"`

	// Signal collection
	SignalWindowDays  int `koanf:"signal_window_days" validate:"gte=1"`
	SignalWorkers     int `koanf:"signal_workers" validate:"gte=1"`
	SignalPacingMS    int `koanf:"signal_pacing_ms" validate:"gte=0"`
	SignalCacheTTLMin int `koanf:"signal_cache_ttl_min" validate:"gte=0"`

	// Official X handle mappings, keyed by normalized domain and by
	// normalized product name. File-only; no env override for maps.
	DomainHandles map[string]string `koanf:"domain_handles"`
	NameHandles   map[string]string `koanf:"name_handles"`

	// Credentials
	GeminiAPIKey     string `koanf:"gemini_api_key"`
	OpenAIAPIKey     string `koanf:"openai_api_key"`
	LLMProvider      string `koanf:"llm_provider" validate:"omitempty,oneof=gemini openai"`
	GitHubToken      string `koanf:"github_token"`
	GitHubAppID      string `koanf:"github_app_id"`
	GitHubInstallID  string `koanf:"github_installation_id"`
	GitHubAppKeyFile string `koanf:"github_app_key_file"`
	SearchAPIKey     string `koanf:"search_api_key"`
	SearchCX         string `koanf:"search_cx"`

	// PostgreSQL connection URL for run/artifact persistence. Optional:
	// when empty the pipeline runs without a store.
	DatabaseURL string `koanf:"database_url"`

	Verbose bool `koanf:"verbose"`
}

// Default returns a Config populated with stock values.
func Default() *Config {
	return &Config{
		ViewLimit:              DefaultViewLimit,
		MaxPerCategory:         DefaultMaxPerCategory,
		MaxPerSource:           DefaultMaxPerSource,
		MaxPerHardwareCategory: DefaultMaxPerHardwareCategory,
		HardwareRatio:          DefaultHardwareRatio,
		FreshDays:              DefaultFreshDays,
		StickyDays:             DefaultStickyDays,
		GuardrailMode:          DefaultGuardrailMode,
		SignalWindowDays:       DefaultSignalWindowDays,
		SignalWorkers:          DefaultSignalWorkers,
		SignalPacingMS:         DefaultSignalPacingMS,
		SignalCacheTTLMin:      DefaultSignalCacheTTLMin,
		LLMProvider:            DefaultLLMProvider,
	}
}

// Load reads configuration from an optional YAML file and the environment.
// Environment variables take precedence over file values, which take
// precedence over defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		if err := k.Unmarshal("", cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides config values from environment variables.
func (c *Config) applyEnv() error {
	var err error
	if c.ViewLimit, err = envInt("WEEKLYAI_VIEW_LIMIT", c.ViewLimit); err != nil {
		return err
	}
	if c.MaxPerCategory, err = envInt("WEEKLYAI_MAX_PER_CATEGORY", c.MaxPerCategory); err != nil {
		return err
	}
	if c.MaxPerSource, err = envInt("WEEKLYAI_MAX_PER_SOURCE", c.MaxPerSource); err != nil {
		return err
	}
	if c.MaxPerHardwareCategory, err = envInt("WEEKLYAI_MAX_PER_HW_CATEGORY", c.MaxPerHardwareCategory); err != nil {
		return err
	}
	if c.HardwareRatio, err = envFloat("WEEKLYAI_HARDWARE_RATIO", c.HardwareRatio); err != nil {
		return err
	}
	if c.FreshDays, err = envInt("WEEKLYAI_FRESH_DAYS", c.FreshDays); err != nil {
		return err
	}
	if c.StickyDays, err = envInt("WEEKLYAI_STICKY_DAYS", c.StickyDays); err != nil {
		return err
	}
	if c.SignalWindowDays, err = envInt("WEEKLYAI_SIGNAL_WINDOW_DAYS", c.SignalWindowDays); err != nil {
		return err
	}
	if c.SignalWorkers, err = envInt("WEEKLYAI_SIGNAL_WORKERS", c.SignalWorkers); err != nil {
		return err
	}
	if c.SignalPacingMS, err = envInt("WEEKLYAI_SIGNAL_PACING_MS", c.SignalPacingMS); err != nil {
		return err
	}
	if c.SignalCacheTTLMin, err = envInt("WEEKLYAI_SIGNAL_CACHE_TTL_MIN", c.SignalCacheTTLMin); err != nil {
		return err
	}

	c.GuardrailMode = envString("WEEKLYAI_GUARDRAIL_MODE", c.GuardrailMode)
	c.LLMProvider = envString("WEEKLYAI_LLM_PROVIDER", c.LLMProvider)
	c.GeminiAPIKey = envStringMulti([]string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}, c.GeminiAPIKey)
	c.OpenAIAPIKey = envString("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.GitHubToken = envString("GITHUB_TOKEN", c.GitHubToken)
	c.GitHubAppID = envString("GITHUB_APP_ID", c.GitHubAppID)
	c.GitHubInstallID = envString("GITHUB_INSTALLATION_ID", c.GitHubInstallID)
	c.GitHubAppKeyFile = envString("GITHUB_APP_PRIVATE_KEY", c.GitHubAppKeyFile)
	c.SearchAPIKey = envString("GOOGLE_SEARCH_API_KEY", c.SearchAPIKey)
	c.SearchCX = envString("GOOGLE_SEARCH_CX", c.SearchCX)
	c.DatabaseURL = envString("DATABASE_URL", c.DatabaseURL)
	c.Verbose = envBool("WEEKLYAI_VERBOSE", c.Verbose)
	return nil
}

// Validate checks field ranges and enum values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// envString returns the environment variable value if set, otherwise fallback.
func envString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// envStringMulti tries multiple environment variable keys in order.
func envStringMulti(keys []string, fallback string) string {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return fallback
}

// envInt returns the environment variable as int if set, otherwise fallback.
// An unparsable value is an error rather than a silent fallback.
func envInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return i, nil
}

// envFloat returns the environment variable as float64 if set, otherwise fallback.
func envFloat(key string, fallback float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid float: %w", key, err)
	}
	return f, nil
}

// envBool returns the environment variable as bool if set, otherwise fallback.
// Accepts the usual truthy/falsy spellings; anything else keeps the fallback.
func envBool(key string, fallback bool) bool {
	val := strings.ToLower(os.Getenv(key))
	switch val {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return fallback
}

// LogSummary returns a summary of the configuration suitable for logging.
// Secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"view_limit":           strconv.Itoa(c.ViewLimit),
		"max_per_category":     strconv.Itoa(c.MaxPerCategory),
		"max_per_source":       strconv.Itoa(c.MaxPerSource),
		"max_per_hw_category":  strconv.Itoa(c.MaxPerHardwareCategory),
		"hardware_ratio":       fmt.Sprintf("%.2f", c.HardwareRatio),
		"fresh_days":           strconv.Itoa(c.FreshDays),
		"sticky_days":          strconv.Itoa(c.StickyDays),
		"guardrail_mode":       c.GuardrailMode,
		"signal_window_days":   strconv.Itoa(c.SignalWindowDays),
		"signal_workers":       strconv.Itoa(c.SignalWorkers),
		"signal_pacing_ms":     strconv.Itoa(c.SignalPacingMS),
		"signal_cache_ttl_min": strconv.Itoa(c.SignalCacheTTLMin),
		"llm_provider":         c.LLMProvider,
		"gemini_api_key":       maskSecret(c.GeminiAPIKey),
		"openai_api_key":       maskSecret(c.OpenAIAPIKey),
		"github_token":         maskSecret(c.GitHubToken),
		"search_api_key":       maskSecret(c.SearchAPIKey),
		"database_url":         maskDatabaseURL(c.DatabaseURL),
		"domain_handles":       strconv.Itoa(len(c.DomainHandles)),
		"name_handles":         strconv.Itoa(len(c.NameHandles)),
		"verbose":              strconv.FormatBool(c.Verbose),
	}
}

// maskSecret masks a secret value, showing only the first 4 characters.
// Short secrets are fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

// maskDatabaseURL masks the password in a database URL.
func maskDatabaseURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return maskSecret(s)
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s
	}

	scheme := s[:schemeEnd+3]
	user := rest[:colonIndex]
	hostAndPath := rest[atIndex:]

	return scheme + user + ":****" + hostAndPath
}
