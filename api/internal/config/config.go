package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider names. ProviderRules grades with the built-in keyword checks and
// needs no credential.
const (
	ProviderOpenAI = "openai"
	ProviderXAI    = "xai"
	ProviderGemini = "gemini"
	ProviderRules  = "rules"
)

type Config struct {
	Port     string `yaml:"port"`
	Provider string `yaml:"provider"`

	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIModel   string `yaml:"openai_model"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	XAIAPIKey     string `yaml:"xai_api_key"`
	XAIModel      string `yaml:"xai_model"`
	XAIBaseURL    string `yaml:"xai_base_url"`
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`

	MaxTokens    int     `yaml:"max_tokens"`
	Temperature  float32 `yaml:"temperature"`
	MaxBodyBytes int64   `yaml:"max_body_bytes"`
	PromptDir    string  `yaml:"prompt_dir"`

	LogLevel  string `yaml:"log_level"`  // debug | info | warn | error
	LogFormat string `yaml:"log_format"` // text | json
}

const defaultTemperature = 0.3

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// Load reads the optional YAML file at path, then applies environment
// overrides and defaults. A missing file is not an error. Credentials are
// not required here: a missing key surfaces per request.
func Load(path string) (*Config, error) {
	// seeded so an explicit 0 from the file or env survives applyDefaults
	cfg := &Config{Temperature: defaultTemperature}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Provider = getEnv("PROVIDER", cfg.Provider)

	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.XAIAPIKey = getEnv("XAI_API_KEY", cfg.XAIAPIKey)
	cfg.XAIModel = getEnv("XAI_MODEL", cfg.XAIModel)
	cfg.XAIBaseURL = getEnv("XAI_BASE_URL", cfg.XAIBaseURL)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)

	cfg.PromptDir = getEnv("PROMPT_DIR", cfg.PromptDir)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	if v := getEnv("MAX_TOKENS", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_TOKENS: %w", err)
		}
		cfg.MaxTokens = n
	}
	if v := getEnv("TEMPERATURE", ""); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("TEMPERATURE: %w", err)
		}
		cfg.Temperature = float32(f)
	}
	if v := getEnv("MAX_BODY_BYTES", ""); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_BODY_BYTES: %w", err)
		}
		cfg.MaxBodyBytes = n
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	cfg.Provider = strings.ToLower(cfg.Provider)
	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenAI
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}
	if cfg.XAIModel == "" {
		cfg.XAIModel = "grok-3"
	}
	if cfg.XAIBaseURL == "" {
		cfg.XAIBaseURL = "https://api.x.ai/v1"
	}
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.5-flash"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 8 << 20
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderXAI, ProviderGemini, ProviderRules:
	default:
		return fmt.Errorf("invalid provider %q: must be openai | xai | gemini | rules", c.Provider)
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2], got %v", c.Temperature)
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be text | json", c.LogFormat)
	}
	return nil
}

// UsesModel reports whether grading is delegated to a hosted model.
func (c *Config) UsesModel() bool {
	return c.Provider != ProviderRules
}

// APIKey is the credential of the active provider ("" for rules).
func (c *Config) APIKey() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderXAI:
		return c.XAIAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return ""
	}
}
