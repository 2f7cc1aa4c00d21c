package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Config is loaded once at startup and never mutated afterwards
type Config struct {
	Provider       string        `yaml:"provider"`
	Model          string        `yaml:"model"`
	Temperature    *float64      `yaml:"temperature"`
	GeminiAPIKey   string        `yaml:"gemini_api_key"`
	OpenAIAPIKey   string        `yaml:"openai_api_key"`
	OpenAIBaseURL  string        `yaml:"openai_base_url"`
	OllamaURL      string        `yaml:"ollama_url"`
	RenderDPI      float64       `yaml:"render_dpi"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Provider:       ProviderGemini,
		RenderDPI:      72,
		MaxUploadBytes: 10 * 1024 * 1024,
		RequestTimeout: 2 * time.Minute,
	}
}

// Load reads defaults, then the optional YAML file at path, then the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	setString(&c.Provider, "INVOICER_PROVIDER")
	setString(&c.Model, "INVOICER_MODEL")
	setString(&c.GeminiAPIKey, "GOOGLE_API_KEY")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&c.OllamaURL, "OLLAMA_HOST")
	setString(&c.OllamaURL, "OLLAMA_URL")

	if v := os.Getenv("INVOICER_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid INVOICER_TEMPERATURE %q: %w", v, err)
		}
		c.Temperature = &f
	}
	if v := os.Getenv("INVOICER_RENDER_DPI"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid INVOICER_RENDER_DPI %q: %w", v, err)
		}
		c.RenderDPI = f
	}
	if v := os.Getenv("INVOICER_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid INVOICER_MAX_UPLOAD_BYTES %q: %w", v, err)
		}
		c.MaxUploadBytes = n
	}
	if v := os.Getenv("INVOICER_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid INVOICER_REQUEST_TIMEOUT %q: %w", v, err)
		}
		c.RequestTimeout = d
	}
	return nil
}

// Validate checks that the selected provider can be used. A missing credential is a startup failure.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY (or GOOGLE_API_KEY) environment variable not set")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY environment variable not set")
		}
	case ProviderOllama:
	default:
		return fmt.Errorf("unsupported provider: %s", c.Provider)
	}

	if c.RenderDPI <= 0 {
		return fmt.Errorf("render_dpi must be positive, got %v", c.RenderDPI)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

// later keys win, so callers list fallbacks first
func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
