package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"INVOICER_PROVIDER", "INVOICER_MODEL", "GOOGLE_API_KEY", "GEMINI_API_KEY",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OLLAMA_HOST", "OLLAMA_URL",
		"INVOICER_TEMPERATURE", "INVOICER_RENDER_DPI", "INVOICER_MAX_UPLOAD_BYTES", "INVOICER_REQUEST_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Provider != ProviderGemini {
		t.Errorf("Expected gemini, got %s", cfg.Provider)
	}
	if cfg.RenderDPI != 72 {
		t.Errorf("Expected 72 dpi, got %v", cfg.RenderDPI)
	}
	if cfg.MaxUploadBytes != 10*1024*1024 {
		t.Errorf("Expected 10MB limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.Temperature != nil {
		t.Errorf("Expected temperature to be unset, got %v", *cfg.Temperature)
	}
}

func TestLoadTemperatureEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("INVOICER_TEMPERATURE", "0")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0 {
		t.Errorf("Expected explicit zero temperature, got %v", cfg.Temperature)
	}
}

func TestLoadMissingCredential(t *testing.T) {
	clearEnv(t)

	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Errorf("Expected missing credential error, got %v", err)
	}
}

func TestLoadGoogleAPIKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "google")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.GeminiAPIKey != "google" {
		t.Errorf("Expected GOOGLE_API_KEY to be used, got %q", cfg.GeminiAPIKey)
	}

	t.Setenv("GEMINI_API_KEY", "gemini")
	cfg, _ = Load("")
	if cfg.GeminiAPIKey != "gemini" {
		t.Errorf("Expected GEMINI_API_KEY to win, got %q", cfg.GeminiAPIKey)
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "invoicer.yaml")
	content := `provider: ollama
model: llava
temperature: 0.3
render_dpi: 150
request_timeout: 30s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("INVOICER_MODEL", "llama3.2-vision")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Provider != ProviderOllama {
		t.Errorf("Expected ollama, got %s", cfg.Provider)
	}
	if cfg.Model != "llama3.2-vision" {
		t.Errorf("Expected env to override model, got %s", cfg.Model)
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0.3 || cfg.RenderDPI != 150 {
		t.Errorf("Unexpected values: %+v", cfg)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.RequestTimeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"gemini with key", func(c *Config) { c.GeminiAPIKey = "k" }, false},
		{"openai without key", func(c *Config) { c.Provider = ProviderOpenAI }, true},
		{"openai with key", func(c *Config) { c.Provider = ProviderOpenAI; c.OpenAIAPIKey = "k" }, false},
		{"ollama needs no key", func(c *Config) { c.Provider = ProviderOllama }, false},
		{"unknown provider", func(c *Config) { c.Provider = "claude" }, true},
		{"zero dpi", func(c *Config) { c.GeminiAPIKey = "k"; c.RenderDPI = 0 }, true},
		{"zero upload limit", func(c *Config) { c.GeminiAPIKey = "k"; c.MaxUploadBytes = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("INVOICER_REQUEST_TIMEOUT", "soon")

	if _, err := Load(""); err == nil {
		t.Errorf("Expected error for invalid duration")
	}
}
