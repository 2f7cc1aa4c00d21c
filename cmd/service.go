package cmd

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/invoicer/internal/config"
	"github.com/lehigh-university-libraries/invoicer/internal/extraction"
	"github.com/lehigh-university-libraries/invoicer/internal/gemini"
	"github.com/lehigh-university-libraries/invoicer/internal/ollama"
	"github.com/lehigh-university-libraries/invoicer/internal/openai"
	"github.com/lehigh-university-libraries/invoicer/internal/pdf"
	"github.com/lehigh-university-libraries/invoicer/internal/providers"
)

func newProvider(cfg config.Config) (providers.Provider, error) {
	pc := providers.Config{Model: cfg.Model, Temperature: cfg.Temperature}
	client := &http.Client{Timeout: cfg.RequestTimeout}

	switch cfg.Provider {
	case config.ProviderGemini:
		return gemini.New(cfg.GeminiAPIKey, pc), nil
	case config.ProviderOpenAI:
		return openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, pc, client), nil
	case config.ProviderOllama:
		return ollama.New(cfg.OllamaURL, pc, client), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

func newService(cfg config.Config) (*extraction.Service, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	slog.Debug("Configured model provider", "provider", provider.Name(), "model", cfg.Model, "render_dpi", cfg.RenderDPI)
	normalizer := extraction.NewNormalizer(pdf.NewOpener(cfg.RenderDPI))
	return extraction.NewService(normalizer, provider), nil
}
