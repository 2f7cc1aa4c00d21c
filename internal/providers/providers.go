package providers

import (
	"context"

	"github.com/lehigh-university-libraries/invoicer/internal/models"
)

// Config represents the configuration for an LLM provider
type Config struct {
	Model string
	// Temperature is left to the provider's default when nil
	Temperature *float64
}

// Provider defines the interface for an LLM provider
type Provider interface {
	Name() string
	Answer(ctx context.Context, req models.ModelRequest) (models.ModelResponse, error)
}
