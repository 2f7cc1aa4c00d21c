package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/invoicer/internal/models"
	"github.com/lehigh-university-libraries/invoicer/internal/providers"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	name = "gemini"

	// DefaultModel is used when no model is configured
	DefaultModel = "gemini-1.5-flash-8b"
)

// Gemini is a provider for Google Gemini
type Gemini struct {
	apiKey  string
	config  providers.Config
	options []option.ClientOption
}

// New returns a new Gemini provider. Extra client options are appended after the API key.
func New(apiKey string, config providers.Config, opts ...option.ClientOption) *Gemini {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	return &Gemini{
		apiKey:  strings.TrimSpace(apiKey),
		config:  config,
		options: opts,
	}
}

func (g *Gemini) Name() string { return name }

// Answer sends the prompt, the images and the question to Gemini and returns the reply text
func (g *Gemini) Answer(ctx context.Context, req models.ModelRequest) (models.ModelResponse, error) {
	if g.apiKey == "" {
		return models.ModelResponse{}, &providers.ModelRequestError{Provider: name, Err: errors.New("GEMINI_API_KEY is empty")}
	}

	opts := append([]option.ClientOption{option.WithAPIKey(g.apiKey)}, g.options...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return models.ModelResponse{}, &providers.ModelUnavailableError{Provider: name, Err: fmt.Errorf("failed to create new gemini client: %w", err)}
	}
	defer client.Close()

	model := client.GenerativeModel(g.config.Model)
	if g.config.Temperature != nil {
		model.SetTemperature(float32(*g.config.Temperature))
	}

	resp, err := model.GenerateContent(ctx, buildParts(req)...)
	if err != nil {
		return models.ModelResponse{}, classify(err)
	}

	text, err := responseText(resp)
	if err != nil {
		return models.ModelResponse{}, &providers.InvalidResponseError{Provider: name, Err: err}
	}
	return models.ModelResponse{Text: text}, nil
}

// buildParts orders the content as prompt, images, question
func buildParts(req models.ModelRequest) []genai.Part {
	parts := make([]genai.Part, 0, len(req.Images)+2)
	parts = append(parts, genai.Text(req.SystemPrompt))
	for _, img := range req.Images {
		parts = append(parts, genai.Blob{MIMEType: img.MediaType, Data: img.Data})
	}
	parts = append(parts, genai.Text(req.Question))
	return parts
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}
	return sb.String(), nil
}

func classify(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &providers.InvalidResponseError{Provider: name, Err: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code >= http.StatusInternalServerError {
			return &providers.ModelUnavailableError{Provider: name, Err: err}
		}
		return &providers.ModelRequestError{Provider: name, StatusCode: apiErr.Code, Err: err}
	}

	return providers.ClassifyTransport(name, err)
}
