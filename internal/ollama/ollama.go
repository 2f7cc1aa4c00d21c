package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/invoicer/internal/models"
	"github.com/lehigh-university-libraries/invoicer/internal/providers"
)

const (
	name = "ollama"

	// DefaultModel is used when no model is configured
	DefaultModel = "mistral-small3.2:24b"

	// DefaultURL is the local Ollama daemon
	DefaultURL = "http://localhost:11434"
)

// Ollama is a provider for Ollama
type Ollama struct {
	baseURL string
	config  providers.Config
	client  *http.Client
}

// New returns a new Ollama provider
func New(baseURL string, config providers.Config, client *http.Client) *Ollama {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Ollama{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		config:  config,
		client:  client,
	}
}

func (o *Ollama) Name() string { return name }

// Answer sends the images and question to /api/generate
func (o *Ollama) Answer(ctx context.Context, req models.ModelRequest) (models.ModelResponse, error) {
	images := make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, base64.StdEncoding.EncodeToString(img.Data))
	}

	body := map[string]interface{}{
		"model":  o.config.Model,
		"system": req.SystemPrompt,
		"prompt": req.Question,
		"images": images,
		"stream": false,
	}
	if o.config.Temperature != nil {
		body["options"] = map[string]interface{}{
			"temperature": *o.config.Temperature,
		}
	}

	requestBody, err := json.Marshal(body)
	if err != nil {
		return models.ModelResponse{}, &providers.ModelRequestError{Provider: name, Err: fmt.Errorf("failed to marshal request body: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/api/generate", bytes.NewBuffer(requestBody))
	if err != nil {
		return models.ModelResponse{}, &providers.ModelRequestError{Provider: name, Err: fmt.Errorf("failed to create new request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return models.ModelResponse{}, providers.ClassifyTransport(name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return models.ModelResponse{}, providers.ClassifyStatus(name, resp.StatusCode, string(body))
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return models.ModelResponse{}, &providers.InvalidResponseError{Provider: name, Err: fmt.Errorf("failed to decode response body: %w", err)}
	}

	if strings.TrimSpace(response.Response) == "" {
		return models.ModelResponse{}, &providers.InvalidResponseError{Provider: name, Err: errors.New("empty response returned from Ollama")}
	}

	return models.ModelResponse{Text: response.Response}, nil
}
