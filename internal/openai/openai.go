package openai

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
	name = "openai"

	// DefaultModel is used when no model is configured
	DefaultModel = "gpt-4o"

	// DefaultBaseURL is the public OpenAI API
	DefaultBaseURL = "https://api.openai.com/v1"
)

// OpenAI is a provider for OpenAI
type OpenAI struct {
	apiKey  string
	baseURL string
	config  providers.Config
	client  *http.Client
}

// New returns a new OpenAI provider
func New(apiKey, baseURL string, config providers.Config, client *http.Client) *OpenAI {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if client == nil {
		client = &http.Client{}
	}
	return &OpenAI{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		config:  config,
		client:  client,
	}
}

func (o *OpenAI) Name() string { return name }

// Answer sends the prompt as a system message and the images plus question as the user message
func (o *OpenAI) Answer(ctx context.Context, req models.ModelRequest) (models.ModelResponse, error) {
	if o.apiKey == "" {
		return models.ModelResponse{}, &providers.ModelRequestError{Provider: name, Err: errors.New("OPENAI_API_KEY not set")}
	}

	content := make([]map[string]interface{}, 0, len(req.Images)+1)
	for _, img := range req.Images {
		content = append(content, map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]string{
				"url": "data:" + img.MediaType + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
			},
		})
	}
	content = append(content, map[string]interface{}{
		"type": "text",
		"text": req.Question,
	})

	body := map[string]interface{}{
		"model": o.config.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "system",
				"content": req.SystemPrompt,
			},
			{
				"role":    "user",
				"content": content,
			},
		},
	}
	if o.config.Temperature != nil {
		body["temperature"] = *o.config.Temperature
	}

	requestBody, err := json.Marshal(body)
	if err != nil {
		return models.ModelResponse{}, &providers.ModelRequestError{Provider: name, Err: fmt.Errorf("failed to marshal request body: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return models.ModelResponse{}, &providers.ModelRequestError{Provider: name, Err: fmt.Errorf("failed to create new request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

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
		Choices []struct {
			Message struct {
				Content string `json:"content"`
				Refusal string `json:"refusal"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return models.ModelResponse{}, &providers.InvalidResponseError{Provider: name, Err: fmt.Errorf("failed to decode response body: %w", err)}
	}

	if len(response.Choices) == 0 {
		return models.ModelResponse{}, &providers.InvalidResponseError{Provider: name, Err: errors.New("no choices returned from OpenAI")}
	}

	message := response.Choices[0].Message
	if strings.TrimSpace(message.Content) == "" {
		if message.Refusal != "" {
			return models.ModelResponse{}, &providers.InvalidResponseError{Provider: name, Err: fmt.Errorf("model refused: %s", message.Refusal)}
		}
		return models.ModelResponse{}, &providers.InvalidResponseError{Provider: name, Err: errors.New("empty content returned from OpenAI")}
	}

	return models.ModelResponse{Text: message.Content}, nil
}
