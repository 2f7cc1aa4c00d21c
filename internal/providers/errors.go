package providers

import (
	"fmt"
	"net/http"
)

// ModelUnavailableError means the model endpoint could not be reached or is down.
type ModelUnavailableError struct {
	Provider string
	Err      error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Provider, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

// ModelRequestError means the endpoint refused the request (bad payload, auth, quota).
type ModelRequestError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ModelRequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s rejected request (status %d): %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s rejected request: %v", e.Provider, e.Err)
}

func (e *ModelRequestError) Unwrap() error { return e.Err }

// InvalidResponseError means the endpoint answered without usable text.
type InvalidResponseError struct {
	Provider string
	Err      error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("%s returned an invalid response: %v", e.Provider, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// ClassifyStatus maps a non-200 HTTP status to the matching error type.
func ClassifyStatus(provider string, code int, body string) error {
	err := fmt.Errorf("received non-200 status code: %d - %s", code, body)
	if code >= 500 || code == http.StatusRequestTimeout {
		return &ModelUnavailableError{Provider: provider, Err: err}
	}
	return &ModelRequestError{Provider: provider, StatusCode: code, Err: err}
}

// ClassifyTransport wraps an error returned before any HTTP status was seen.
func ClassifyTransport(provider string, err error) error {
	return &ModelUnavailableError{Provider: provider, Err: fmt.Errorf("failed to send request: %w", err)}
}
