package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/invoicer/internal/models"
	"github.com/lehigh-university-libraries/invoicer/internal/upload"
)

// HandleAsk runs one submission and returns the display state as JSON
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)

	// Check if this is a JSON request with a file URL
	var (
		file     *models.UploadedFile
		question string
		err      error
	)
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		file, question, err = h.readURLRequest(r)
	} else {
		file, question, err = h.readFormRequest(r)
	}
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	state := h.service.HandleSubmit(ctx, file, question)
	h.writeJSONStatus(w, state, statusFor(state))
}

// HandlePreview normalizes the upload without asking the model
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)

	file, err := upload.FromMultipart(r, h.opts.MaxUploadBytes)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	state := h.service.Preview(file)
	h.writeJSONStatus(w, state, statusFor(state))
}

func (h *Handler) readFormRequest(r *http.Request) (*models.UploadedFile, string, error) {
	file, err := upload.FromMultipart(r, h.opts.MaxUploadBytes)
	if err != nil {
		return nil, "", err
	}
	return file, r.FormValue("question"), nil
}

func (h *Handler) readURLRequest(r *http.Request) (*models.UploadedFile, string, error) {
	var request struct {
		FileURL  string `json:"file_url"`
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, "", &badRequestError{msg: "Invalid JSON: " + err.Error()}
	}

	if request.FileURL == "" {
		return nil, request.Question, nil
	}
	if !upload.IsURL(request.FileURL) {
		return nil, "", &badRequestError{msg: "file_url must be an http(s) URL"}
	}

	file, err := upload.FromURL(r.Context(), h.opts.HTTPClient, request.FileURL, h.opts.MaxUploadBytes)
	if err != nil {
		return nil, "", &badRequestError{msg: "Failed to process file URL: " + err.Error()}
	}
	return file, request.Question, nil
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.opts.RequestTimeout > 0 {
		return context.WithTimeout(r.Context(), h.opts.RequestTimeout)
	}
	return context.WithCancel(r.Context())
}

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	var maxBytesErr *http.MaxBytesError
	var badReq *badRequestError
	switch {
	case errors.Is(err, upload.ErrTooLarge), errors.As(err, &maxBytesErr):
		h.writeError(w, "File too large", http.StatusBadRequest)
	case errors.As(err, &badReq):
		h.writeError(w, badReq.msg, http.StatusBadRequest)
	default:
		h.writeError(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
	}
}
