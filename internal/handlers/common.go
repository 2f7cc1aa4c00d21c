package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/invoicer/internal/extraction"
	"github.com/lehigh-university-libraries/invoicer/internal/models"
)

// Options configures a Handler
type Options struct {
	MaxUploadBytes int64
	RequestTimeout time.Duration
	HTTPClient     *http.Client
}

type Handler struct {
	service *extraction.Service
	opts    Options
	page    *template.Template
}

func New(service *extraction.Service, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 * 1024 * 1024
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Handler{
		service: service,
		opts:    opts,
		page:    template.Must(template.ParseFS(assets, "templates/index.html")),
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, data, http.StatusOK)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "status", code)
	} else {
		slog.Warn(message, "status", code)
	}
	http.Error(w, message, code)
}

// limitBody caps the request body a little above the upload limit to leave room for form fields
func (h *Handler) limitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes+1<<20)
}

// statusFor maps a display state to the HTTP status returned by the JSON API
func statusFor(state models.DisplayState) int {
	if state.Warning != "" {
		return http.StatusBadRequest
	}
	switch state.ErrorKind {
	case "":
		return http.StatusOK
	case extraction.KindFile:
		return http.StatusUnprocessableEntity
	case extraction.KindModelUnavailable:
		return http.StatusServiceUnavailable
	case extraction.KindModelRequest, extraction.KindInvalidResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
