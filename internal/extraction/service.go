package extraction

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/invoicer/internal/models"
	"github.com/lehigh-university-libraries/invoicer/internal/providers"
)

// Service runs one submission at a time through normalize, assemble, answer and present.
type Service struct {
	normalizer *Normalizer
	provider   providers.Provider
	prompt     string
}

// NewService creates a service answering with provider
func NewService(normalizer *Normalizer, provider providers.Provider) *Service {
	return &Service{
		normalizer: normalizer,
		provider:   provider,
		prompt:     SystemPrompt,
	}
}

// HandleSubmit answers question about file. It never returns an error; failures are
// reported through the display state.
func (s *Service) HandleSubmit(ctx context.Context, file *models.UploadedFile, question string) models.DisplayState {
	submissionID := uuid.NewString()
	logger := slog.With("submission_id", submissionID)

	state := s.submit(ctx, logger, file, question)
	state.SubmissionID = submissionID
	return state
}

func (s *Service) submit(ctx context.Context, logger *slog.Logger, file *models.UploadedFile, question string) models.DisplayState {
	if file == nil || strings.TrimSpace(question) == "" {
		err := &MissingInputError{MissingFile: file == nil, MissingQuestion: strings.TrimSpace(question) == ""}
		logger.Info("Submission missing input", "err", err)
		return Present(nil, nil, err)
	}

	normalized, err := s.normalizer.Normalize(file)
	if err != nil {
		logger.Warn("Failed to normalize upload", "filename", file.Filename, "media_type", file.MediaType, "err", err)
		return Present(nil, nil, err)
	}

	req, err := Assemble(s.prompt, normalized.Images, question)
	if err != nil {
		logger.Warn("Failed to assemble model request", "err", err)
		return Present(normalized, nil, err)
	}

	start := time.Now()
	logger.Info("Asking model", "provider", s.provider.Name(), "images", len(req.Images), "filename", file.Filename)
	resp, err := s.provider.Answer(ctx, req)
	if err != nil {
		logger.Error("Model call failed", "provider", s.provider.Name(), "duration", time.Since(start), "err", err)
		return Present(normalized, nil, err)
	}

	logger.Info("Model answered", "provider", s.provider.Name(), "duration", time.Since(start), "length", len(resp.Text))
	return Present(normalized, &resp, nil)
}

// Preview normalizes the upload without asking the model
func (s *Service) Preview(file *models.UploadedFile) models.DisplayState {
	normalized, err := s.normalizer.Normalize(file)
	return Present(normalized, nil, err)
}
