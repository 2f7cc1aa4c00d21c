package extraction

import (
	"strings"

	"github.com/lehigh-university-libraries/invoicer/internal/models"
)

// Assemble builds the model request. Images are passed through untouched and in order.
func Assemble(systemPrompt string, images []models.ImagePayload, question string) (models.ModelRequest, error) {
	if len(images) == 0 {
		return models.ModelRequest{}, &NoImagesError{}
	}
	if strings.TrimSpace(question) == "" {
		return models.ModelRequest{}, &EmptyQuestionError{}
	}

	return models.ModelRequest{
		SystemPrompt: systemPrompt,
		Images:       images,
		Question:     question,
	}, nil
}
