package extraction

import (
	"errors"
	"testing"

	"github.com/lehigh-university-libraries/invoicer/internal/models"
)

func TestAssemble(t *testing.T) {
	images := []models.ImagePayload{
		{MediaType: models.MediaTypePNG, Data: []byte("1"), Page: 1},
		{MediaType: models.MediaTypePNG, Data: []byte("2"), Page: 2},
	}

	tests := []struct {
		name        string
		images      []models.ImagePayload
		question    string
		wantEmptyQ  bool
		wantNoImage bool
	}{
		{name: "valid", images: images, question: "What is the total?"},
		{name: "empty question", images: images, question: "", wantEmptyQ: true},
		{name: "whitespace question", images: images, question: "   ", wantEmptyQ: true},
		{name: "no images", images: nil, question: "What is the total?", wantNoImage: true},
		{name: "no images and no question", images: []models.ImagePayload{}, question: "", wantNoImage: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Assemble(SystemPrompt, tt.images, tt.question)

			var emptyQ *EmptyQuestionError
			var noImages *NoImagesError
			switch {
			case tt.wantEmptyQ:
				if !errors.As(err, &emptyQ) {
					t.Errorf("Expected EmptyQuestionError, got %v", err)
				}
			case tt.wantNoImage:
				if !errors.As(err, &noImages) {
					t.Errorf("Expected NoImagesError, got %v", err)
				}
			default:
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				if req.SystemPrompt != SystemPrompt || req.Question != tt.question {
					t.Errorf("Unexpected request: %+v", req)
				}
				if len(req.Images) != 2 || req.Images[0].Page != 1 || req.Images[1].Page != 2 {
					t.Errorf("Images changed or reordered: %+v", req.Images)
				}
			}
		})
	}
}
