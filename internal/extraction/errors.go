package extraction

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMediaType is wrapped in a DecodeError for uploads that are neither an image nor a PDF.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// MissingInputError is returned when a submission lacks a file or a question.
type MissingInputError struct {
	MissingFile     bool
	MissingQuestion bool
}

func (e *MissingInputError) Error() string {
	switch {
	case e.MissingFile && e.MissingQuestion:
		return "no file uploaded and no question entered"
	case e.MissingQuestion:
		return "no question entered"
	default:
		return "no file uploaded"
	}
}

// DecodeError is returned when the uploaded file cannot be read as an image or PDF.
type DecodeError struct {
	Filename  string
	MediaType string
	Err       error
}

func (e *DecodeError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("failed to decode %s (%s): %v", e.Filename, e.MediaType, e.Err)
	}
	return fmt.Sprintf("failed to decode %s: %v", e.MediaType, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EmptyQuestionError is returned by Assemble for a blank question.
type EmptyQuestionError struct{}

func (e *EmptyQuestionError) Error() string { return "question is empty" }

// NoImagesError is returned by Assemble when there is nothing to show the model.
type NoImagesError struct{}

func (e *NoImagesError) Error() string { return "no images to send" }
