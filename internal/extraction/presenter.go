package extraction

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/lehigh-university-libraries/invoicer/internal/models"
	"github.com/lehigh-university-libraries/invoicer/internal/providers"
)

// MissingInputWarning is shown when the file or the question is absent.
const MissingInputWarning = "Please upload a file and enter a prompt to ask."

// Error kinds reported in models.DisplayState
const (
	KindFile             = "file"
	KindModelUnavailable = "model_unavailable"
	KindModelRequest     = "model_request"
	KindInvalidResponse  = "invalid_response"
	KindInternal         = "internal"
)

// Present renders the outcome of a submission. normalized may be nil.
func Present(normalized *Normalized, resp *models.ModelResponse, err error) models.DisplayState {
	state := models.DisplayState{}
	if normalized != nil {
		state.Status = normalized.Status
		state.Images = previews(normalized.Images)
	}

	if err == nil {
		if resp != nil {
			state.Answer = resp.Text
		}
		return state
	}

	var (
		missing     *MissingInputError
		emptyQ      *EmptyQuestionError
		decodeErr   *DecodeError
		noImages    *NoImagesError
		unavailable *providers.ModelUnavailableError
		rejected    *providers.ModelRequestError
		invalid     *providers.InvalidResponseError
	)

	switch {
	case errors.As(err, &missing), errors.As(err, &emptyQ):
		state.Warning = MissingInputWarning
	case errors.As(err, &decodeErr), errors.As(err, &noImages):
		state.ErrorKind = KindFile
		state.Error = "Could not read the uploaded file: " + err.Error()
	case errors.As(err, &unavailable):
		state.ErrorKind = KindModelUnavailable
		state.Error = "Could not reach the model: " + err.Error()
	case errors.As(err, &rejected):
		state.ErrorKind = KindModelRequest
		state.Error = "The model rejected the request: " + err.Error()
	case errors.As(err, &invalid):
		state.ErrorKind = KindInvalidResponse
		state.Error = "The model returned an invalid response: " + err.Error()
	default:
		state.ErrorKind = KindInternal
		state.Error = "Something went wrong: " + err.Error()
	}

	return state
}

func previews(images []models.ImagePayload) []models.DisplayImage {
	if len(images) == 0 {
		return nil
	}
	out := make([]models.DisplayImage, 0, len(images))
	for _, img := range images {
		caption := "Uploaded Image"
		if img.Page > 0 {
			caption = fmt.Sprintf("Page %d Image from PDF", img.Page)
		}
		out = append(out, models.DisplayImage{
			Caption: caption,
			URL:     "data:" + img.MediaType + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
			Width:   img.Width,
			Height:  img.Height,
		})
	}
	return out
}
