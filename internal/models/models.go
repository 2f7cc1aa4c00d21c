package models

// PageLimit is the maximum number of PDF pages rasterized per upload.
const PageLimit = 10

// Supported upload media types
const (
	MediaTypeJPEG = "image/jpeg"
	MediaTypePNG  = "image/png"
	MediaTypePDF  = "application/pdf"
)

// UploadedFile is the raw content submitted by the user
type UploadedFile struct {
	Filename  string
	MediaType string
	Data      []byte
}

// ImagePayload is a single image handed to the model
type ImagePayload struct {
	MediaType string
	Data      []byte
	Width     int
	Height    int
	Page      int // 1-based PDF page, 0 for plain images
}

// ModelRequest is everything the model receives for one submission
type ModelRequest struct {
	SystemPrompt string
	Images       []ImagePayload
	Question     string
}

// ModelResponse is the model's reply
type ModelResponse struct {
	Text string
}

// DisplayImage is an image preview rendered back to the user
type DisplayImage struct {
	Caption string `json:"caption"`
	URL     string `json:"url"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// DisplayState is what the UI shows after a submission
type DisplayState struct {
	SubmissionID string         `json:"submission_id,omitempty"`
	Status       string         `json:"status,omitempty"`
	Images       []DisplayImage `json:"images,omitempty"`
	Answer       string         `json:"answer,omitempty"`
	Warning      string         `json:"warning,omitempty"`
	Error        string         `json:"error,omitempty"`
	ErrorKind    string         `json:"error_kind,omitempty"`
}

// Failed reports whether the state carries a warning or an error
func (d DisplayState) Failed() bool {
	return d.Warning != "" || d.Error != ""
}
