package extraction

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/lehigh-university-libraries/invoicer/internal/models"
)

// Document is an opened PDF.
type Document interface {
	NumPage() int
	// RenderPNG rasterizes the zero-based page to a PNG.
	RenderPNG(page int) ([]byte, error)
	// Close releases the document and any temporary storage behind it.
	Close() error
}

// DocumentOpener opens PDF bytes as a Document.
type DocumentOpener interface {
	Open(data []byte) (Document, error)
}

// Normalized is the normalizer's output
type Normalized struct {
	Images []models.ImagePayload
	Status string
}

// Normalizer turns an upload into the images sent to the model
type Normalizer struct {
	opener DocumentOpener
}

// NewNormalizer creates a normalizer that rasterizes PDFs with opener
func NewNormalizer(opener DocumentOpener) *Normalizer {
	return &Normalizer{opener: opener}
}

// Normalize converts the upload into one payload per image, or per PDF page up to models.PageLimit
func (n *Normalizer) Normalize(file *models.UploadedFile) (*Normalized, error) {
	if file == nil {
		return nil, &MissingInputError{MissingFile: true}
	}

	switch file.MediaType {
	case models.MediaTypeJPEG, models.MediaTypePNG:
		return n.normalizeImage(file)
	case models.MediaTypePDF:
		return n.normalizePDF(file)
	default:
		return nil, &DecodeError{Filename: file.Filename, MediaType: file.MediaType, Err: ErrUnsupportedMediaType}
	}
}

func (n *Normalizer) normalizeImage(file *models.UploadedFile) (*Normalized, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(file.Data))
	if err != nil {
		return nil, &DecodeError{Filename: file.Filename, MediaType: file.MediaType, Err: err}
	}
	if "image/"+format != file.MediaType {
		return nil, &DecodeError{
			Filename:  file.Filename,
			MediaType: file.MediaType,
			Err:       fmt.Errorf("content is %s, not %s", format, file.MediaType),
		}
	}

	return &Normalized{
		Images: []models.ImagePayload{{
			MediaType: file.MediaType,
			Data:      file.Data,
			Width:     cfg.Width,
			Height:    cfg.Height,
		}},
		Status: "Image content displayed.",
	}, nil
}

func (n *Normalizer) normalizePDF(file *models.UploadedFile) (*Normalized, error) {
	if n.opener == nil {
		return nil, &DecodeError{Filename: file.Filename, MediaType: file.MediaType, Err: errors.New("no PDF renderer configured")}
	}

	doc, err := n.opener.Open(file.Data)
	if err != nil {
		return nil, &DecodeError{Filename: file.Filename, MediaType: file.MediaType, Err: err}
	}
	defer func() {
		if err := doc.Close(); err != nil {
			slog.Warn("Failed to close PDF document", "filename", file.Filename, "err", err)
		}
	}()

	total := doc.NumPage()
	if total <= 0 {
		return nil, &DecodeError{Filename: file.Filename, MediaType: file.MediaType, Err: errors.New("document has no pages")}
	}
	pages := min(models.PageLimit, total)

	images := make([]models.ImagePayload, 0, pages)
	for i := 0; i < pages; i++ {
		data, err := doc.RenderPNG(i)
		if err != nil {
			return nil, &DecodeError{Filename: file.Filename, MediaType: file.MediaType, Err: fmt.Errorf("failed to render page %d: %w", i+1, err)}
		}

		payload := models.ImagePayload{MediaType: models.MediaTypePNG, Data: data, Page: i + 1}
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			payload.Width, payload.Height = cfg.Width, cfg.Height
		}
		images = append(images, payload)
	}

	slog.Debug("Rasterized PDF", "filename", file.Filename, "total_pages", total, "rendered", pages)

	return &Normalized{
		Images: images,
		Status: fmt.Sprintf("Displayed %d page(s) from the PDF.", pages),
	}, nil
}
