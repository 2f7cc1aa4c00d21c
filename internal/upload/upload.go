package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/invoicer/internal/models"
)

// ErrTooLarge is returned when the upload exceeds the configured limit.
var ErrTooLarge = errors.New("file too large")

var extensionTypes = map[string]string{
	".jpg":  models.MediaTypeJPEG,
	".jpeg": models.MediaTypeJPEG,
	".png":  models.MediaTypePNG,
	".pdf":  models.MediaTypePDF,
}

// SupportedExtension reports whether the file picker accepts name
func SupportedExtension(name string) bool {
	_, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]
	return ok
}

// FromMultipart reads the uploaded file from the "files" or "file" form field.
// A request without a file, including a non-multipart form, yields a nil file and no error.
func FromMultipart(r *http.Request, maxBytes int64) (*models.UploadedFile, error) {
	file, header, err := r.FormFile("files")
	if errors.Is(err, http.ErrMissingFile) {
		file, header, err = r.FormFile("file")
	}
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	data, err := readLimited(file, maxBytes)
	if err != nil {
		return nil, err
	}

	return &models.UploadedFile{
		Filename:  header.Filename,
		MediaType: DetectMediaType(header.Header.Get("Content-Type"), header.Filename, data),
		Data:      data,
	}, nil
}

// FromPath reads a local file
func FromPath(filePath string, maxBytes int64) (*models.UploadedFile, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	data, err := readLimited(f, maxBytes)
	if err != nil {
		return nil, err
	}

	return &models.UploadedFile{
		Filename:  filepath.Base(filePath),
		MediaType: DetectMediaType("", filePath, data),
		Data:      data,
	}, nil
}

// FromURL downloads a file over HTTP
func FromURL(ctx context.Context, client *http.Client, fileURL string, maxBytes int64) (*models.UploadedFile, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: HTTP %d", resp.StatusCode)
	}

	data, err := readLimited(resp.Body, maxBytes)
	if err != nil {
		return nil, err
	}

	filename := "invoice"
	if u, err := url.Parse(fileURL); err == nil {
		if base := path.Base(u.Path); base != "/" && base != "." {
			filename = base
		}
	}

	return &models.UploadedFile{
		Filename:  filename,
		MediaType: DetectMediaType(resp.Header.Get("Content-Type"), filename, data),
		Data:      data,
	}, nil
}

// IsURL reports whether s looks like an http(s) URL rather than a path
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// DetectMediaType picks the declared type when it is one we accept, then the
// file extension, then sniffs the content.
func DetectMediaType(declared, filename string, data []byte) string {
	if mt := canonical(declared); mt != "" {
		return mt
	}
	if mt, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return mt
	}
	if len(data) > 0 {
		if mt := canonical(http.DetectContentType(data)); mt != "" {
			return mt
		}
	}
	return "application/octet-stream"
}

func canonical(mediaType string) string {
	if mediaType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return ""
	}
	switch mt {
	case "image/jpg", "image/pjpeg":
		return models.MediaTypeJPEG
	case models.MediaTypeJPEG, models.MediaTypePNG, models.MediaTypePDF:
		return mt
	default:
		return ""
	}
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w (max %d bytes)", ErrTooLarge, maxBytes)
	}
	return data, nil
}
