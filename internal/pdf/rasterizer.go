package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/lehigh-university-libraries/invoicer/internal/extraction"
)

// DefaultDPI matches MuPDF's default pixmap resolution.
const DefaultDPI = 72

// ErrNotPDF is returned for content without a PDF header.
var ErrNotPDF = errors.New("content is not a PDF")

// headerWindow is how far into the file a PDF header may start.
const headerWindow = 1024

// Opener renders PDFs with MuPDF. Each document is backed by a temporary file
// that lives until the document is closed.
type Opener struct {
	TempDir string
	DPI     float64
}

// NewOpener creates an opener rendering at dpi, writing temporary files to the OS temp dir
func NewOpener(dpi float64) *Opener {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Opener{DPI: dpi}
}

// Open writes data to a temporary file and opens it with MuPDF
func (o *Opener) Open(data []byte) (extraction.Document, error) {
	if !bytes.Contains(data[:min(len(data), headerWindow)], []byte("%PDF-")) {
		return nil, ErrNotPDF
	}

	tmp, err := os.CreateTemp(o.TempDir, "invoice-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		removeTemp(path)
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		removeTemp(path)
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	doc, err := fitz.New(path)
	if err != nil {
		removeTemp(path)
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	dpi := o.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &document{doc: doc, path: path, dpi: dpi}, nil
}

type document struct {
	doc  *fitz.Document
	path string
	dpi  float64

	closeOnce sync.Once
	closeErr  error
}

func (d *document) NumPage() int {
	return d.doc.NumPage()
}

func (d *document) RenderPNG(page int) ([]byte, error) {
	return d.doc.ImagePNG(page, d.dpi)
}

func (d *document) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.doc.Close()
		removeTemp(d.path)
	})
	return d.closeErr
}

func removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to remove temp file", "path", path, "err", err)
	}
}
