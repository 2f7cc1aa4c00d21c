package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/lehigh-university-libraries/invoicer/internal/models"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("Failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}

type fakeDocument struct {
	pages    int
	failPage int // zero-based page that fails to render, -1 for none
	rendered []int
	closed   bool
}

func (d *fakeDocument) NumPage() int { return d.pages }

func (d *fakeDocument) RenderPNG(page int) ([]byte, error) {
	if page == d.failPage {
		return nil, errors.New("render failed")
	}
	d.rendered = append(d.rendered, page)
	return []byte(fmt.Sprintf("page-%d", page)), nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

type fakeOpener struct {
	doc    *fakeDocument
	err    error
	opened int
}

func (o *fakeOpener) Open(data []byte) (Document, error) {
	o.opened++
	if o.err != nil {
		return nil, o.err
	}
	return o.doc, nil
}

type fakeProvider struct {
	text  string
	err   error
	calls []models.ModelRequest
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Answer(ctx context.Context, req models.ModelRequest) (models.ModelResponse, error) {
	p.calls = append(p.calls, req)
	if p.err != nil {
		return models.ModelResponse{}, p.err
	}
	return models.ModelResponse{Text: p.text}, nil
}
