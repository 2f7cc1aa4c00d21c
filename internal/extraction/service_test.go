package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/lehigh-university-libraries/invoicer/internal/models"
	"github.com/lehigh-university-libraries/invoicer/internal/providers"
)

func TestHandleSubmitTwoPagePDF(t *testing.T) {
	doc := &fakeDocument{pages: 2, failPage: -1}
	provider := &fakeProvider{text: "The invoice number is INV-0042."}
	svc := NewService(NewNormalizer(&fakeOpener{doc: doc}), provider)

	file := &models.UploadedFile{Filename: "invoice.pdf", MediaType: models.MediaTypePDF, Data: []byte("%PDF-1.7")}
	state := svc.HandleSubmit(context.Background(), file, "What is the invoice number?")

	if state.Status != "Displayed 2 page(s) from the PDF." {
		t.Errorf("Unexpected status %q", state.Status)
	}
	if len(state.Images) != 2 {
		t.Errorf("Expected 2 previews, got %d", len(state.Images))
	}
	if len(provider.calls) != 1 {
		t.Fatalf("Expected exactly one model call, got %d", len(provider.calls))
	}
	req := provider.calls[0]
	if len(req.Images) != 2 || req.Question != "What is the invoice number?" || req.SystemPrompt != SystemPrompt {
		t.Errorf("Unexpected model request: %+v", req)
	}
	if state.Answer != "The invoice number is INV-0042." {
		t.Errorf("Expected model text verbatim, got %q", state.Answer)
	}
	if state.SubmissionID == "" {
		t.Errorf("Expected a submission id")
	}
}

func TestHandleSubmitMissingFile(t *testing.T) {
	opener := &fakeOpener{doc: &fakeDocument{pages: 1, failPage: -1}}
	provider := &fakeProvider{text: "unused"}
	svc := NewService(NewNormalizer(opener), provider)

	state := svc.HandleSubmit(context.Background(), nil, "Total?")

	if state.Warning != MissingInputWarning {
		t.Errorf("Expected missing input warning, got %+v", state)
	}
	if len(provider.calls) != 0 || opener.opened != 0 {
		t.Errorf("Expected pipeline to short-circuit, got %d model calls and %d opens", len(provider.calls), opener.opened)
	}
}

func TestHandleSubmitMissingQuestion(t *testing.T) {
	provider := &fakeProvider{text: "unused"}
	svc := NewService(NewNormalizer(nil), provider)

	for _, q := range []string{"", "   ", "\n\t"} {
		state := svc.HandleSubmit(context.Background(), &models.UploadedFile{MediaType: models.MediaTypePNG, Data: pngBytes(t, 1, 1)}, q)
		if state.Warning != MissingInputWarning {
			t.Errorf("Expected missing input warning for %q, got %+v", q, state)
		}
	}
	if len(provider.calls) != 0 {
		t.Errorf("Expected no model calls, got %d", len(provider.calls))
	}
}

func TestHandleSubmitCorruptPDF(t *testing.T) {
	provider := &fakeProvider{text: "unused"}
	svc := NewService(NewNormalizer(&fakeOpener{err: errors.New("cannot open document")}), provider)

	state := svc.HandleSubmit(context.Background(), &models.UploadedFile{MediaType: models.MediaTypePDF, Data: []byte("garbage")}, "Total?")

	if state.ErrorKind != KindFile {
		t.Errorf("Expected file error, got %+v", state)
	}
	if len(provider.calls) != 0 {
		t.Errorf("Expected no model calls, got %d", len(provider.calls))
	}
}

func TestHandleSubmitModelFailure(t *testing.T) {
	provider := &fakeProvider{err: &providers.ModelUnavailableError{Provider: "fake", Err: errors.New("timeout")}}
	svc := NewService(NewNormalizer(nil), provider)

	state := svc.HandleSubmit(context.Background(), &models.UploadedFile{MediaType: models.MediaTypeJPEG, Data: jpegBytes(t, 2, 2)}, "Total?")

	if state.ErrorKind != KindModelUnavailable {
		t.Errorf("Expected model_unavailable, got %+v", state)
	}
	if state.Status != "Image content displayed." || len(state.Images) != 1 {
		t.Errorf("Expected preview to survive model failure, got %+v", state)
	}
	if len(provider.calls) != 1 {
		t.Errorf("Expected no retries, got %d calls", len(provider.calls))
	}
}

func TestHandleSubmitFreshSubmissionIDs(t *testing.T) {
	svc := NewService(NewNormalizer(nil), &fakeProvider{})
	a := svc.HandleSubmit(context.Background(), nil, "")
	b := svc.HandleSubmit(context.Background(), nil, "")
	if a.SubmissionID == b.SubmissionID {
		t.Errorf("Expected distinct submission ids, got %s twice", a.SubmissionID)
	}
}

func TestPreview(t *testing.T) {
	svc := NewService(NewNormalizer(&fakeOpener{doc: &fakeDocument{pages: 12, failPage: -1}}), &fakeProvider{})
	state := svc.Preview(&models.UploadedFile{MediaType: models.MediaTypePDF})
	if state.Status != "Displayed 10 page(s) from the PDF." || len(state.Images) != 10 {
		t.Errorf("Unexpected preview: %s with %d images", state.Status, len(state.Images))
	}
}
