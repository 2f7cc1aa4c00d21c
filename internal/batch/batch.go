package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/lehigh-university-libraries/invoicer/internal/models"
	"github.com/lehigh-university-libraries/invoicer/internal/upload"
)

// Submitter answers one question about one file
type Submitter interface {
	HandleSubmit(ctx context.Context, file *models.UploadedFile, question string) models.DisplayState
}

// Result is one row of a batch run
type Result struct {
	File         string `parquet:"file" yaml:"file"`
	SubmissionID string `parquet:"submission_id" yaml:"submission_id"`
	Pages        int32  `parquet:"pages" yaml:"pages"`
	Status       string `parquet:"status" yaml:"status,omitempty"`
	Answer       string `parquet:"answer" yaml:"answer,omitempty"`
	ErrorKind    string `parquet:"error_kind" yaml:"error_kind,omitempty"`
	Error        string `parquet:"error" yaml:"error,omitempty"`
	DurationMS   int64  `parquet:"duration_ms" yaml:"duration_ms"`
}

// Runner asks the same question about every invoice in a directory
type Runner struct {
	submitter Submitter
	maxBytes  int64
}

// NewRunner creates a runner reading files up to maxBytes
func NewRunner(submitter Submitter, maxBytes int64) *Runner {
	return &Runner{submitter: submitter, maxBytes: maxBytes}
}

// Files lists the supported invoices in dir, sorted by name
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !upload.SupportedExtension(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Run processes the files one at a time. It stops early only if ctx is cancelled.
func (r *Runner) Run(ctx context.Context, files []string, question string) ([]Result, error) {
	results := make([]Result, 0, len(files))

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		slog.Info("Processing invoice", "file", path, "index", i+1, "total", len(files))
		results = append(results, r.runOne(ctx, path, question))
	}

	return results, nil
}

func (r *Runner) runOne(ctx context.Context, path, question string) Result {
	start := time.Now()
	result := Result{File: filepath.Base(path)}

	file, err := upload.FromPath(path, r.maxBytes)
	if err != nil {
		slog.Warn("Failed to read invoice", "file", path, "err", err)
		result.ErrorKind = "file"
		result.Error = err.Error()
		result.DurationMS = time.Since(start).Milliseconds()
		return result
	}

	state := r.submitter.HandleSubmit(ctx, file, question)
	result.SubmissionID = state.SubmissionID
	result.Pages = int32(len(state.Images))
	result.Status = state.Status
	result.Answer = state.Answer
	result.ErrorKind = state.ErrorKind
	result.Error = state.Error
	if state.Warning != "" {
		result.Error = state.Warning
	}
	result.DurationMS = time.Since(start).Milliseconds()
	return result
}

// Summary counts successes and failures
func Summary(results []Result) (succeeded, failed int) {
	for _, r := range results {
		if r.Error != "" {
			failed++
		} else {
			succeeded++
		}
	}
	return succeeded, failed
}
