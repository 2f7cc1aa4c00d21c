package batch

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// RunConfig describes a batch run in the YAML report
type RunConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	Question  string `yaml:"question"`
	Directory string `yaml:"directory"`
	Timestamp string `yaml:"timestamp"`
}

// Report is the YAML document written after a run
type Report struct {
	Config    RunConfig `yaml:"config"`
	Succeeded int       `yaml:"succeeded"`
	Failed    int       `yaml:"failed"`
	Results   []Result  `yaml:"results"`
}

// WriteParquet writes results to path
func WriteParquet(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}

	w := parquet.NewGenericWriter[Result](f)
	if _, err := w.Write(results); err != nil {
		f.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close parquet file: %w", err)
	}

	slog.Debug("Wrote parquet results", "path", path, "rows", len(results))
	return nil
}

// ReadParquet loads results written by WriteParquet
func ReadParquet(path string) ([]Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Result](pf)
	defer reader.Close()

	var results []Result
	rows := make([]Result, 128)
	for {
		n, err := reader.Read(rows)
		results = append(results, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return results, nil
}

// WriteYAML writes a report of the run to path
func WriteYAML(path string, cfg RunConfig, results []Result) error {
	if cfg.Timestamp == "" {
		cfg.Timestamp = time.Now().Format("2006-01-02_15-04-05")
	}
	succeeded, failed := Summary(results)

	data, err := yaml.Marshal(&Report{
		Config:    cfg,
		Succeeded: succeeded,
		Failed:    failed,
		Results:   results,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}
