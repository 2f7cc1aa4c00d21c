package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/invoicer/internal/batch"
	"github.com/spf13/cobra"
)

func newBatchCmd(load configLoader) *cobra.Command {
	var (
		dir        string
		question   string
		outputPath string
		yamlPath   string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Ask the same question about every invoice in a directory",
		Long: `Runs one question over every .jpg, .jpeg, .png and .pdf file in a directory,
one file at a time, and writes a row per file to a Parquet file. A YAML report
with the run configuration and a success summary can be written as well.`,
		Example: `  invoicer batch --dir ./invoices --question "What is the invoice number?"

  invoicer batch --dir ./invoices --question "Total?" --output totals.parquet --yaml totals.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				return fmt.Errorf("--dir is required")
			}
			if strings.TrimSpace(question) == "" {
				return fmt.Errorf("--question is required")
			}

			cfg, err := load()
			if err != nil {
				return err
			}

			service, err := newService(cfg)
			if err != nil {
				return err
			}

			files, err := batch.Files(dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no invoices found in %s", dir)
			}

			slog.Info("Starting batch run", "dir", dir, "files", len(files), "provider", cfg.Provider)
			results, runErr := batch.NewRunner(service, cfg.MaxUploadBytes).Run(cmd.Context(), files, question)

			// partial results are still written when the run is interrupted
			if err := batch.WriteParquet(outputPath, results); err != nil {
				return err
			}
			if yamlPath != "" {
				err := batch.WriteYAML(yamlPath, batch.RunConfig{
					Provider:  cfg.Provider,
					Model:     cfg.Model,
					Question:  question,
					Directory: dir,
				}, results)
				if err != nil {
					return err
				}
			}

			succeeded, failed := batch.Summary(results)
			slog.Info("Batch run complete", "succeeded", succeeded, "failed", failed, "output", outputPath)
			return runErr
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory of invoices")
	cmd.Flags().StringVarP(&question, "question", "q", "", "Question to ask about each invoice")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "results.parquet", "Parquet output path")
	cmd.Flags().StringVar(&yamlPath, "yaml", "", "Optional YAML report path")

	return cmd
}
