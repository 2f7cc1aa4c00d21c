package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/lehigh-university-libraries/invoicer/internal/config"
	"github.com/lehigh-university-libraries/invoicer/internal/models"
	"github.com/lehigh-university-libraries/invoicer/internal/upload"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// errSubmissionFailed is returned after the failure was already printed
var errSubmissionFailed = errors.New("submission failed")

func newAskCmd(load configLoader) *cobra.Command {
	var (
		file     string
		question string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Ask one question about one invoice",
		Example: `  # Ask about a local PDF
  invoicer ask --file invoice.pdf --question "What is the invoice number?"

  # Ask about a remote image and print YAML
  invoicer ask --file https://example.com/invoice.png --question "Total amount?" --output yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "yaml" {
				return fmt.Errorf("invalid output format: %s", output)
			}

			cfg, err := load()
			if err != nil {
				return err
			}

			service, err := newService(cfg)
			if err != nil {
				return err
			}

			uploaded, err := readInvoice(cmd.Context(), cfg, file)
			if err != nil {
				return err
			}

			state := service.HandleSubmit(cmd.Context(), uploaded, question)
			if err := printState(cmd.OutOrStdout(), state, output); err != nil {
				return err
			}
			if state.Failed() {
				return errSubmissionFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Invoice path or URL (.jpg, .jpeg, .png, .pdf)")
	cmd.Flags().StringVarP(&question, "question", "q", "", "Question to ask about the invoice")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, yaml)")

	return cmd
}

// readInvoice returns nil without error when no file was given so the missing input is reported like in the UI
func readInvoice(ctx context.Context, cfg config.Config, file string) (*models.UploadedFile, error) {
	if file == "" {
		return nil, nil
	}

	if upload.IsURL(file) {
		client := &http.Client{Timeout: cfg.RequestTimeout}
		uploaded, err := upload.FromURL(ctx, client, file, cfg.MaxUploadBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch invoice: %w", err)
		}
		return uploaded, nil
	}

	uploaded, err := upload.FromPath(file, cfg.MaxUploadBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice: %w", err)
	}
	return uploaded, nil
}

type askOutput struct {
	SubmissionID string `yaml:"submission_id"`
	Status       string `yaml:"status,omitempty"`
	Pages        int    `yaml:"pages"`
	Answer       string `yaml:"answer,omitempty"`
	Warning      string `yaml:"warning,omitempty"`
	ErrorKind    string `yaml:"error_kind,omitempty"`
	Error        string `yaml:"error,omitempty"`
}

func printState(w io.Writer, state models.DisplayState, format string) error {
	if format == "yaml" {
		// previews are data URLs and too large to print
		data, err := yaml.Marshal(askOutput{
			SubmissionID: state.SubmissionID,
			Status:       state.Status,
			Pages:        len(state.Images),
			Answer:       state.Answer,
			Warning:      state.Warning,
			ErrorKind:    state.ErrorKind,
			Error:        state.Error,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	if state.Status != "" {
		fmt.Fprintln(w, state.Status)
	}
	switch {
	case state.Warning != "":
		fmt.Fprintln(w, state.Warning)
	case state.Error != "":
		fmt.Fprintf(w, "Error (%s): %s\n", state.ErrorKind, state.Error)
	default:
		fmt.Fprintln(w, "The Response is:")
		fmt.Fprintln(w, state.Answer)
	}
	return nil
}
