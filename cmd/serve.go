package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/invoicer/internal/handlers"
	"github.com/spf13/cobra"
)

func newServeCmd(load configLoader) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the invoice question web interface",
		Long: `Starts the Invoicer web interface on the specified port.

The web interface lets you upload an invoice image or PDF, type a question
and read the model's answer below the rendered pages.`,
		Example: `  # Start server on default port 8888
  invoicer serve

  # Start server on custom port with Ollama
  INVOICER_PROVIDER=ollama invoicer serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			service, err := newService(cfg)
			if err != nil {
				return err
			}

			handler := handlers.New(service, handlers.Options{
				MaxUploadBytes: cfg.MaxUploadBytes,
				RequestTimeout: cfg.RequestTimeout,
			})

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Invoicer interface available", "addr", addr, "url", "http://localhost"+addr, "provider", cfg.Provider)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
