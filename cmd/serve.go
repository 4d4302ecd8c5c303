package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/bookbrief/internal/handlers"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface and summary API",
		Long: `Starts the Bookbrief web interface and JSON API.

POST /api/summary accepts {"title", "style", "num"} and always answers with a
JSON body, including when the book is not found or generation fails.`,
		Example: `  # Start server on default port 8888
  bookbrief serve

  # Start server on custom port with OpenAI
  bookbrief serve --port 3000 --provider openai`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg

			service, closeFn, err := newService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			handler := handlers.New(service, cfg.Server.StaticDir)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/summary", handler.HandleSummary)
			mux.HandleFunc("/", handler.HandleStatic)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + cfg.Server.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Bookbrief interface available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// In-flight summaries are detached from client cancellation, so allow them time to finish
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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

	cmd.Flags().StringP("port", "p", "8888", "Port to listen on")
	cmd.Flags().String("static-dir", "static", "Directory served at /")
	bindFlags(opts.v, cmd, map[string]string{
		"server.port":       "port",
		"server.static_dir": "static-dir",
	})

	return cmd
}
