package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	httpadapter "github.com/aretw0/rentdesk/pkg/adapters/http"
)

const shutdownTimeout = 5 * time.Second

// NewHTTPHandler builds the HTTP surface of the environment.
func NewHTTPHandler(env *Environment) http.Handler {
	return httpadapter.NewHandler(env.Desk,
		httpadapter.WithLogger(env.Logger),
		httpadapter.WithStreams(env.Streams),
		httpadapter.WithMetrics(env.Metrics.Handler()),
	)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, env *Environment, addr string, out io.Writer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewHTTPHandler(env),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		printSystemMessage(out, "Starting rentdesk server on %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		env.Logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			env.Logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
		}
		printSystemMessage(out, "rentdesk server stopped")
		return nil
	}
}
