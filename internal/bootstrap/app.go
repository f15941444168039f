package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mstolarz/astro-advisor/internal/infra/config"
)

// shutdownGrace bounds how long in-flight report generations may finish
// after a stop signal; LLM calls can run tens of seconds.
const shutdownGrace = 30 * time.Second

// App owns the single HTTP listener this service exposes.
type App struct {
	logger *slog.Logger
	server *http.Server
}

// NewApp builds the runnable app around the assembled router. Used by Wire.
func NewApp(cfg *config.Config, logger *slog.Logger, router http.Handler) *App {
	return &App{
		logger: logger.With("component", "bootstrap"),
		server: &http.Server{
			Addr:           cfg.HTTP.Address,
			Handler:        router,
			ReadTimeout:    cfg.HTTP.ReadTimeout,
			WriteTimeout:   cfg.HTTP.WriteTimeout,
			MaxHeaderBytes: 1 << 20,
		},
	}
}

// Run serves until ctx is cancelled or the listener fails, then drains
// in-flight requests.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", "address", a.server.Addr)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received", "grace", shutdownGrace.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
