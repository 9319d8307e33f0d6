package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpHandler "hashlock-escrow/internal/adapter/http/handler"
)

// runServe exposes the read-only status API until interrupted. All write
// operations stay on the CLI and the server never surfaces a secret.
func runServe(a *app) error {
	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		a.log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		a.log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		VaultSvc:       a.vault,
		ProtocolSvc:    a.protocol,
		HealthCheckers: a.health,
		Logger:         a.log,
	})

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", addr).Msg("status API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("status API failed: %w", err)
	case <-quit:
	}
	a.log.Info().Msg("shutting down status API")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("status API forced to shut down: %w", err)
	}

	a.log.Info().Msg("status API exited")
	return nil
}
