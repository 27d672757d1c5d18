package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/triage-ai/palisade/services/tool_audit/internal/analyser"
	"github.com/triage-ai/palisade/services/tool_audit/internal/auth"
	"github.com/triage-ai/palisade/services/tool_audit/internal/clierr"
	"github.com/triage-ai/palisade/services/tool_audit/internal/provider"
	"github.com/triage-ai/palisade/services/tool_audit/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis HTTP API",
	RunE:  runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :8090)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}

	logger := mustBuildLogger(cfg.LogLevel, "stdout")
	defer logger.Sync() //nolint:errcheck // best-effort flush

	deps := &server.Dependencies{
		Analyser: analyser.New(logger),
		Logger:   logger,
	}

	// Auth and registry: Postgres if DSN provided, otherwise static auth and no registry
	if cfg.Server.PostgresDSN != "" {
		db, err := openPostgres(cmd.Context(), cfg.Server.PostgresDSN)
		if err != nil {
			return clierr.NewConfigError(
				"Cannot connect to Postgres",
				err.Error(),
				"Check TOOL_AUDIT_POSTGRES_DSN or unset it to run with the static authenticator",
				err,
			)
		}
		defer func() { _ = db.Close() }()

		deps.Auth = auth.NewPostgresAuthenticator(auth.PostgresAuthConfig{
			DB:       db,
			CacheTTL: cfg.Server.AuthCacheTTL,
			FailOpen: cfg.Server.FailOpen,
			Logger:   logger,
		})
		deps.Registry = provider.NewPostgresRegistry(provider.PostgresRegistryConfig{
			DB:       db,
			CacheTTL: cfg.Provider.CacheTTL,
			Logger:   logger,
		})
		logger.Info("postgres authenticator and tool registry connected")
	} else {
		deps.Auth = auth.NewStaticAuthenticator()
		logger.Info("using static authenticator (no POSTGRES_DSN), registry disabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("tool audit server listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("version", version),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return clierr.NewConfigError("HTTP server failed", err.Error(), "Check that --addr is free", err)
	}
	<-done
	return nil
}
