// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/go-core-stack/creator-data-proxy/pkg/config"
	"github.com/go-core-stack/creator-data-proxy/pkg/httpshell"
	"github.com/go-core-stack/creator-data-proxy/pkg/mcpshell"
	"github.com/go-core-stack/creator-data-proxy/pkg/ops"
	"github.com/go-core-stack/creator-data-proxy/pkg/upstream"
)

const version = "0.1.0"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("log_level", cfg.LogLevel).Msg("invalid log level")
	}
	log.Logger = log.Level(level)

	dispatcher := ops.NewDispatcher(upstream.New(cfg))

	switch cfg.Transport {
	case config.TransportStdio:
		runStdio(cfg, dispatcher)
	case config.TransportHTTP:
		runHTTP(cfg, dispatcher)
	}
}

// runStdio serves MCP tool calls on stdin/stdout. Logs go to stderr so the
// protocol stream stays clean.
func runStdio(cfg config.Config, dispatcher *ops.Dispatcher) {
	shell := mcpshell.New(dispatcher, log.With().Str("component", "mcp").Logger(), version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("upstream", cfg.BaseURL).
		Msg("starting creator-data proxy (stdio)")

	if err := shell.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("mcp server exited unexpectedly")
	}

	log.Info().Msg("proxy stopped")
}

// runHTTP serves the REST routes until a shutdown signal arrives.
func runHTTP(cfg config.Config, dispatcher *ops.Dispatcher) {
	handler := httpshell.New(dispatcher, log.With().Str("component", "http").Logger())

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	go func() {
		log.Info().
			Str("listen_addr", cfg.ListenAddr).
			Str("upstream", cfg.BaseURL).
			Msg("starting creator-data proxy (http)")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server exited unexpectedly")
		}
	}()

	waitForShutdown(context.Background(), server, cfg.GracefulShutdownTimeout)
}

func waitForShutdown(ctx context.Context, srv *http.Server, timeout time.Duration) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	log.Info().Msg("shutting down creator-data proxy")

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed; forcing close")
		if closeErr := srv.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("forced close failed")
		}
	}

	log.Info().Msg("proxy stopped")
}
