package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"geosales/internal/cli"
	apphttp "geosales/internal/http"
	"geosales/internal/middleware/ratelimit"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	be := cli.InitBackend(context.Background(), logger, cfg)

	rep, err := cli.NewReporting(cfg, be.Backend, logger)
	if err != nil {
		logger.Error("Failed to initialize reporting", "error", err)
		_ = be.Close()
		os.Exit(1)
	}

	opts := apphttp.DefaultOptions()
	opts.Logger = logger
	opts.RateLimit = ratelimit.Config{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, rep.Service, rep.Renderer, be.Backend, opts)
	if err != nil {
		logger.Error("Failed to initialize HTTP server", "error", err)
		_ = be.Close()
		os.Exit(1)
	}

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := be.Close(); err != nil {
			logger.Error("Backend close error", "error", err)
		}
	})

	logger.Info("Starting geosales server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		_ = be.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)

	requests, limited, detected := srv.Metrics()
	logger.Info("Server stopped gracefully",
		"requests", requests.TotalRequests,
		"rate_limit_hits", limited.TotalHits,
		"suspicious", detected.SuspiciousRequests)
}
