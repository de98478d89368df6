// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/geosales, cmd/geosales-worker, cmd/geosales-report and cmd/geosales-publish.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"geosales/internal/backend"
	"geosales/internal/config"
	"geosales/internal/countries"
	"geosales/internal/export"
	applog "geosales/internal/log"
	"geosales/internal/render"
	"geosales/internal/report"
	gsheet "geosales/internal/sheets/google"
)

// SetupLogger initializes structured logging at the given level.
// Returns the configured logger and sets it as the default logger.
func SetupLogger(level string) *applog.Logger {
	lvl, err := applog.ParseLevel(level)
	logger := applog.New(applog.Config{Level: lvl, Component: applog.ComponentApp, Output: os.Stdout})
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", level)
	}
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitBackend opens the order store selected by cfg.
// Returns the backend or exits the process on failure.
func InitBackend(ctx context.Context, logger *applog.Logger, cfg *config.Config) *backend.BackendResult {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return res
}

// Reporting bundles what every binary needs to produce a report.
type Reporting struct {
	Directory countries.Directory
	Service   *report.Service
	Renderer  *render.Renderer
}

// NewReporting wires the country directory, the report service and the
// renderer configured by cfg on top of agg.
func NewReporting(cfg *config.Config, agg report.Aggregator, logger *applog.Logger) (*Reporting, error) {
	var dir countries.Directory = countries.Default()
	if cfg.CountriesFile != "" {
		loaded, err := countries.LoadFile(cfg.CountriesFile)
		if err != nil {
			return nil, err
		}
		dir = loaded
	}

	format, err := render.NewFormatter(render.FormatConfig{
		Currency: cfg.Currency,
		Symbol:   cfg.CurrencySymbol,
		Locale:   cfg.Locale,
	})
	if err != nil {
		return nil, fmt.Errorf("report formatting: %w", err)
	}

	return &Reporting{
		Directory: dir,
		Service:   report.NewService(agg, dir, logger.WithComponent(applog.ComponentReport).Logger),
		Renderer:  render.NewRenderer(format, dir),
	}, nil
}

// NewExporter returns a Google Sheets exporter, or nil when no spreadsheet
// is configured.
func NewExporter(ctx context.Context, cfg *config.Config, rep *Reporting, logger *applog.Logger) (*export.Exporter, error) {
	if !cfg.ExportEnabled() {
		return nil, nil
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("google sheets client: %w", err)
	}
	return export.NewExporter(rep.Service, rep.Directory, client, cfg.GoogleSheetName, logger), nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		cancel()
		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
