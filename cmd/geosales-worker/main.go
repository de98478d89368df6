package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"geosales/internal/amqp"
	"geosales/internal/backend"
	"geosales/internal/cli"
	"geosales/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting geosales-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.DataBackend == string(backend.MemoryBackend) {
		logger.Warn("Memory backend selected, ingested orders are not shared with the server")
	}

	be := cli.InitBackend(context.Background(), logger, cfg)
	defer be.Close()

	rep, err := cli.NewReporting(cfg, be.Backend, logger)
	if err != nil {
		logger.Error("Failed to initialize reporting", "error", err)
		os.Exit(1)
	}

	exporter, err := cli.NewExporter(context.Background(), cfg, rep, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets export", "error", err)
		os.Exit(1)
	}
	if exporter == nil {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	orders := worker.NewOrderWorker(be.Backend, rep.Directory, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeOrderEvents(gctx, orders.HandleOrderEvent)
	})
	if exporter != nil {
		g.Go(func() error {
			return exporter.Run(gctx, cfg.ExportInterval)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)

	stats := orders.Stats()
	logger.Info("Worker shutdown complete",
		"ingested", stats.Ingested,
		"rejected", stats.Rejected,
		"failed", stats.Failed)
}
