// Command geosales-publish reads orders from a CSV file and publishes one
// order.upserted event per order to the configured exchange.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"geosales/internal/amqp"
	"geosales/internal/cli"
	"geosales/internal/core"
	applog "geosales/internal/log"
	"geosales/internal/storage/memory"
)

// Publisher sends one order event.
type Publisher interface {
	PublishOrderEvent(ctx context.Context, msg *amqp.OrderEventMessage) error
}

func main() {
	file := flag.String("file", "-", "orders CSV (id,status,shipping_country,total,created_at); - reads stdin")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall timeout")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	orders, err := readOrders(*file)
	if err != nil {
		logger.Error("Failed to read orders", "error", err, "file", *file)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	published, err := publish(ctx, client, orders, logger)
	logger.Info("Publishing finished", "published", published, "total", len(orders))
	if err != nil {
		logger.Error("Publishing stopped", "error", err)
		_ = client.Close()
		os.Exit(1)
	}
}

func readOrders(path string) ([]core.Order, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return memory.ReadOrders(r)
}

// publish sends orders in file order and stops at the first failure.
// It returns how many were published.
func publish(ctx context.Context, p Publisher, orders []core.Order, logger *applog.Logger) (int, error) {
	for i, o := range orders {
		if err := p.PublishOrderEvent(ctx, amqp.NewOrderEventMessage(o)); err != nil {
			return i, fmt.Errorf("order %d: %w", o.ID, err)
		}
		logger.DebugContext(ctx, "Order event published",
			applog.FieldOrderID, o.ID,
			applog.FieldCountry, o.ShippingCountry)
	}
	return len(orders), nil
}
