// Package worker mirrors order events from the order feed into the order store.
package worker

import (
	"context"
	"fmt"
	"sync/atomic"

	"geosales/internal/amqp"
	"geosales/internal/core"
	"geosales/internal/countries"
	applog "geosales/internal/log"
)

// OrderWriter stores an order, replacing any previous version with the same ID.
type OrderWriter interface {
	UpsertOrder(ctx context.Context, o core.Order) error
}

// Stats counts the events a worker has seen.
type Stats struct {
	Ingested int64
	Rejected int64
	Failed   int64
}

// OrderWorker applies order.upserted events to the order store
type OrderWorker struct {
	store  OrderWriter
	dir    countries.Directory
	logger *applog.Logger

	ingested int64
	rejected int64
	failed   int64
}

func NewOrderWorker(store OrderWriter, dir countries.Directory, logger *applog.Logger) *OrderWorker {
	if logger == nil {
		logger = applog.FromContext(context.Background())
	}
	return &OrderWorker{
		store:  store,
		dir:    dir,
		logger: logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleOrderEvent validates msg and upserts the order. Invalid events are
// rejected for good; store failures are returned so the message is retried.
func (w *OrderWorker) HandleOrderEvent(ctx context.Context, msg *amqp.OrderEventMessage) error {
	order, err := msg.ToOrder()
	if err != nil {
		atomic.AddInt64(&w.rejected, 1)
		w.logger.WarnContext(ctx, "Rejected order event",
			applog.FieldOrderID, msg.OrderID,
			applog.FieldEventType, msg.Type,
			applog.FieldError, err.Error())
		return amqp.Reject(err)
	}

	// Orders keep whatever country the order system recorded; reports show
	// unknown codes as-is.
	if w.dir != nil && !w.dir.Exists(order.ShippingCountry) {
		w.logger.WarnContext(ctx, "Order shipped to unknown country",
			applog.FieldOrderID, order.ID,
			applog.FieldCountry, order.ShippingCountry)
	}

	if err := w.store.UpsertOrder(ctx, order); err != nil {
		atomic.AddInt64(&w.failed, 1)
		return fmt.Errorf("upsert order %d: %w", order.ID, err)
	}
	atomic.AddInt64(&w.ingested, 1)

	applog.NewStructuredLogger(w.logger).LogOrderIngested(ctx,
		order.ID, order.Status.String(), order.ShippingCountry, core.ToCents(order.Total))
	return nil
}

// Stats returns the event counters
func (w *OrderWorker) Stats() Stats {
	return Stats{
		Ingested: atomic.LoadInt64(&w.ingested),
		Rejected: atomic.LoadInt64(&w.rejected),
		Failed:   atomic.LoadInt64(&w.failed),
	}
}
