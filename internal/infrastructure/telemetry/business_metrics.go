// Package telemetry provides OpenTelemetry metrics for the acquisitions service.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics tracks order activation and receiving activity. All record
// methods are safe to call on a nil receiver so services can run unmetered.
type BusinessMetrics struct {
	ordersActivated   metric.Int64Counter
	linesMaterialized metric.Int64Counter
	itemsCreated      metric.Int64Counter
	piecesProcessed   metric.Int64Counter
}

// NewBusinessMetrics creates the counters on the given meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	bm := &BusinessMetrics{}

	var err error
	bm.ordersActivated, err = meter.Int64Counter(
		"acq_orders_activated_total",
		metric.WithDescription("Total number of orders transitioned from draft to active"),
		metric.WithUnit("{orders}"),
	)
	if err != nil {
		return nil, err
	}

	bm.linesMaterialized, err = meter.Int64Counter(
		"acq_lines_materialized_total",
		metric.WithDescription("Total number of order lines materialized into inventory"),
		metric.WithUnit("{lines}"),
	)
	if err != nil {
		return nil, err
	}

	bm.itemsCreated, err = meter.Int64Counter(
		"acq_items_created_total",
		metric.WithDescription("Total number of inventory items created during materialization"),
		metric.WithUnit("{items}"),
	)
	if err != nil {
		return nil, err
	}

	bm.piecesProcessed, err = meter.Int64Counter(
		"acq_pieces_processed_total",
		metric.WithDescription("Total number of pieces processed during receiving, by outcome"),
		metric.WithUnit("{pieces}"),
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordActivation counts one draft-to-active transition
func (bm *BusinessMetrics) RecordActivation(ctx context.Context, lineCount int) {
	if bm == nil {
		return
	}
	bm.ordersActivated.Add(ctx, 1)
	bm.linesMaterialized.Add(ctx, int64(lineCount))
}

// RecordItemsCreated counts inventory items created for a line
func (bm *BusinessMetrics) RecordItemsCreated(ctx context.Context, count int) {
	if bm == nil || count == 0 {
		return
	}
	bm.itemsCreated.Add(ctx, int64(count))
}

// RecordReceiving counts processed pieces, split by outcome
func (bm *BusinessMetrics) RecordReceiving(ctx context.Context, succeeded, failed int) {
	if bm == nil {
		return
	}
	if succeeded > 0 {
		bm.piecesProcessed.Add(ctx, int64(succeeded),
			metric.WithAttributes(attribute.String("outcome", "success")))
	}
	if failed > 0 {
		bm.piecesProcessed.Add(ctx, int64(failed),
			metric.WithAttributes(attribute.String("outcome", "failure")))
	}
}
