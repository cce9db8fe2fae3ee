package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ExportMetrics tracks spreadsheet exports and order platform failures.
// A nil *ExportMetrics is valid and records nothing.
type ExportMetrics struct {
	logger *zap.Logger

	exportsTotal      *Counter
	ordersTotal       *Counter
	itemsTotal        *Counter
	unidentifiedTotal *Counter
	upstreamFailures  *Counter
}

// ExportMetricsConfig holds configuration for export metrics.
type ExportMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewExportMetrics creates a new ExportMetrics instance.
func NewExportMetrics(cfg ExportMetricsConfig) (*ExportMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	em := &ExportMetrics{logger: logger}

	counters := []struct {
		target      **Counter
		name        string
		description string
		unit        string
	}{
		{&em.exportsTotal, "orderexport_exports_total", "Total number of rendered exports", "{exports}"},
		{&em.ordersTotal, "orderexport_orders_exported_total", "Total number of orders written to exports", "{orders}"},
		{&em.itemsTotal, "orderexport_items_exported_total", "Total number of line items written to exports", "{items}"},
		{&em.unidentifiedTotal, "orderexport_unidentified_items_total", "Line items whose SKU matched no product rule", "{items}"},
		{&em.upstreamFailures, "orderexport_upstream_failures_total", "Failed calls to the order platform", "{requests}"},
	}

	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.description, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	return em, nil
}

// RecordExport records one rendered export.
func (em *ExportMetrics) RecordExport(ctx context.Context, format string, orders, items, unidentified int64) {
	if em == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrExportFormat.String(format)}
	em.exportsTotal.Inc(ctx, attrs...)
	em.ordersTotal.Add(ctx, orders, attrs...)
	em.itemsTotal.Add(ctx, items, attrs...)
	if unidentified > 0 {
		em.unidentifiedTotal.Add(ctx, unidentified, attrs...)
	}
}

// RecordUpstreamFailure records a failed order platform call.
func (em *ExportMetrics) RecordUpstreamFailure(ctx context.Context, operation string) {
	if em == nil {
		return
	}
	em.upstreamFailures.Inc(ctx, AttrOperation.String(operation))
	em.logger.Debug("Recorded upstream failure", zap.String("operation", operation))
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewExportMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
