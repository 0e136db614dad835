package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	syncCounter   otelmetric.Int64Counter
	syncDuration  otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	syncCounter, _ := meter.Int64Counter(
		"syncs.processed",
		otelmetric.WithDescription("Number of synchronization passes processed"),
	)

	syncDuration, _ := meter.Float64Histogram(
		"syncs.duration",
		otelmetric.WithDescription("Synchronization pass duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		syncCounter:   syncCounter,
		syncDuration:  syncDuration,
	}
}

func (o *Observability) RecordSyncProcessed(ctx context.Context, status string) {
	if o.syncCounter != nil {
		o.syncCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordSyncDuration(ctx context.Context, duration time.Duration, status string) {
	if o.syncDuration != nil {
		o.syncDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
