package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "oilsample"
	serviceVersion = "1.0.0"
)

// Exporter exports form activity to an OTEL Collector.
type Exporter struct {
	provider    *sdkmetric.MeterProvider
	lookups     metric.Int64Counter
	submissions metric.Int64Counter
	duplicates  metric.Int64Counter
	failures    metric.Int64Counter
}

// NewExporter creates a new OTEL metrics exporter.
func NewExporter(ctx context.Context, cfg Config) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return newExporter(provider)
}

func newExporter(provider *sdkmetric.MeterProvider) (*Exporter, error) {
	meter := provider.Meter(serviceName)

	lookups, err := meter.Int64Counter(
		"oilsample_lookups_total",
		metric.WithDescription("Sample number lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating lookups counter: %w", err)
	}

	submissions, err := meter.Int64Counter(
		"oilsample_submissions_total",
		metric.WithDescription("Saved sample records by operation"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating submissions counter: %w", err)
	}

	duplicates, err := meter.Int64Counter(
		"oilsample_duplicate_keys_total",
		metric.WithDescription("Extra rows found sharing a sample number"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duplicates counter: %w", err)
	}

	failures, err := meter.Int64Counter(
		"oilsample_failures_total",
		metric.WithDescription("Failed operations by stage"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failures counter: %w", err)
	}

	return &Exporter{
		provider:    provider,
		lookups:     lookups,
		submissions: submissions,
		duplicates:  duplicates,
		failures:    failures,
	}, nil
}

func (e *Exporter) RecordLookup(ctx context.Context, found bool) {
	e.lookups.Add(ctx, 1, metric.WithAttributes(attribute.Bool("found", found)))
}

func (e *Exporter) RecordSubmit(ctx context.Context, created bool, duplicates int) {
	op := "update"
	if created {
		op = "append"
	}
	e.submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
	if duplicates > 0 {
		e.duplicates.Add(ctx, int64(duplicates))
	}
}

func (e *Exporter) RecordFailure(ctx context.Context, stage string, err error) {
	e.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
