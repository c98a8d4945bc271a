package otel

import "context"

// NoOpExporter is a metrics recorder that does nothing.
type NoOpExporter struct{}

// NewNoOpExporter creates a new no-op exporter for graceful degradation.
func NewNoOpExporter() *NoOpExporter {
	return &NoOpExporter{}
}

func (e *NoOpExporter) RecordLookup(ctx context.Context, found bool) {}

func (e *NoOpExporter) RecordSubmit(ctx context.Context, created bool, duplicates int) {}

func (e *NoOpExporter) RecordFailure(ctx context.Context, stage string, err error) {}

func (e *NoOpExporter) Close(ctx context.Context) error {
	return nil
}
