package ports

import "context"

// MetricsRecorder exports form activity to an external observability system.
type MetricsRecorder interface {
	RecordLookup(ctx context.Context, found bool)
	// RecordSubmit records a saved sample; created is false for in-place updates.
	RecordSubmit(ctx context.Context, created bool, duplicates int)
	RecordFailure(ctx context.Context, stage string, err error)
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
