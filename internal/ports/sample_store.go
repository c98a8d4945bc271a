package ports

import (
	"context"

	"github.com/oliveiraenergia/oilsample/internal/domain"
)

// SampleStore is the spreadsheet holding one row per sample.
type SampleStore interface {
	// FindRows returns every row whose key column equals key, in sheet order.
	FindRows(ctx context.Context, key string) ([]domain.Row, error)
	// UpdateRow writes only the given cells of an existing row.
	UpdateRow(ctx context.Context, position int, cells map[string]string) error
	// AppendRow adds a row after the last one and returns its position.
	AppendRow(ctx context.Context, cells map[string]string) (int, error)
	Close() error
}
