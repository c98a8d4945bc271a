package ports

import (
	"context"

	"github.com/oliveiraenergia/oilsample/internal/domain"
)

type ReportRenderer interface {
	Render(form domain.Form) ([]byte, error)
}

// ReportStorage archives rendered reports.
type ReportStorage interface {
	Store(ctx context.Context, key string, data []byte) (location string, err error)
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}
