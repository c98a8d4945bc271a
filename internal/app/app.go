// Package app assembles the sample service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oliveiraenergia/oilsample/internal/adapters/memory"
	"github.com/oliveiraenergia/oilsample/internal/adapters/otel"
	"github.com/oliveiraenergia/oilsample/internal/adapters/s3"
	"github.com/oliveiraenergia/oilsample/internal/adapters/sheets"
	"github.com/oliveiraenergia/oilsample/internal/adapters/storage"
	"github.com/oliveiraenergia/oilsample/internal/adapters/turso"
	"github.com/oliveiraenergia/oilsample/internal/config"
	"github.com/oliveiraenergia/oilsample/internal/migrate"
	"github.com/oliveiraenergia/oilsample/internal/ports"
	"github.com/oliveiraenergia/oilsample/internal/report"
	"github.com/oliveiraenergia/oilsample/internal/samples"
)

// App owns the adapters behind a samples.Service.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Store   ports.SampleStore
	Metrics ports.MetricsRecorder
	Service *samples.Service
}

// NewLogger returns a production zap logger, at debug level when debug is set.
func NewLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	archive, err := openArchive(ctx, cfg.Archive)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	var metrics ports.MetricsRecorder = otel.NewNoOpExporter()
	if cfg.OTEL.Enabled {
		exp, err := otel.NewExporter(ctx, cfg.OTEL)
		if err != nil {
			logger.Warn("metrics export disabled", zap.Error(err))
		} else {
			metrics = exp
		}
	}

	svc := samples.NewService(store, report.NewRenderer(cfg.ReportTitle), archive, metrics, logger)
	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Metrics: metrics,
		Service: svc,
	}, nil
}

func (a *App) Close(ctx context.Context) error {
	return errors.Join(a.Store.Close(), a.Metrics.Close(ctx))
}

// OpenStore opens the configured sample store. The turso store is migrated to
// the latest schema before use.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.SampleStore, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return memory.NewStore(), nil
	case config.StoreTurso:
		db, err := turso.NewDB(turso.Config{URL: cfg.Database.URL, AuthToken: cfg.Database.AuthToken})
		if err != nil {
			return nil, err
		}
		if _, err := migrate.New(db, logger).Up(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return turso.NewSampleStore(db), nil
	case config.StoreSheets:
		return OpenSheets(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// OpenSheets returns the spreadsheet-backed store with its credentials loaded.
func OpenSheets(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*sheets.Store, error) {
	client, err := sheets.NewHTTPClient(ctx, sheets.Credentials{
		ServiceAccountJSON: cfg.Sheets.ServiceAccountJSON,
		ServiceAccountFile: cfg.Sheets.ServiceAccountFile,
		TokenFile:          cfg.Sheets.TokenFile,
	})
	if err != nil {
		return nil, err
	}
	return sheets.NewStore(client, sheets.Config{
		SpreadsheetID: cfg.Sheets.SpreadsheetID,
		SheetName:     cfg.Sheets.SheetName,
		BaseURL:       cfg.Sheets.BaseURL,
		Timeout:       cfg.Sheets.Timeout,
	}, logger)
}

func openArchive(ctx context.Context, cfg config.Archive) (ports.ReportStorage, error) {
	switch cfg.Backend {
	case config.ArchiveFS:
		return storage.NewReportStorage(cfg.Dir)
	case config.ArchiveS3:
		return s3.NewReportStorage(ctx, s3.Config{
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			PathStyle: cfg.PathStyle,
		})
	default:
		return storage.NewNoOpStorage(), nil
	}
}
