// Package config loads runtime settings from OILSAMPLE_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/oliveiraenergia/oilsample/internal/adapters/otel"
)

const Prefix = "OILSAMPLE"

// Store drivers.
const (
	StoreSheets = "sheets"
	StoreTurso  = "turso"
	StoreMemory = "memory"
)

// Report archive backends.
const (
	ArchiveNone = "none"
	ArchiveFS   = "fs"
	ArchiveS3   = "s3"
)

// Sheets holds the spreadsheet location and credential sources.
type Sheets struct {
	SpreadsheetID      string        `envconfig:"SPREADSHEET_ID" default:"1VLDQUCO3Aw4ClAvhjkUsnBxG44BTjz-MjHK04OqPxYM"`
	SheetName          string        `envconfig:"SHEET_NAME" default:"Geral"`
	TokenFile          string        `envconfig:"TOKEN_FILE" default:"token.json"`
	ServiceAccountFile string        `envconfig:"SERVICE_ACCOUNT_FILE"`
	ServiceAccountJSON string        `envconfig:"SERVICE_ACCOUNT_JSON"`
	ClientSecretFile   string        `envconfig:"CLIENT_SECRET_FILE"`
	BaseURL            string        `envconfig:"BASE_URL"`
	Timeout            time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// Database holds Turso database configuration.
type Database struct {
	URL       string `envconfig:"URL" default:"oilsample.db"`
	AuthToken string `envconfig:"AUTH_TOKEN"`
}

// Archive selects where rendered reports are kept.
type Archive struct {
	Backend   string `envconfig:"BACKEND" default:"none"`
	Dir       string `envconfig:"DIR"`
	Bucket    string `envconfig:"BUCKET"`
	Prefix    string `envconfig:"PREFIX" default:"reports"`
	Region    string `envconfig:"REGION"`
	Endpoint  string `envconfig:"ENDPOINT"`
	PathStyle bool   `envconfig:"PATH_STYLE" default:"false"`
}

type Config struct {
	Port            int           `envconfig:"PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	Store           string        `envconfig:"STORE" default:"sheets"`
	Debug           bool          `envconfig:"DEBUG" default:"false"`
	ReportTitle     string        `envconfig:"REPORT_TITLE"`

	Sheets   Sheets      `envconfig:"SHEETS"`
	Database Database    `envconfig:"TURSO"`
	Archive  Archive     `envconfig:"ARCHIVE"`
	OTEL     otel.Config `envconfig:"OTEL"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreSheets:
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("config: spreadsheet id required for the sheets store")
		}
	case StoreTurso, StoreMemory:
	default:
		return fmt.Errorf("config: unknown store %q", c.Store)
	}

	switch c.Archive.Backend {
	case ArchiveNone, ArchiveFS:
	case ArchiveS3:
		if c.Archive.Bucket == "" {
			return fmt.Errorf("config: bucket required for the s3 archive")
		}
	default:
		return fmt.Errorf("config: unknown archive backend %q", c.Archive.Backend)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	return nil
}

// Usage prints the recognised environment variables.
func Usage() error {
	var cfg Config
	return envconfig.Usage(Prefix, &cfg)
}
