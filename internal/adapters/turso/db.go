package turso

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/tursodatabase/go-libsql"
)

// Config points at either a remote Turso database (libsql:// or https://) or
// a local file.
type Config struct {
	URL       string
	AuthToken string
}

func (c Config) dsn() (string, error) {
	if c.URL == "" {
		return "", fmt.Errorf("database url is required")
	}
	if strings.HasPrefix(c.URL, "file:") {
		return c.URL, nil
	}
	if !strings.Contains(c.URL, "://") {
		return "file:" + c.URL, nil
	}
	if c.AuthToken == "" {
		return c.URL, nil
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}
	q := u.Query()
	q.Set("authToken", c.AuthToken)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func NewDB(cfg Config) (*sql.DB, error) {
	dsn, err := cfg.dsn()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
