package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oliveiraenergia/oilsample/internal/util"
)

// ReportStorage archives rendered reports as files in a directory.
type ReportStorage struct {
	baseDir string
}

// NewReportStorage uses dir, or <XDG data dir>/reports when dir is empty.
func NewReportStorage(dir string) (*ReportStorage, error) {
	if dir == "" {
		baseDir, err := util.GetXDGDataDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(baseDir, "reports")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}

	return &ReportStorage{baseDir: dir}, nil
}

// Store overwrites any previous report under the same key, so the archive
// always holds the latest submission.
func (s *ReportStorage) Store(ctx context.Context, key string, data []byte) (string, error) {
	path, err := s.getPath(key)
	if err != nil {
		return "", err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to move report into place: %w", err)
	}
	return path, nil
}

func (s *ReportStorage) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.getPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return data, nil
}

func (s *ReportStorage) Exists(ctx context.Context, key string) (bool, error) {
	path, err := s.getPath(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *ReportStorage) getPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid report key %q", key)
	}
	return filepath.Join(s.baseDir, key), nil
}
