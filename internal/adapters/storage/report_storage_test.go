package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestReportStorage_StoreGetExists(t *testing.T) {
	ctx := context.Background()
	s, err := NewReportStorage(filepath.Join(t.TempDir(), "reports"))
	if err != nil {
		t.Fatalf("NewReportStorage: %v", err)
	}

	ok, err := s.Exists(ctx, "amostra_1.pdf")
	if err != nil || ok {
		t.Fatalf("Exists before store = %v, %v", ok, err)
	}

	loc, err := s.Store(ctx, "amostra_1.pdf", []byte("v1"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if filepath.Base(loc) != "amostra_1.pdf" {
		t.Errorf("unexpected location %s", loc)
	}
	if _, err := s.Store(ctx, "amostra_1.pdf", []byte("v2")); err != nil {
		t.Fatalf("second Store: %v", err)
	}

	data, err := s.Get(ctx, "amostra_1.pdf")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "v2" {
		t.Errorf("expected latest report, got %q", data)
	}
	if _, err := os.Stat(loc + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestReportStorage_RejectsPathKeys(t *testing.T) {
	s, err := NewReportStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewReportStorage: %v", err)
	}
	for _, key := range []string{"", "..", "../x.pdf", `a\b.pdf`} {
		if _, err := s.Store(context.Background(), key, nil); err == nil {
			t.Errorf("Store(%q) expected error", key)
		}
	}
}

func TestReportStorage_DefaultsToXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	s, err := NewReportStorage("")
	if err != nil {
		t.Fatalf("NewReportStorage: %v", err)
	}
	if filepath.Base(s.baseDir) != "reports" || filepath.Base(filepath.Dir(s.baseDir)) != "oilsample" {
		t.Errorf("unexpected base dir %s", s.baseDir)
	}
}
