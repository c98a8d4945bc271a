package turso_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/tursodatabase/go-libsql"

	"github.com/oliveiraenergia/oilsample/internal/adapters/turso"
	"github.com/oliveiraenergia/oilsample/internal/domain"
	"github.com/oliveiraenergia/oilsample/internal/migrate"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file:"+filepath.Join(t.TempDir(), "samples.db"))
	require.NoError(t, err)

	if _, err := migrate.New(db, nil).Up(context.Background()); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSampleStore_AppendAndFind(t *testing.T) {
	ctx := context.Background()
	store := turso.NewSampleStore(testDB(t))

	first, err := store.AppendRow(ctx, map[string]string{domain.KeyHeader: "A1", "Frota": "F1", domain.StatusHeader: ""})
	require.NoError(t, err)
	second, err := store.AppendRow(ctx, map[string]string{domain.KeyHeader: "A2"})
	require.NoError(t, err)

	assert.Equal(t, 2, first)
	assert.Equal(t, 3, second)

	rows, err := store.FindRows(ctx, " A1 ")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Position)
	assert.Equal(t, "F1", rows[0].Cells["Frota"])

	none, err := store.FindRows(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSampleStore_UpdatePreservesOtherCells(t *testing.T) {
	ctx := context.Background()
	store := turso.NewSampleStore(testDB(t))

	pos, err := store.AppendRow(ctx, map[string]string{domain.KeyHeader: "A1", "Frota": "F1", domain.StatusHeader: "Recebida"})
	require.NoError(t, err)

	require.NoError(t, store.UpdateRow(ctx, pos, map[string]string{"Frota": "F2", "Modelo": "DC16"}))

	rows, err := store.FindRows(ctx, "A1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, pos, rows[0].Position)
	assert.Equal(t, map[string]string{
		domain.KeyHeader:    "A1",
		"Frota":             "F2",
		"Modelo":            "DC16",
		domain.StatusHeader: "Recebida",
	}, rows[0].Cells)
}

func TestSampleStore_UpdateMissingRow(t *testing.T) {
	store := turso.NewSampleStore(testDB(t))
	err := store.UpdateRow(context.Background(), 42, map[string]string{"Frota": "x"})
	assert.Error(t, err)
}

func TestSampleStore_DuplicateKeysInOrder(t *testing.T) {
	ctx := context.Background()
	store := turso.NewSampleStore(testDB(t))

	for _, k := range []string{"A1", "B1", "A1"} {
		_, err := store.AppendRow(ctx, map[string]string{domain.KeyHeader: k})
		require.NoError(t, err)
	}

	rows, err := store.FindRows(ctx, "A1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Position)
	assert.Equal(t, 4, rows[1].Position)
}
