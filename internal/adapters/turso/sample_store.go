package turso

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/oliveiraenergia/oilsample/internal/domain"
)

// SampleStore keeps the sample sheet in two tables: one row per sample and
// one cell per (row, header). Positions start at 2 so they line up with a
// spreadsheet that has a header in row 1.
type SampleStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSampleStore(db *sql.DB) *SampleStore {
	return &SampleStore{db: db, now: time.Now}
}

func (s *SampleStore) FindRows(ctx context.Context, key string) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT position FROM sample_rows WHERE sample_number = ? ORDER BY position`,
		strings.TrimSpace(key))
	if err != nil {
		return nil, fmt.Errorf("failed to find sample rows: %w", err)
	}
	var positions []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan sample row: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	out := make([]domain.Row, 0, len(positions))
	for _, p := range positions {
		cells, err := s.cells(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Row{Position: p, Cells: cells})
	}
	return out, nil
}

func (s *SampleStore) cells(ctx context.Context, position int) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT header, value FROM sample_cells WHERE position = ?`, position)
	if err != nil {
		return nil, fmt.Errorf("failed to load cells for row %d: %w", position, err)
	}
	defer rows.Close()

	cells := make(map[string]string)
	for rows.Next() {
		var h, v string
		if err := rows.Scan(&h, &v); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		cells[h] = v
	}
	return cells, rows.Err()
}

func (s *SampleStore) UpdateRow(ctx context.Context, position int, cells map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE sample_rows SET updated_at = ? WHERE position = ?`,
		s.now().UTC().Format(time.RFC3339), position)
	if err != nil {
		return fmt.Errorf("failed to update row %d: %w", position, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("row %d does not exist", position)
	}

	if err := upsertCells(ctx, tx, position, cells); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SampleStore) AppendRow(ctx context.Context, cells map[string]string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now().UTC().Format(time.RFC3339)
	var position int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO sample_rows (position, sample_number, created_at, updated_at)
		 VALUES ((SELECT COALESCE(MAX(position), 1) + 1 FROM sample_rows), ?, ?, ?)
		 RETURNING position`,
		strings.TrimSpace(cells[domain.KeyHeader]), now, now).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("failed to append row: %w", err)
	}

	if err := upsertCells(ctx, tx, position, cells); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit row: %w", err)
	}
	return position, nil
}

func (s *SampleStore) Close() error {
	return s.db.Close()
}

func upsertCells(ctx context.Context, tx *sql.Tx, position int, cells map[string]string) error {
	for h, v := range cells {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sample_cells (position, header, value) VALUES (?, ?, ?)
			 ON CONFLICT (position, header) DO UPDATE SET value = excluded.value`,
			position, h, v)
		if err != nil {
			return fmt.Errorf("failed to write cell %q of row %d: %w", h, position, err)
		}
	}
	return nil
}
