// Package memory keeps the sample sheet in process memory. Row 1 is the
// header, like the real spreadsheet.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/oliveiraenergia/oilsample/internal/domain"
)

type Store struct {
	mu   sync.Mutex
	rows []map[string]string // rows[0] is sheet row 2
}

func NewStore() *Store {
	return &Store{}
}

// Seed appends rows as-is, bypassing any layout handling. Useful for fixtures.
func (s *Store) Seed(rows ...map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.rows = append(s.rows, copyCells(r))
	}
}

func (s *Store) FindRows(ctx context.Context, key string) ([]domain.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key = strings.TrimSpace(key)
	var out []domain.Row
	for i, r := range s.rows {
		if strings.TrimSpace(r[domain.KeyHeader]) == key {
			out = append(out, domain.Row{Position: i + 2, Cells: copyCells(r)})
		}
	}
	return out, nil
}

func (s *Store) UpdateRow(ctx context.Context, position int, cells map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := position - 2
	if i < 0 || i >= len(s.rows) {
		return fmt.Errorf("row %d out of range", position)
	}
	for h, v := range cells {
		s.rows[i][h] = v
	}
	return nil
}

func (s *Store) AppendRow(ctx context.Context, cells map[string]string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = append(s.rows, copyCells(cells))
	return len(s.rows) + 1, nil
}

// Rows returns a snapshot of every data row.
func (s *Store) Rows() []domain.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Row, len(s.rows))
	for i, r := range s.rows {
		out[i] = domain.Row{Position: i + 2, Cells: copyCells(r)}
	}
	return out
}

func (s *Store) Close() error { return nil }

func copyCells(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
