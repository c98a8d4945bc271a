package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oliveiraenergia/oilsample/internal/domain"
)

// fakeSheets is a minimal Sheets v4 values API over an in-memory grid.
type fakeSheets struct {
	mu      sync.Mutex
	values  [][]string
	status  int
	batches []batchUpdateRequest
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{values: [][]string{domain.Headers()}}
}

var a1Pattern = regexp.MustCompile(`^(?:'[^']*'|[^!]+)!([A-Z]+)(\d+)(?::([A-Z]+)(\d+))?$`)

func columnIndex(letters string) int {
	n := 0
	for _, c := range letters {
		n = n*26 + int(c-'A'+1)
	}
	return n - 1
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"boom","status":"X"}}`, f.status)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/sheet-id/values")
	switch {
	case r.Method == http.MethodGet:
		rng := strings.TrimPrefix(path, "/")
		rows := f.values
		if strings.HasSuffix(rng, "1:AH1") {
			rows = rows[:1]
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"range": rng, "values": trimmed(rows)})

	case r.Method == http.MethodPost && path == ":batchUpdate":
		var req batchUpdateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.batches = append(f.batches, req)
		for _, d := range req.Data {
			m := a1Pattern.FindStringSubmatch(d.Range)
			row, _ := strconv.Atoi(m[2])
			start := columnIndex(m[1])
			for i, v := range d.Values[0] {
				f.set(row, start+i, fmt.Sprint(v))
			}
		}
		_, _ = w.Write([]byte(`{}`))

	case r.Method == http.MethodPost && strings.HasSuffix(path, ":append"):
		var req valueRange
		_ = json.NewDecoder(r.Body).Decode(&req)
		row := make([]string, len(req.Values[0]))
		for i, v := range req.Values[0] {
			row[i] = fmt.Sprint(v)
		}
		f.values = append(f.values, row)
		n := len(f.values)
		_, _ = fmt.Fprintf(w, `{"updates":{"updatedRange":"Geral!A%d:AH%d","updatedRows":1}}`, n, n)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeSheets) set(row, col int, v string) {
	for len(f.values) < row {
		f.values = append(f.values, nil)
	}
	r := f.values[row-1]
	for len(r) <= col {
		r = append(r, "")
	}
	r[col] = v
	f.values[row-1] = r
}

// trimmed drops trailing empty cells, as the real API does.
func trimmed(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		n := len(r)
		for n > 0 && r[n-1] == "" {
			n--
		}
		out[i] = r[:n]
	}
	return out
}

func newTestStore(t *testing.T, fake http.Handler) *Store {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewStore(srv.Client(), Config{
		SpreadsheetID: "sheet-id",
		BaseURL:       srv.URL,
		Timeout:       5 * time.Second,
	}, nil)
	require.NoError(t, err)
	return s
}

func sampleRow(number, fleet, status string) []string {
	row := make([]string, len(domain.Layout))
	row[domain.ColumnIndex(domain.KeyHeader)] = number
	row[domain.ColumnIndex("Frota")] = fleet
	row[domain.ColumnIndex(domain.StatusHeader)] = status
	return row
}

func TestStore_FindRows(t *testing.T) {
	fake := newFakeSheets()
	fake.values = append(fake.values,
		sampleRow("100", "F1", "Recebida"),
		sampleRow("200", "F2", ""),
		sampleRow(" 100", "F3", ""),
	)
	s := newTestStore(t, fake)

	rows, err := s.FindRows(context.Background(), "100")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Position)
	assert.Equal(t, 4, rows[1].Position)
	assert.Equal(t, "F1", rows[0].Cells["Frota"])
	assert.Equal(t, "Recebida", rows[0].Cells[domain.StatusHeader])
	assert.Len(t, rows[1].Cells, len(domain.Layout), "trailing empty cells are padded")

	none, err := s.FindRows(context.Background(), "999")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_UpdateRowSkipsUnownedColumns(t *testing.T) {
	fake := newFakeSheets()
	fake.values = append(fake.values, sampleRow("100", "F1", "Recebida"))
	s := newTestStore(t, fake)

	form := domain.NewForm(time.Now())
	form.Set(domain.FieldSampleNumber, "100")
	form.Set("fleet", "F9")
	form.Set(domain.FieldServiceOrder, "OS-7")

	require.NoError(t, s.UpdateRow(context.Background(), 2, form.UpdateCells()))

	require.Len(t, fake.batches, 1)
	var ranges []string
	for _, d := range fake.batches[0].Data {
		ranges = append(ranges, d.Range)
	}
	assert.Equal(t, []string{"Geral!A2:F2", "Geral!H2:AE2", "Geral!AH2:AH2"}, ranges)
	assert.Equal(t, "RAW", fake.batches[0].ValueInputOption)

	rows, err := s.FindRows(context.Background(), "100")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Position)
	assert.Equal(t, "F9", rows[0].Cells["Frota"])
	assert.Equal(t, "OS-7", rows[0].Cells[domain.ServiceOrderHeader])
	assert.Equal(t, "Recebida", rows[0].Cells[domain.StatusHeader])
}

func TestStore_UpdateRowRejectsHeader(t *testing.T) {
	s := newTestStore(t, newFakeSheets())
	err := s.UpdateRow(context.Background(), 1, map[string]string{"Frota": "x"})
	assert.Error(t, err)
}

func TestStore_AppendRow(t *testing.T) {
	fake := newFakeSheets()
	fake.values = append(fake.values, sampleRow("1", "", ""), sampleRow("2", "", ""))
	s := newTestStore(t, fake)

	form := domain.NewForm(time.Now())
	form.Set(domain.FieldSampleNumber, "3")

	pos, err := s.AppendRow(context.Background(), form.AppendCells())
	require.NoError(t, err)
	assert.Equal(t, 4, pos)
	assert.Len(t, fake.values[3], len(domain.Layout))
	assert.Equal(t, "3", fake.values[3][domain.ColumnIndex(domain.KeyHeader)])
}

func TestStore_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrCredentials},
		{"forbidden", http.StatusForbidden, domain.ErrCredentials},
		{"rate limited", http.StatusTooManyRequests, domain.ErrUnavailable},
		{"server error", http.StatusServiceUnavailable, domain.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeSheets()
			fake.status = tt.status
			s := newTestStore(t, fake)

			_, err := s.FindRows(context.Background(), "1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), "boom")
		})
	}
}

func TestStore_BadRequestIsNotClassified(t *testing.T) {
	fake := newFakeSheets()
	fake.status = http.StatusBadRequest
	s := newTestStore(t, fake)

	_, err := s.AppendRow(context.Background(), map[string]string{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCredentials)
	assert.NotErrorIs(t, err, domain.ErrUnavailable)
}

func TestStore_UnreachableIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s, err := NewStore(http.DefaultClient, Config{SpreadsheetID: "sheet-id", BaseURL: url}, nil)
	require.NoError(t, err)

	_, err = s.FindRows(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestStore_VerifyHeader(t *testing.T) {
	fake := newFakeSheets()
	s := newTestStore(t, fake)

	problems, err := s.VerifyHeader(context.Background())
	require.NoError(t, err)
	assert.Empty(t, problems)

	fake.values[0][0] = "Estado"
	problems, err = s.VerifyHeader(context.Background())
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "column A")
}

func TestNewStore_RequiresSpreadsheetID(t *testing.T) {
	_, err := NewStore(http.DefaultClient, Config{}, nil)
	assert.Error(t, err)
}

func TestParseUpdatedRow(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"Geral!A123:AH123", 123, false},
		{"'Folha 1'!A7:AH7", 7, false},
		{"Geral!$A$9", 9, false},
		{"Geral", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseUpdatedRow(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestQuoteSheet(t *testing.T) {
	assert.Equal(t, "Geral", quoteSheet("Geral"))
	assert.Equal(t, "'Folha 1'", quoteSheet("Folha 1"))
	assert.Equal(t, "'D''Ávila'", quoteSheet("D'Ávila"))
}

func TestColumnRuns(t *testing.T) {
	cells := map[string]string{
		"Estado de Origem": "",
		"Cliente":          "",
		"UGD":              "",
		"unknown":          "",
	}
	runs := columnRuns(cells)
	assert.Equal(t, []run{{0, 1}, {4, 4}}, runs)
}
