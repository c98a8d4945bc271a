// Package sheets stores samples in a Google Sheets spreadsheet through the
// Sheets v4 REST API.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/oliveiraenergia/oilsample/internal/domain"
)

const DefaultBaseURL = "https://sheets.googleapis.com"

type Config struct {
	SpreadsheetID string
	SheetName     string
	BaseURL       string
	Timeout       time.Duration
}

type Store struct {
	client *resty.Client
	cfg    Config
	logger *zap.Logger
}

// NewStore builds a store on top of an authenticated HTTP client (see NewHTTPClient).
func NewStore(httpClient *http.Client, cfg Config, logger *zap.Logger) (*Store, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Geral"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.NewWithClient(httpClient).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetPathParam("spreadsheetId", cfg.SpreadsheetID)

	return &Store{client: client, cfg: cfg, logger: logger}, nil
}

type valueRange struct {
	Range          string          `json:"range"`
	MajorDimension string          `json:"majorDimension,omitempty"`
	Values         [][]interface{} `json:"values"`
}

type batchUpdateRequest struct {
	ValueInputOption string       `json:"valueInputOption"`
	Data             []valueRange `json:"data"`
}

type appendResponse struct {
	Updates struct {
		UpdatedRange string `json:"updatedRange"`
	} `json:"updates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (s *Store) FindRows(ctx context.Context, key string) ([]domain.Row, error) {
	values, err := s.readRange(ctx, s.a1("A:"+domain.LastColumn()))
	if err != nil {
		return nil, err
	}

	key = strings.TrimSpace(key)
	keyIdx := domain.ColumnIndex(domain.KeyHeader)
	var rows []domain.Row
	for i, raw := range values {
		if i == 0 {
			continue // header
		}
		if keyIdx >= len(raw) || strings.TrimSpace(cellString(raw[keyIdx])) != key {
			continue
		}
		rows = append(rows, domain.Row{Position: i + 1, Cells: toCells(raw)})
	}
	s.logger.Debug("sheet scanned",
		zap.String("sample_number", key),
		zap.Int("rows", len(values)),
		zap.Int("matches", len(rows)))
	return rows, nil
}

// UpdateRow writes each contiguous run of the given columns as its own range,
// so columns outside cells are never sent.
func (s *Store) UpdateRow(ctx context.Context, position int, cells map[string]string) error {
	if position < 2 {
		return fmt.Errorf("row %d is not a data row", position)
	}
	req := batchUpdateRequest{ValueInputOption: "RAW"}
	for _, run := range columnRuns(cells) {
		vals := make([]interface{}, 0, run.end-run.start+1)
		for i := run.start; i <= run.end; i++ {
			vals = append(vals, cells[domain.Layout[i].Header])
		}
		rng := fmt.Sprintf("%s%d:%s%d",
			domain.ColumnLetter(run.start), position, domain.ColumnLetter(run.end), position)
		req.Data = append(req.Data, valueRange{
			Range:          s.a1(rng),
			MajorDimension: "ROWS",
			Values:         [][]interface{}{vals},
		})
	}
	if len(req.Data) == 0 {
		return nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetError(&apiError{}).
		Post("/v4/spreadsheets/{spreadsheetId}/values:batchUpdate")
	return classify("update row", resp, err)
}

func (s *Store) AppendRow(ctx context.Context, cells map[string]string) (int, error) {
	row := make([]interface{}, len(domain.Layout))
	for i, c := range domain.Layout {
		row[i] = cells[c.Header]
	}

	var out appendResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("range", s.a1("A1")).
		SetQueryParams(map[string]string{
			"valueInputOption": "RAW",
			"insertDataOption": "INSERT_ROWS",
		}).
		SetBody(valueRange{MajorDimension: "ROWS", Values: [][]interface{}{row}}).
		SetResult(&out).
		SetError(&apiError{}).
		Post("/v4/spreadsheets/{spreadsheetId}/values/{range}:append")
	if err := classify("append row", resp, err); err != nil {
		return 0, err
	}

	position, err := ParseUpdatedRow(out.Updates.UpdatedRange)
	if err != nil {
		return 0, err
	}
	return position, nil
}

// VerifyHeader compares row 1 with the layout and returns one message per mismatch.
func (s *Store) VerifyHeader(ctx context.Context) ([]string, error) {
	values, err := s.readRange(ctx, s.a1("A1:"+domain.LastColumn()+"1"))
	if err != nil {
		return nil, err
	}
	var header []interface{}
	if len(values) > 0 {
		header = values[0]
	}

	var problems []string
	for i, c := range domain.Layout {
		got := ""
		if i < len(header) {
			got = strings.TrimSpace(cellString(header[i]))
		}
		if got != c.Header {
			problems = append(problems, fmt.Sprintf("column %s: expected %q, found %q",
				domain.ColumnLetter(i), c.Header, got))
		}
	}
	return problems, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) readRange(ctx context.Context, rng string) ([][]interface{}, error) {
	var out valueRange
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("range", rng).
		SetQueryParams(map[string]string{
			"majorDimension":    "ROWS",
			"valueRenderOption": "FORMATTED_VALUE",
		}).
		SetResult(&out).
		SetError(&apiError{}).
		Get("/v4/spreadsheets/{spreadsheetId}/values/{range}")
	if err := classify("read range", resp, err); err != nil {
		return nil, err
	}
	return out.Values, nil
}

// a1 prefixes a cell range with the sheet name, quoting it when needed.
func (s *Store) a1(rng string) string {
	return quoteSheet(s.cfg.SheetName) + "!" + rng
}

var plainSheetName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func quoteSheet(name string) string {
	if plainSheetName.MatchString(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

var updatedRowPattern = regexp.MustCompile(`!\$?[A-Z]+\$?(\d+)`)

// ParseUpdatedRow extracts the first row number from a range such as "Geral!A123:AH123".
func ParseUpdatedRow(rng string) (int, error) {
	m := updatedRowPattern.FindStringSubmatch(rng)
	if m == nil {
		return 0, fmt.Errorf("could not detect inserted row from range %q", rng)
	}
	return strconv.Atoi(m[1])
}

type run struct{ start, end int }

// columnRuns groups the layout indexes present in cells into contiguous runs.
func columnRuns(cells map[string]string) []run {
	var idx []int
	for h := range cells {
		if i := domain.ColumnIndex(h); i >= 0 {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)

	var runs []run
	for _, i := range idx {
		if n := len(runs); n > 0 && runs[n-1].end == i-1 {
			runs[n-1].end = i
			continue
		}
		runs = append(runs, run{start: i, end: i})
	}
	return runs
}

func toCells(raw []interface{}) map[string]string {
	cells := make(map[string]string, len(domain.Layout))
	for i, c := range domain.Layout {
		if i < len(raw) {
			cells[c.Header] = cellString(raw[i])
		} else {
			cells[c.Header] = ""
		}
	}
	return cells
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(t)
	}
}

// classify maps transport and API failures onto the domain errors.
func classify(op string, resp *resty.Response, err error) error {
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return fmt.Errorf("%s: %w: %w", op, domain.ErrCredentials, err)
		}
		if errors.Is(err, domain.ErrCredentials) {
			return fmt.Errorf("%s: %w", op, err)
		}
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
	}
	if !resp.IsError() {
		return nil
	}

	msg := resp.Status()
	if e, ok := resp.Error().(*apiError); ok && e.Error.Message != "" {
		msg = e.Error.Message
	}
	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%s: %w: %s", op, domain.ErrCredentials, msg)
	case code == http.StatusTooManyRequests || code >= 500:
		return fmt.Errorf("%s: %w: %s", op, domain.ErrUnavailable, msg)
	default:
		return fmt.Errorf("%s: spreadsheet returned %d: %s", op, code, msg)
	}
}
