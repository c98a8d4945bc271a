// Package samples implements the collection workflow: look a record up by
// sample number, then upsert it and emit its report.
package samples

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/oliveiraenergia/oilsample/internal/domain"
	"github.com/oliveiraenergia/oilsample/internal/ports"
	"github.com/oliveiraenergia/oilsample/internal/report"
)

// Failure stages reported to the metrics recorder.
const (
	StageLookup  = "lookup"
	StageStore   = "store"
	StageRender  = "render"
	StageArchive = "archive"
)

// LookupResult is the form state produced by a lookup.
type LookupResult struct {
	SampleNumber  string
	Found         bool
	Row           int // sheet row of the match, 0 when not found
	Form          domain.Form
	Extras        map[string]string // stored cells the form does not own
	DuplicateRows []int
}

// SubmitResult describes a saved record.
type SubmitResult struct {
	SampleNumber    string
	Row             int
	Created         bool
	DuplicateRows   []int
	Report          []byte
	FileName        string
	ArchiveLocation string
}

type Service struct {
	store    ports.SampleStore
	renderer ports.ReportRenderer
	storage  ports.ReportStorage
	metrics  ports.MetricsRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires the workflow. storage and metrics may be nil.
func NewService(store ports.SampleStore, renderer ports.ReportRenderer, storage ports.ReportStorage, metrics ports.MetricsRecorder, logger *zap.Logger) *Service {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		renderer: renderer,
		storage:  storage,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for the collection date default.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// NewForm returns a blank form with the template defaults.
func (s *Service) NewForm() domain.Form {
	return domain.NewForm(s.now())
}

// Lookup finds the record for number. A missing record is not an error: the
// result carries a template form with the number filled in.
func (s *Service) Lookup(ctx context.Context, number string) (*LookupResult, error) {
	number = strings.TrimSpace(number)
	res := &LookupResult{SampleNumber: number, Form: s.NewForm()}
	if number == "" {
		return res, nil
	}

	rows, err := s.store.FindRows(ctx, number)
	if err != nil {
		s.metrics.RecordFailure(ctx, StageLookup, err)
		return nil, fmt.Errorf("lookup sample %s: %w", number, err)
	}
	s.metrics.RecordLookup(ctx, len(rows) > 0)

	if len(rows) == 0 {
		res.Form.Set(domain.FieldSampleNumber, number)
		s.logger.Debug("sample not found", zap.String("sample_number", number))
		return res, nil
	}

	match := rows[0]
	res.Found = true
	res.Row = match.Position
	res.Form = domain.FormFromCells(match.Cells)
	res.Extras = domain.Extras(match.Cells)
	res.DuplicateRows = positions(rows[1:])
	s.warnDuplicates(number, match.Position, res.DuplicateRows)

	s.logger.Debug("sample loaded", zap.String("sample_number", number), zap.Int("row", match.Position))
	return res, nil
}

// Submit upserts the form by sample number and renders its report. When the
// row was saved but rendering failed, the partial result is returned with the
// error.
func (s *Service) Submit(ctx context.Context, form domain.Form) (*SubmitResult, error) {
	number := form.SampleNumber()
	if number == "" {
		return nil, domain.ErrSampleNumberRequired
	}
	form = form.Clone()
	form.Set(domain.FieldSampleNumber, number)

	rows, err := s.store.FindRows(ctx, number)
	if err != nil {
		s.metrics.RecordFailure(ctx, StageLookup, err)
		return nil, fmt.Errorf("lookup sample %s: %w", number, err)
	}

	res := &SubmitResult{SampleNumber: number, FileName: report.FileName(number)}
	if len(rows) > 0 {
		match := rows[0]
		res.DuplicateRows = positions(rows[1:])
		s.warnDuplicates(number, match.Position, res.DuplicateRows)

		if err := s.store.UpdateRow(ctx, match.Position, form.UpdateCells()); err != nil {
			s.metrics.RecordFailure(ctx, StageStore, err)
			return nil, fmt.Errorf("update row %d: %w", match.Position, err)
		}
		res.Row = match.Position
	} else {
		pos, err := s.store.AppendRow(ctx, form.AppendCells())
		if err != nil {
			s.metrics.RecordFailure(ctx, StageStore, err)
			return nil, fmt.Errorf("append sample %s: %w", number, err)
		}
		res.Row = pos
		res.Created = true
	}
	s.metrics.RecordSubmit(ctx, res.Created, len(res.DuplicateRows))
	s.logger.Info("sample saved",
		zap.String("sample_number", number),
		zap.Int("row", res.Row),
		zap.Bool("created", res.Created),
	)

	pdf, err := s.renderer.Render(form)
	if err != nil {
		s.metrics.RecordFailure(ctx, StageRender, err)
		return res, fmt.Errorf("render report: %w", err)
	}
	res.Report = pdf
	res.ArchiveLocation = s.archive(ctx, res.FileName, pdf)
	return res, nil
}

// Report returns the PDF for the stored record. The archived copy written by
// the last submit is served when present; otherwise the row is rendered and
// archived.
func (s *Service) Report(ctx context.Context, number string) ([]byte, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, domain.ErrSampleNumberRequired
	}
	rows, err := s.store.FindRows(ctx, number)
	if err != nil {
		s.metrics.RecordFailure(ctx, StageLookup, err)
		return nil, fmt.Errorf("lookup sample %s: %w", number, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sample %s: %w", number, domain.ErrNotFound)
	}
	name := report.FileName(number)
	if pdf, ok := s.archived(ctx, name); ok {
		return pdf, nil
	}
	pdf, err := s.renderer.Render(domain.FormFromCells(rows[0].Cells))
	if err != nil {
		s.metrics.RecordFailure(ctx, StageRender, err)
		return nil, fmt.Errorf("render report: %w", err)
	}
	s.archive(ctx, name, pdf)
	return pdf, nil
}

// Merge applies changes over the stored form for their sample number, or over
// the template defaults when the number has no row yet. Fields absent from
// changes keep their stored values.
func (s *Service) Merge(ctx context.Context, changes domain.Form) (domain.Form, error) {
	found, err := s.Lookup(ctx, changes.SampleNumber())
	if err != nil {
		return nil, err
	}
	form := found.Form.Clone()
	for k, v := range changes {
		form.Set(k, v)
	}
	return form, nil
}

// Import merges and submits each set of changes in order, stopping at the
// first failure. Results for the records saved before the failure are
// returned with the error.
func (s *Service) Import(ctx context.Context, changes []domain.Form) ([]*SubmitResult, error) {
	results := make([]*SubmitResult, 0, len(changes))
	for i, c := range changes {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		form, err := s.Merge(ctx, c)
		if err != nil {
			return results, fmt.Errorf("record %d: %w", i+1, err)
		}
		res, err := s.Submit(ctx, form)
		if err != nil {
			if res != nil {
				results = append(results, res)
			}
			return results, fmt.Errorf("record %d: %w", i+1, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Service) archive(ctx context.Context, name string, pdf []byte) string {
	if s.storage == nil {
		return ""
	}
	loc, err := s.storage.Store(ctx, name, pdf)
	if err != nil {
		s.metrics.RecordFailure(ctx, StageArchive, err)
		s.logger.Warn("archiving report failed", zap.String("file", name), zap.Error(err))
		return ""
	}
	return loc
}

func (s *Service) archived(ctx context.Context, name string) ([]byte, bool) {
	if s.storage == nil {
		return nil, false
	}
	ok, err := s.storage.Exists(ctx, name)
	if err == nil && ok {
		var pdf []byte
		pdf, err = s.storage.Get(ctx, name)
		if err == nil {
			return pdf, true
		}
	}
	if err != nil {
		s.metrics.RecordFailure(ctx, StageArchive, err)
		s.logger.Warn("reading archived report failed", zap.String("file", name), zap.Error(err))
	}
	return nil, false
}

func (s *Service) warnDuplicates(number string, used int, dups []int) {
	if len(dups) == 0 {
		return
	}
	s.logger.Warn("duplicate sample number in sheet",
		zap.String("sample_number", number),
		zap.Int("row", used),
		zap.Ints("duplicate_rows", dups),
	)
}

func positions(rows []domain.Row) []int {
	if len(rows) == 0 {
		return nil
	}
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Position
	}
	return out
}

// IsUserError reports whether err is caused by the input rather than the store.
func IsUserError(err error) bool {
	return errors.Is(err, domain.ErrSampleNumberRequired) || errors.Is(err, domain.ErrNotFound)
}

type nopMetrics struct{}

func (nopMetrics) RecordLookup(context.Context, bool) {}

func (nopMetrics) RecordSubmit(context.Context, bool, int) {}

func (nopMetrics) RecordFailure(context.Context, string, error) {}

func (nopMetrics) Close(context.Context) error { return nil }
