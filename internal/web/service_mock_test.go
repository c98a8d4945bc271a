package web

import (
	"context"
	"time"

	"github.com/oliveiraenergia/oilsample/internal/domain"
	"github.com/oliveiraenergia/oilsample/internal/samples"
)

var testNow = time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)

type MockService struct {
	LookupFunc func(ctx context.Context, number string) (*samples.LookupResult, error)
	SubmitFunc func(ctx context.Context, form domain.Form) (*samples.SubmitResult, error)
	ReportFunc func(ctx context.Context, number string) ([]byte, error)
}

func (m *MockService) NewForm() domain.Form {
	return domain.NewForm(testNow)
}

func (m *MockService) Lookup(ctx context.Context, number string) (*samples.LookupResult, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, number)
	}
	return &samples.LookupResult{Form: m.NewForm()}, nil
}

func (m *MockService) Submit(ctx context.Context, form domain.Form) (*samples.SubmitResult, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, form)
	}
	return &samples.SubmitResult{SampleNumber: form.SampleNumber(), Row: 2, Created: true}, nil
}

func (m *MockService) Report(ctx context.Context, number string) ([]byte, error) {
	if m.ReportFunc != nil {
		return m.ReportFunc(ctx, number)
	}
	return nil, domain.ErrNotFound
}
