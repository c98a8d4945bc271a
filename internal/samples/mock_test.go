package samples

import (
	"context"
	"errors"
	"sync"

	"github.com/oliveiraenergia/oilsample/internal/domain"
)

// MockStore is a SampleStore whose behaviour is set per test.
type MockStore struct {
	FindRowsFunc  func(ctx context.Context, key string) ([]domain.Row, error)
	UpdateRowFunc func(ctx context.Context, position int, cells map[string]string) error
	AppendRowFunc func(ctx context.Context, cells map[string]string) (int, error)
}

func (m *MockStore) FindRows(ctx context.Context, key string) ([]domain.Row, error) {
	if m.FindRowsFunc != nil {
		return m.FindRowsFunc(ctx, key)
	}
	return nil, nil
}

func (m *MockStore) UpdateRow(ctx context.Context, position int, cells map[string]string) error {
	if m.UpdateRowFunc != nil {
		return m.UpdateRowFunc(ctx, position, cells)
	}
	return nil
}

func (m *MockStore) AppendRow(ctx context.Context, cells map[string]string) (int, error) {
	if m.AppendRowFunc != nil {
		return m.AppendRowFunc(ctx, cells)
	}
	return 2, nil
}

func (m *MockStore) Close() error { return nil }

type fakeRenderer struct {
	err      error
	rendered []domain.Form
}

func (r *fakeRenderer) Render(form domain.Form) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.rendered = append(r.rendered, form.Clone())
	return []byte("%PDF-" + form.SampleNumber()), nil
}

type fakeStorage struct {
	err     error
	readErr error
	objects map[string][]byte
}

func (s *fakeStorage) Store(ctx context.Context, key string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[key] = data
	return "mem://" + key, nil
}

func (s *fakeStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (s *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	if s.readErr != nil {
		return false, s.readErr
	}
	_, ok := s.objects[key]
	return ok, nil
}

type recordedMetrics struct {
	mu         sync.Mutex
	lookups    map[bool]int
	created    int
	updated    int
	duplicates int
	failures   map[string]int
}

func newRecordedMetrics() *recordedMetrics {
	return &recordedMetrics{lookups: map[bool]int{}, failures: map[string]int{}}
}

func (m *recordedMetrics) RecordLookup(ctx context.Context, found bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups[found]++
}

func (m *recordedMetrics) RecordSubmit(ctx context.Context, created bool, duplicates int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if created {
		m.created++
	} else {
		m.updated++
	}
	m.duplicates += duplicates
}

func (m *recordedMetrics) RecordFailure(ctx context.Context, stage string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[stage]++
}

func (m *recordedMetrics) Close(ctx context.Context) error { return nil }
