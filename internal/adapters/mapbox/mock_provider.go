package mapbox

import (
	"context"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/ports"
	"fmt"
	"sync"
)

// MockGeocoder answers from canned results and records every call.
type MockGeocoder struct {
	mu sync.Mutex

	// Results per exact query; Fallback answers anything else.
	Results  map[string][]domain.Address
	Fallback []domain.Address
	Reversed []domain.Address

	SearchErr  error
	ReverseErr error

	// Runs before a search answers; tests use it to hold a request in flight.
	BeforeSearch func(query string)

	searches []string
	reverses []domain.Coordinates
}

func NewMockGeocoder(results map[string][]domain.Address) *MockGeocoder {
	return &MockGeocoder{Results: results}
}

func (m *MockGeocoder) Search(ctx context.Context, query string, opts ports.SearchOptions) ([]domain.Address, error) {
	m.mu.Lock()
	m.searches = append(m.searches, query)
	hook := m.BeforeSearch
	m.mu.Unlock()

	if hook != nil {
		hook(query)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if r, ok := m.Results[query]; ok {
		return append([]domain.Address(nil), r...), nil
	}
	return append([]domain.Address(nil), m.Fallback...), nil
}

func (m *MockGeocoder) Reverse(ctx context.Context, at domain.Coordinates) ([]domain.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reverses = append(m.reverses, at)
	if m.ReverseErr != nil {
		return nil, m.ReverseErr
	}
	return append([]domain.Address(nil), m.Reversed...), nil
}

func (m *MockGeocoder) Searches() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.searches...)
}

func (m *MockGeocoder) Reverses() []domain.Coordinates {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Coordinates(nil), m.reverses...)
}

// MockDirections returns a straight line through the requested points.
type MockDirections struct {
	mu sync.Mutex

	// Distance reported for every route. Zero means 1000 m per leg.
	Meters float64
	Err    error

	calls [][]domain.Coordinates
}

func (m *MockDirections) Route(ctx context.Context, points []domain.Coordinates) (domain.Route, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, append([]domain.Coordinates(nil), points...))
	if m.Err != nil {
		return domain.Route{}, m.Err
	}
	if len(points) < 2 {
		return domain.Route{}, fmt.Errorf("mock route: need at least 2 points: %w", ports.ErrInvalidInput)
	}

	meters := m.Meters
	if meters == 0 {
		meters = 1000 * float64(len(points)-1)
	}

	return domain.Route{
		Geometry:        append([]domain.Coordinates(nil), points...),
		DistanceMeters:  meters,
		DurationSeconds: meters / 15,
	}, nil
}

func (m *MockDirections) Calls() [][]domain.Coordinates {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]domain.Coordinates(nil), m.calls...)
}
