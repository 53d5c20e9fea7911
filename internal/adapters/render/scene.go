package render

import (
	"context"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/ports"
	"errors"
	"sort"
	"sync"
)

// Default camera: continental US.
var DefaultCenter = domain.Coordinates{Lon: -98.5795, Lat: 39.8283}

const DefaultZoom = 3.5

type Viewport struct {
	Center domain.Coordinates
	Zoom   float64
	// Set after FitBounds; cleared by FlyTo.
	Bounds *domain.Bounds
}

// Everything a client needs to paint the map.
type Snapshot struct {
	Version   uint64
	Markers   []domain.Marker
	RouteLine []domain.Coordinates
	HasRoute  bool
	Viewport  Viewport
	Cursor    string
	Listeners int
}

// Scene is an in-memory MapRenderer. It records draw calls as state that the
// HTTP layer serves to the browser, and dispatches clicks the browser reports
// back to subscribed handlers.
type Scene struct {
	mu        sync.Mutex
	version   uint64
	markers   []domain.Marker
	routeLine []domain.Coordinates
	hasRoute  bool
	viewport  Viewport
	cursor    string
	handlers  map[uint64]ports.ClickHandler
	nextID    uint64
}

var _ ports.MapRenderer = (*Scene)(nil)

func NewScene() *Scene {
	return &Scene{
		viewport: Viewport{Center: DefaultCenter, Zoom: DefaultZoom},
		handlers: make(map[uint64]ports.ClickHandler),
	}
}

func (s *Scene) AddMarker(m domain.Marker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = append(s.markers, m)
	s.version++
}

func (s *Scene) ClearMarkers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = nil
	s.version++
}

func (s *Scene) SetRouteLine(geometry []domain.Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routeLine = append([]domain.Coordinates(nil), geometry...)
	s.hasRoute = true
	s.version++
}

func (s *Scene) ClearRouteLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routeLine = nil
	s.hasRoute = false
	s.version++
}

func (s *Scene) FitBounds(b domain.Bounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport.Bounds = &b
	s.viewport.Center = domain.Coordinates{
		Lon: (b.SouthWest.Lon + b.NorthEast.Lon) / 2,
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
	}
	s.version++
}

func (s *Scene) FlyTo(center domain.Coordinates, zoom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = Viewport{Center: center, Zoom: zoom}
	s.version++
}

func (s *Scene) SetCursor(cursor string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = cursor
	s.version++
}

func (s *Scene) OnClick(handler ports.ClickHandler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.handlers[id] = handler

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers, id)
	}
}

// Click delivers a map click to every subscribed handler, in subscription order.
// Handlers run without the scene lock held, so they may draw or unsubscribe.
func (s *Scene) Click(ctx context.Context, at domain.Coordinates) error {
	s.mu.Lock()
	ids := make([]uint64, 0, len(s.handlers))
	for id := range s.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	handlers := make([]ports.ClickHandler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, s.handlers[id])
	}
	s.mu.Unlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, at); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Scene) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Version:   s.version,
		Markers:   append([]domain.Marker(nil), s.markers...),
		RouteLine: append([]domain.Coordinates(nil), s.routeLine...),
		HasRoute:  s.hasRoute,
		Viewport:  s.viewport,
		Cursor:    s.cursor,
		Listeners: len(s.handlers),
	}
	if s.viewport.Bounds != nil {
		b := *s.viewport.Bounds
		snap.Viewport.Bounds = &b
	}
	return snap
}
