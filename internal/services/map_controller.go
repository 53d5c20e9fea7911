package services

import (
	"context"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/platform/apperr"
	"delivery-booking-service/internal/platform/obs"
	"delivery-booking-service/internal/ports"
	"errors"
	"strconv"
	"sync"
)

const (
	CursorDefault = ""
	CursorPicking = "crosshair"

	DefaultFlyToZoom = 14.0
	maxZoom          = 22.0
)

// Receives the address resolved by a map pick for the targeted stop.
type PickFunc func(ctx context.Context, ordinal int, addr domain.Address) error

// MapController is the wizard's only handle on the map. It normalizes every
// coordinate before it reaches the renderer and owns the point-picking mode.
type MapController struct {
	renderer   ports.MapRenderer
	directions ports.DirectionsProvider
	resolver   *AddressResolver

	mu          sync.Mutex
	picking     bool
	pickTarget  int
	onPick      PickFunc
	unsubscribe func()
}

func NewMapController(renderer ports.MapRenderer, directions ports.DirectionsProvider, resolver *AddressResolver) *MapController {
	return &MapController{
		renderer:   renderer,
		directions: directions,
		resolver:   resolver,
	}
}

// DrawRoute replaces whatever is drawn with numbered markers (origin "1",
// waypoints from "2", destination last) and the driving route through them in
// order. On failure the markers stay but no route line is left behind.
func (m *MapController) DrawRoute(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	waypoints []domain.Coordinates,
) (_ domain.RouteDistance, err error) {
	defer obs.Time(ctx, "map.DrawRoute")(&err)

	m.ClearRouteAndMarkers()

	points := make([]domain.Coordinates, 0, len(waypoints)+2)
	points = append(points, origin.Normalize())
	for _, w := range waypoints {
		points = append(points, w.Normalize())
	}
	points = append(points, destination.Normalize())

	for i, p := range points {
		kind := domain.MarkerWaypoint
		if i == 0 || i == len(points)-1 {
			kind = domain.MarkerEndpoint
		}
		m.renderer.AddMarker(domain.Marker{Position: p, Label: strconv.Itoa(i + 1), Kind: kind})
	}

	route, err := m.directions.Route(ctx, points)
	if err != nil {
		m.renderer.ClearRouteLine()
		return domain.RouteDistance{}, routeError(err)
	}
	if route.DistanceMeters <= 0 || len(route.Geometry) < 2 {
		m.renderer.ClearRouteLine()
		return domain.RouteDistance{}, routeError(ports.ErrNoRoute)
	}

	geometry := make([]domain.Coordinates, 0, len(route.Geometry))
	for _, c := range route.Geometry {
		geometry = append(geometry, c.Normalize())
	}

	m.renderer.SetRouteLine(geometry)
	if b, ok := domain.BoundsOf(geometry); ok {
		m.renderer.FitBounds(b)
	}

	return domain.NewRouteDistance(route.DistanceMeters), nil
}

func routeError(err error) error {
	switch {
	case errors.Is(err, ports.ErrInvalidInput):
		return apperr.Wrap(apperr.KindValidation, "the selected stops could not be routed, check the addresses", err).WithOp("draw route")
	case errors.Is(err, ports.ErrNoRoute):
		return apperr.Wrap(apperr.KindValidation, "no driving route connects the selected stops", err).WithOp("draw route")
	default:
		return apperr.Wrap(apperr.KindUpstream, "route service unavailable, please retry", err).WithOp("draw route")
	}
}

// FlyTo centers the map on c. A non-positive zoom uses DefaultFlyToZoom.
func (m *MapController) FlyTo(c domain.Coordinates, zoom float64) {
	if zoom <= 0 {
		zoom = DefaultFlyToZoom
	}
	m.renderer.FlyTo(c.Normalize(), min(zoom, maxZoom))
}

// AddMarker drops an unnumbered pin, e.g. to preview a suggestion.
func (m *MapController) AddMarker(c domain.Coordinates, label string) {
	m.renderer.AddMarker(domain.Marker{Position: c.Normalize(), Label: label, Kind: domain.MarkerPlain})
}

func (m *MapController) ClearRouteAndMarkers() {
	m.renderer.ClearMarkers()
	m.renderer.ClearRouteLine()
}

// StartPicking arms the map so the next click resolves an address for stop
// ordinal. Calling it again while armed only retargets; a single click
// handler is ever registered.
func (m *MapController) StartPicking(ordinal int, onPick PickFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pickTarget = ordinal
	m.onPick = onPick
	if m.picking {
		return
	}

	m.picking = true
	m.unsubscribe = m.renderer.OnClick(m.handleClick)
	m.renderer.SetCursor(CursorPicking)
}

func (m *MapController) StopPicking() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopPickingLocked()
}

func (m *MapController) stopPickingLocked() {
	if !m.picking {
		return
	}
	m.picking = false
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.renderer.SetCursor(CursorDefault)
}

// Picking reports whether picking mode is armed and for which stop.
func (m *MapController) Picking() (active bool, ordinal int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.picking, m.pickTarget
}

func (m *MapController) handleClick(ctx context.Context, at domain.Coordinates) error {
	m.mu.Lock()
	if !m.picking {
		m.mu.Unlock()
		return nil
	}
	target, onPick := m.pickTarget, m.onPick
	m.stopPickingLocked()
	m.mu.Unlock()

	addr := m.resolver.ReverseGeocode(ctx, at)
	if onPick == nil {
		return nil
	}
	return onPick(ctx, target, addr)
}
