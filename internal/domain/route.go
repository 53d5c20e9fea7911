package domain

import "fmt"

const metersPerMile = 1609.344

// Total length of the drawn route with a ready-to-show label.
type RouteDistance struct {
	Meters  float64
	Display string
}

func NewRouteDistance(meters float64) RouteDistance {
	if meters <= 0 {
		return RouteDistance{}
	}
	return RouteDistance{
		Meters:  meters,
		Display: fmt.Sprintf("%.1f km (%.1f mi)", meters/1000, meters/metersPerMile),
	}
}

func (d RouteDistance) Miles() float64 { return d.Meters / metersPerMile }

// A driving path returned by a directions provider.
type Route struct {
	Geometry        []Coordinates
	DistanceMeters  float64
	DurationSeconds float64
}

type MarkerKind string

const (
	MarkerEndpoint MarkerKind = "endpoint"
	MarkerWaypoint MarkerKind = "waypoint"
	MarkerPlain    MarkerKind = "plain"
)

var markerColors = map[MarkerKind]string{
	MarkerEndpoint: "#2563eb",
	MarkerWaypoint: "#f59e0b",
	MarkerPlain:    "#6b7280",
}

// Visual pin on the map. Markers carry no state beyond their label and colour.
type Marker struct {
	Position Coordinates
	Label    string
	Kind     MarkerKind
}

func (m Marker) Color() string { return markerColors[m.Kind] }
