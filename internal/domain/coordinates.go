package domain

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371008.8

// Geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Build coordinates from a [lon, lat] pair as returned by geocoders.
func CoordsFromList(pair []float64) (Coordinates, error) {
	if len(pair) != 2 {
		return Coordinates{}, fmt.Errorf("coordinates: expected [lon, lat], got %d values", len(pair))
	}
	for _, v := range pair {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Coordinates{}, fmt.Errorf("coordinates: non-finite value in %v", pair)
		}
	}
	return Coordinates{Lon: pair[0], Lat: pair[1]}, nil
}

// Normalize wraps longitude into [-180, 180) and clamps latitude into [-90, 90].
// In-range values come back bit-for-bit unchanged.
//
// Out-of-range longitude uses ((lng+540) mod 360) - 180 with a non-negative
// modulo, so 180 and 540 both map to -180.
func (c Coordinates) Normalize() Coordinates {
	lon := c.Lon
	if lon < -180 || lon >= 180 {
		lon = math.Mod(lon+540, 360)
		if lon < 0 {
			lon += 360
		}
		lon -= 180
	}

	lat := math.Max(-90, math.Min(90, c.Lat))

	return Coordinates{Lon: lon, Lat: lat}
}

// DistanceMeters returns the great-circle distance to other.
func (c Coordinates) DistanceMeters(other Coordinates) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := toRad(other.Lat - c.Lat)
	dLon := toRad(other.Lon - c.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(c.Lat))*math.Cos(toRad(other.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(a)))
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Lon, c.Lat)
}

// Axis-aligned bounding box, south-west to north-east.
type Bounds struct {
	SouthWest Coordinates
	NorthEast Coordinates
}

// BoundsOf returns the smallest box holding every point. ok is false for an empty slice.
func BoundsOf(points []Coordinates) (b Bounds, ok bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}

	b = Bounds{SouthWest: points[0], NorthEast: points[0]}
	for _, p := range points[1:] {
		b.SouthWest.Lon = math.Min(b.SouthWest.Lon, p.Lon)
		b.SouthWest.Lat = math.Min(b.SouthWest.Lat, p.Lat)
		b.NorthEast.Lon = math.Max(b.NorthEast.Lon, p.Lon)
		b.NorthEast.Lat = math.Max(b.NorthEast.Lat, p.Lat)
	}

	return b, true
}
