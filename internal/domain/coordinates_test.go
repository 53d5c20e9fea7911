package domain

import (
	"math"
	"testing"
)

func TestCoordinatesNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Coordinates
		want Coordinates
	}{
		{"valid", Coordinates{Lon: -118.24, Lat: 34.05}, Coordinates{Lon: -118.24, Lat: 34.05}},
		{"lon 540 wraps to -180", Coordinates{Lon: 540, Lat: 0}, Coordinates{Lon: -180, Lat: 0}},
		{"lon 180 wraps to -180", Coordinates{Lon: 180, Lat: 0}, Coordinates{Lon: -180, Lat: 0}},
		{"lon 190", Coordinates{Lon: 190, Lat: 10}, Coordinates{Lon: -170, Lat: 10}},
		{"lon -190", Coordinates{Lon: -190, Lat: 10}, Coordinates{Lon: 170, Lat: 10}},
		{"lon -900", Coordinates{Lon: -900, Lat: 10}, Coordinates{Lon: 180 - 360, Lat: 10}},
		{"lat clamped high", Coordinates{Lon: 0, Lat: 95}, Coordinates{Lon: 0, Lat: 90}},
		{"lat clamped low", Coordinates{Lon: 0, Lat: -100}, Coordinates{Lon: 0, Lat: -90}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if math.Abs(got.Lon-tt.want.Lon) > 1e-9 || math.Abs(got.Lat-tt.want.Lat) > 1e-9 {
				t.Fatalf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCoordinatesNormalizeKeepsValidValues(t *testing.T) {
	inputs := []Coordinates{
		{Lon: -118.24, Lat: 34.05},
		{Lon: -122.4, Lat: 37.8},
		{Lon: 13.4, Lat: 52.52},
		{Lon: 0.1, Lat: -0.1},
		{Lon: -73.98, Lat: 40.75},
		{Lon: -180, Lat: -90},
		{Lon: 179.999999, Lat: 90},
		{Lon: 0, Lat: 0},
	}

	for _, in := range inputs {
		if got := in.Normalize(); got != in {
			t.Fatalf("Normalize(%v) = %v, want unchanged", in, got)
		}
	}
}

func TestCoordinatesNormalizeIdempotent(t *testing.T) {
	inputs := []Coordinates{
		{Lon: 725.5, Lat: 120},
		{Lon: -1000, Lat: -3},
		{Lon: 180, Lat: 0},
		{Lon: -190.25, Lat: 10},
	}

	for _, in := range inputs {
		once := in.Normalize()
		twice := once.Normalize()
		if once != twice {
			t.Fatalf("Normalize not idempotent for %v: %v then %v", in, once, twice)
		}
	}
}

func TestCoordsFromList(t *testing.T) {
	if _, err := CoordsFromList([]float64{1}); err == nil {
		t.Fatal("expected error for short list")
	}
	if _, err := CoordsFromList([]float64{math.NaN(), 1}); err == nil {
		t.Fatal("expected error for NaN")
	}

	c, err := CoordsFromList([]float64{-122.4, 37.8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lon != -122.4 || c.Lat != 37.8 {
		t.Fatalf("got %v", c)
	}
}

func TestDistanceMeters(t *testing.T) {
	la := Coordinates{Lon: -118.24, Lat: 34.05}
	sf := Coordinates{Lon: -122.4, Lat: 37.8}

	d := la.DistanceMeters(sf)
	// Great-circle LA -> SF is roughly 560 km.
	if d < 540_000 || d > 580_000 {
		t.Fatalf("distance = %.0f m, want ~560 km", d)
	}
	if la.DistanceMeters(la) != 0 {
		t.Fatal("distance to self should be zero")
	}
}

func TestBoundsOf(t *testing.T) {
	if _, ok := BoundsOf(nil); ok {
		t.Fatal("expected no bounds for empty input")
	}

	b, ok := BoundsOf([]Coordinates{{Lon: -118, Lat: 34}, {Lon: -122, Lat: 38}, {Lon: -120, Lat: 36}})
	if !ok {
		t.Fatal("expected bounds")
	}
	if b.SouthWest != (Coordinates{Lon: -122, Lat: 34}) || b.NorthEast != (Coordinates{Lon: -118, Lat: 38}) {
		t.Fatalf("bounds = %+v", b)
	}
}
