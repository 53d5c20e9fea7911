package ports

import (
	"context"
	"delivery-booking-service/internal/domain"
	"errors"
)

var (
	// The provider rejected the coordinates (malformed or out of range).
	ErrInvalidInput = errors.New("directions: invalid input")
	// No drivable path connects the points.
	ErrNoRoute = errors.New("directions: no route found")
)

// Contract for computing a driving route through ordered points.
type DirectionsProvider interface {
	// Return the driving route visiting points in order. Failures wrap ErrInvalidInput or ErrNoRoute when the provider says so.
	Route(ctx context.Context, points []domain.Coordinates) (domain.Route, error)
}
