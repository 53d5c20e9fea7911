package ports

import (
	"context"
	"delivery-booking-service/internal/domain"
)

// Forward geocoding filters. Types restricts the feature kinds, Limit caps the result count.
type SearchOptions struct {
	Types []string
	Limit int
}

// Contract for turning text into places and points into places.
type Geocoder interface {
	// Return candidate addresses for a free-text query.
	Search(ctx context.Context, query string, opts SearchOptions) ([]domain.Address, error)
	// Return the best-matching address at a point. An empty slice means nothing was found.
	Reverse(ctx context.Context, at domain.Coordinates) ([]domain.Address, error)
}
