package ports

import (
	"context"
	"delivery-booking-service/internal/domain"
)

// Narrow capability surface of whatever draws the map.
// MapController is the only caller; coordinates arrive already normalized.
type MapRenderer interface {
	AddMarker(m domain.Marker)
	ClearMarkers()
	// Replace the route line, creating it on first use.
	SetRouteLine(geometry []domain.Coordinates)
	ClearRouteLine()
	FitBounds(b domain.Bounds)
	FlyTo(center domain.Coordinates, zoom float64)
	SetCursor(cursor string)
	// Subscribe to map clicks. The returned func unsubscribes.
	OnClick(handler ClickHandler) (unsubscribe func())
}

// Receives a clicked map point.
type ClickHandler func(ctx context.Context, at domain.Coordinates) error
