package ports

import (
	"context"
	"delivery-booking-service/internal/domain"
)

// Cache of forward geocode results keyed by normalized query.
type SuggestionCache interface {
	// ok is false on a miss.
	Get(ctx context.Context, key string) (_ []domain.Address, ok bool, err error)
	Put(ctx context.Context, key string, addresses []domain.Address) error
}

// Cache of directions results keyed by the ordered point list.
type RouteCache interface {
	Get(ctx context.Context, key string) (_ domain.Route, ok bool, err error)
	Put(ctx context.Context, key string, route domain.Route) error
}
