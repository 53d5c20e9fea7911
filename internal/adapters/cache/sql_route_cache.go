package cache

import (
	"context"
	"database/sql"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/platform/obs"
	"delivery-booking-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SQLRouteCache is a Postgres-backed cache of directions results keyed by the
// ordered point list.
type SQLRouteCache struct {
	DB *sql.DB
}

var _ ports.RouteCache = (*SQLRouteCache)(nil)

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// Fetch a cached route. ok is false on a miss.
func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ domain.Route, ok bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return domain.Route{}, false, errors.New("route cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return domain.Route{}, false, errors.New("get route cache: key must not be empty")
	}

	q := `
	SELECT distance_meters, duration_seconds, geometry
    FROM route_cache
    WHERE route_key = $1;
	`

	var (
		r       domain.Route
		rawGeom []byte
	)
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&r.DistanceMeters, &r.DurationSeconds, &rawGeom)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	var pairs [][]float64
	if err := json.Unmarshal(rawGeom, &pairs); err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: decode geometry: %w", err)
	}
	r.Geometry = make([]domain.Coordinates, 0, len(pairs))
	for _, p := range pairs {
		c, err := domain.CoordsFromList(p)
		if err != nil {
			return domain.Route{}, false, fmt.Errorf("get route cache: %w", err)
		}
		r.Geometry = append(r.Geometry, c)
	}

	return r, true, nil
}

// Store a route, replacing any previous entry for key.
func (s *SQLRouteCache) Put(ctx context.Context, key string, r domain.Route) (err error) {
	defer obs.Time(ctx, "route.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	pairs := make([][]float64, len(r.Geometry))
	for i, c := range r.Geometry {
		pairs[i] = c.CoordsToList()
	}
	geom, err := json.Marshal(pairs)
	if err != nil {
		return fmt.Errorf("insert route cache: encode geometry: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (route_key, distance_meters, duration_seconds, geometry, updated_at)
    VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (route_key) DO UPDATE
	SET distance_meters = EXCLUDED.distance_meters,
		duration_seconds = EXCLUDED.duration_seconds,
		geometry = EXCLUDED.geometry,
		updated_at = EXCLUDED.updated_at;
	`, key, r.DistanceMeters, r.DurationSeconds, geom)
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
