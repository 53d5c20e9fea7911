package mapbox

import (
	"context"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/platform/obs"
	"delivery-booking-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
)

// Mapbox allows at most 25 coordinates per directions request.
const maxRoutePoints = 25

type directionsResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Route requests a driving route through points in order. Provider codes
// InvalidInput and NoRoute/NoSegment are reported as ports.ErrInvalidInput
// and ports.ErrNoRoute.
func (c *Client) Route(ctx context.Context, points []domain.Coordinates) (_ domain.Route, err error) {
	defer obs.Time(ctx, "mapbox.Route")(&err)

	if len(points) < 2 {
		return domain.Route{}, fmt.Errorf("mapbox route: need at least 2 points, got %d: %w", len(points), ports.ErrInvalidInput)
	}
	if len(points) > maxRoutePoints {
		return domain.Route{}, fmt.Errorf("mapbox route: at most %d points, got %d: %w", maxRoutePoints, len(points), ports.ErrInvalidInput)
	}

	key := routeKey(c.profile, points)

	if c.routes != nil {
		cached, ok, err := c.routes.Get(ctx, key)
		if err != nil {
			log.Printf("route cache get failed key=%q err=%v", key, err)
		} else if ok {
			return cached, nil
		}
	}

	route, err := c.fetchRoute(ctx, points)
	if err != nil {
		return domain.Route{}, fmt.Errorf("mapbox route: %w", err)
	}

	if c.routes != nil {
		if err := c.routes.Put(ctx, key, route); err != nil {
			log.Printf("route cache put failed key=%q err=%v", key, err)
		}
	}

	return route, nil
}

func routeKey(profile string, points []domain.Coordinates) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%.6f,%.6f", p.Lon, p.Lat)
	}
	return profile + ":" + strings.Join(parts, ";")
}

func (c *Client) fetchRoute(ctx context.Context, points []domain.Coordinates) (domain.Route, error) {
	coords := make([]string, len(points))
	for i, p := range points {
		coords[i] = fmt.Sprintf("%.6f,%.6f", p.Lon, p.Lat)
	}
	path := "/directions/v5/mapbox/" + c.profile + "/" + strings.Join(coords, ";") + ".json"

	q := url.Values{}
	q.Set("geometries", "geojson")
	q.Set("overview", "full")

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, path, q)
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) {
			var body directionsResponse
			if json.Unmarshal([]byte(he.Body), &body) == nil {
				if sentinel := codeError(body.Code); sentinel != nil {
					return domain.Route{}, fmt.Errorf("%s: %w", body.Message, sentinel)
				}
			}
		}
		return domain.Route{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Route{}, fmt.Errorf("decode directions response: %w", err)
	}

	if decoded.Code != "Ok" {
		if sentinel := codeError(decoded.Code); sentinel != nil {
			return domain.Route{}, fmt.Errorf("%s: %w", decoded.Message, sentinel)
		}
		return domain.Route{}, fmt.Errorf("unexpected directions code %q: %s", decoded.Code, decoded.Message)
	}
	if len(decoded.Routes) == 0 {
		return domain.Route{}, ports.ErrNoRoute
	}

	best := decoded.Routes[0]
	geometry := make([]domain.Coordinates, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		p, err := domain.CoordsFromList(pair)
		if err != nil {
			return domain.Route{}, fmt.Errorf("decode route geometry: %w", err)
		}
		geometry = append(geometry, p)
	}

	return domain.Route{
		Geometry:        geometry,
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
	}, nil
}

func codeError(code string) error {
	switch code {
	case "InvalidInput":
		return ports.ErrInvalidInput
	case "NoRoute", "NoSegment":
		return ports.ErrNoRoute
	}
	return nil
}
