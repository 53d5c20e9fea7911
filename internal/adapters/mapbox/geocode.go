package mapbox

import (
	"context"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/platform/obs"
	"delivery-booking-service/internal/ports"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// sharedSearchTimeout bounds a deduplicated search that no caller can cancel.
const sharedSearchTimeout = 15 * time.Second

type geocodeResponse struct {
	Features []struct {
		Text      string    `json:"text"`
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"`
	} `json:"features"`
}

// Search runs a forward geocode. Identical concurrent queries share one
// upstream call, and results are served from the suggestion cache when one
// is configured.
func (c *Client) Search(
	ctx context.Context,
	query string,
	opts ports.SearchOptions,
) (_ []domain.Address, err error) {
	defer obs.Time(ctx, "mapbox.Search")(&err)

	norm := normalize(query)
	if norm == "" {
		return nil, nil
	}

	key := suggestionKey(norm, opts)

	if c.suggestions != nil {
		cached, ok, err := c.suggestions.Get(ctx, key)
		if err != nil {
			log.Printf("suggestion cache get failed key=%q err=%v", key, err)
		} else if ok {
			return cached, nil
		}
	}

	// The shared call outlives any one caller; each caller stops waiting
	// when its own context ends.
	ch := c.searches.DoChan(key, func() (any, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedSearchTimeout)
		defer cancel()
		return c.forward(sctx, norm, opts)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("mapbox search %q: %w", norm, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, fmt.Errorf("mapbox search %q: %w", norm, res.Err)
	}
	found := append([]domain.Address(nil), res.Val.([]domain.Address)...)

	if c.suggestions != nil {
		if err := c.suggestions.Put(ctx, key, found); err != nil {
			log.Printf("suggestion cache put failed key=%q err=%v", key, err)
		}
	}

	return found, nil
}

func suggestionKey(norm string, opts ports.SearchOptions) string {
	return fmt.Sprintf("%s|%s|%d", norm, strings.Join(opts.Types, ","), opts.Limit)
}

func (c *Client) forward(ctx context.Context, norm string, opts ports.SearchOptions) ([]domain.Address, error) {
	path := "/geocoding/v5/mapbox.places/" + url.PathEscape(norm) + ".json"

	q := url.Values{}
	if len(opts.Types) > 0 {
		q.Set("types", strings.Join(opts.Types, ","))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	q.Set("autocomplete", "true")

	return c.geocode(ctx, path, q)
}

// Reverse returns the best-matching place at a point.
func (c *Client) Reverse(ctx context.Context, at domain.Coordinates) (_ []domain.Address, err error) {
	defer obs.Time(ctx, "mapbox.Reverse")(&err)

	path := fmt.Sprintf("/geocoding/v5/mapbox.places/%.6f,%.6f.json", at.Lon, at.Lat)

	// Mapbox rejects limit on reverse lookups unless exactly one type is
	// given; without it the features come back most specific first.
	out, err := c.geocode(ctx, path, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("mapbox reverse %s: %w", at, err)
	}
	return out, nil
}

func (c *Client) geocode(ctx context.Context, path string, q url.Values) ([]domain.Address, error) {
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, path, q)
	})
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	out := make([]domain.Address, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		coords, err := domain.CoordsFromList(f.Center)
		if err != nil {
			log.Printf("skipping geocode feature place=%q err=%v", f.PlaceName, err)
			continue
		}
		out = append(out, domain.Address{
			Label:       featureLabel(f.Text, f.PlaceName),
			PlaceName:   f.PlaceName,
			Coordinates: coords,
		})
	}

	return out, nil
}

// featureLabel is the first component of the place name, e.g. the street line.
func featureLabel(text, placeName string) string {
	if head, _, ok := strings.Cut(placeName, ","); ok && strings.TrimSpace(head) != "" {
		return strings.TrimSpace(head)
	}
	if placeName != "" {
		return placeName
	}
	return text
}
