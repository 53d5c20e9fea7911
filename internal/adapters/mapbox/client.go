package mapbox

import (
	"delivery-booking-service/internal/ports"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const DefaultBaseURL = "https://api.mapbox.com"

// Client implements Geocoder and DirectionsProvider against the Mapbox
// Geocoding v5 and Directions v5 APIs.
//
// It coordinates:
//   - Query normalization
//   - Optional suggestion and route caches
//   - Deduplication of identical concurrent searches
//   - External API calls with retry/backoff
//
// The client is safe for concurrent use.
type Client struct {
	session     *http.Client
	token       string
	baseURL     string
	profile     string
	maxAttempts int
	backoff     time.Duration

	suggestions ports.SuggestionCache
	routes      ports.RouteCache

	searches singleflight.Group
}

var (
	_ ports.Geocoder           = (*Client)(nil)
	_ ports.DirectionsProvider = (*Client)(nil)
)

// Option tweaks a Client at construction.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.session = h }
}

// WithRetry sets the attempt budget and the first backoff delay.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxAttempts = max(1, attempts)
		c.backoff = backoff
	}
}

// Either cache may be nil.
func WithCaches(suggestions ports.SuggestionCache, routes ports.RouteCache) Option {
	return func(c *Client) {
		c.suggestions = suggestions
		c.routes = routes
	}
}

func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, errors.New("mapbox access token is empty")
	}

	c := &Client{
		session:     &http.Client{Timeout: 10 * time.Second},
		token:       token,
		baseURL:     DefaultBaseURL,
		profile:     "driving",
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// normalize ensures consistent cache keys by collapsing whitespace and case.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
