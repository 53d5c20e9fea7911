package services

import (
	"context"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/platform/apperr"
	"delivery-booking-service/internal/ports"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

const (
	MinQueryLength        = 3
	MaxSuggestions        = 5
	DefaultSearchDebounce = 300 * time.Millisecond
)

// Feature kinds a forward search may return.
var SearchTypes = []string{"address", "place", "postcode"}

// What the suggestion dropdown currently shows.
type SuggestionState struct {
	// Sequence number of the request whose result is shown.
	Seq   uint64
	Query string
	Items []domain.Address
	Open  bool
	Err   error
}

// AddressResolver turns keystrokes into address suggestions and map points
// into addresses.
//
// Searches are debounced; every dispatched request takes the next sequence
// number and its response is applied only if no later request has been
// applied yet, so a slow early response never overwrites a newer one.
type AddressResolver struct {
	geocoder ports.Geocoder
	debounce time.Duration

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	timer   *time.Timer
	seq     uint64
	applied uint64
	state   SuggestionState
}

func NewAddressResolver(geocoder ports.Geocoder, debounce time.Duration) *AddressResolver {
	if debounce <= 0 {
		debounce = DefaultSearchDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &AddressResolver{
		geocoder: geocoder,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Search schedules a lookup for query once the debounce window passes with
// no further calls. Queries shorter than MinQueryLength clear the list at once.
func (r *AddressResolver) Search(query string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}

	if len([]rune(strings.TrimSpace(query))) < MinQueryLength {
		r.seq++
		r.applied = r.seq
		r.state = SuggestionState{Seq: r.seq, Query: query}
		return
	}

	// The sequence number is taken now, not when the timer fires, so a
	// clear issued after this call always outranks the delayed lookup.
	r.seq++
	seq := r.seq
	ctx := r.ctx
	r.timer = time.AfterFunc(r.debounce, func() {
		if _, err := r.lookup(ctx, seq, query); err != nil {
			log.Printf("address search failed query=%q err=%v", query, err)
		}
	})
}

// SearchNow issues the lookup immediately, under the same sequence guard as Search.
func (r *AddressResolver) SearchNow(ctx context.Context, query string) ([]domain.Address, error) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	return r.lookup(ctx, seq, query)
}

func (r *AddressResolver) lookup(ctx context.Context, seq uint64, query string) ([]domain.Address, error) {
	q := strings.TrimSpace(query)
	if len([]rune(q)) < MinQueryLength {
		r.apply(seq, query, nil, nil)
		return nil, nil
	}

	results, err := r.geocoder.Search(ctx, q, ports.SearchOptions{Types: SearchTypes, Limit: MaxSuggestions})
	if err != nil {
		err = apperr.Wrap(apperr.KindUpstream, "address search is unavailable, please retry", err).WithOp("search address")
		r.apply(seq, query, nil, err)
		return nil, err
	}
	if len(results) > MaxSuggestions {
		results = results[:MaxSuggestions]
	}

	for i := range results {
		results[i].Coordinates = results[i].Coordinates.Normalize()
	}

	r.apply(seq, query, results, nil)
	return results, nil
}

// apply installs a response unless a newer one already landed. Reports whether it did.
func (r *AddressResolver) apply(seq uint64, query string, items []domain.Address, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq <= r.applied {
		return false
	}
	r.applied = seq
	r.state = SuggestionState{
		Seq:   seq,
		Query: query,
		Items: items,
		Open:  len(items) > 0,
		Err:   err,
	}
	return true
}

func (r *AddressResolver) Suggestions() SuggestionState {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state
	s.Items = append([]domain.Address(nil), r.state.Items...)
	return s
}

// Select closes the suggestion list and hands the chosen address to onSelect.
func (r *AddressResolver) Select(index int, onSelect func(domain.Address) error) error {
	r.mu.Lock()
	if index < 0 || index >= len(r.state.Items) {
		r.mu.Unlock()
		return apperr.Validation(fmt.Sprintf("no suggestion at index %d", index)).WithOp("select suggestion")
	}
	chosen := r.state.Items[index]
	r.state.Open = false
	r.mu.Unlock()

	return onSelect(chosen)
}

// ReverseGeocode names the place at c. It never fails: when the lookup errors
// or finds nothing, the address falls back to "Location at {lng}, {lat}".
func (r *AddressResolver) ReverseGeocode(ctx context.Context, c domain.Coordinates) domain.Address {
	c = c.Normalize()

	results, err := r.geocoder.Reverse(ctx, c)
	if err != nil {
		log.Printf("reverse geocode failed lon=%.6f lat=%.6f err=%v (using fallback label)", c.Lon, c.Lat, err)
		return domain.FallbackAddress(c)
	}
	if len(results) == 0 {
		return domain.FallbackAddress(c)
	}

	best := results[0]
	return domain.Address{
		Label:       best.Label,
		PlaceName:   best.PlaceName,
		Coordinates: c,
	}
}

// Reset drops pending and in-flight searches and clears the list.
func (r *AddressResolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	r.ctx, r.cancel = context.WithCancel(context.Background())
	r.seq++
	r.applied = r.seq
	r.state = SuggestionState{Seq: r.seq}
}

// Close cancels everything outstanding. The resolver must not be used afterwards.
func (r *AddressResolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *AddressResolver) stopLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.cancel()
}
