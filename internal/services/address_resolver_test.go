package services

import (
	"context"
	"delivery-booking-service/internal/adapters/mapbox"
	"delivery-booking-service/internal/domain"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func addresses(n int, prefix string) []domain.Address {
	out := make([]domain.Address, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Address{
			Label:       fmt.Sprintf("%s %d", prefix, i),
			PlaceName:   fmt.Sprintf("%s %d, Springfield", prefix, i),
			Coordinates: domain.Coordinates{Lon: -118 + float64(i)/100, Lat: 34},
		})
	}
	return out
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSearchDebouncesToOneRequest(t *testing.T) {
	geo := mapbox.NewMockGeocoder(map[string][]domain.Address{
		"123 Main St": addresses(7, "Main"),
	})
	r := NewAddressResolver(geo, 20*time.Millisecond)
	defer r.Close()

	for _, q := range []string{"1", "12", "123", "123 M", "123 Main", "123 Main St"} {
		r.Search(q)
	}

	waitFor(t, "suggestions", func() bool { return r.Suggestions().Query == "123 Main St" })
	time.Sleep(60 * time.Millisecond)

	calls := geo.Searches()
	if len(calls) != 1 || calls[0] != "123 Main St" {
		t.Fatalf("geocoder calls = %q, want exactly [\"123 Main St\"]", calls)
	}

	s := r.Suggestions()
	if len(s.Items) != MaxSuggestions {
		t.Fatalf("suggestions = %d, want %d", len(s.Items), MaxSuggestions)
	}
	if !s.Open {
		t.Fatal("suggestion list should be open")
	}
}

func TestShortQueryClearsSuggestions(t *testing.T) {
	geo := mapbox.NewMockGeocoder(nil)
	geo.Fallback = addresses(2, "Elm")
	r := NewAddressResolver(geo, 10*time.Millisecond)
	defer r.Close()

	if _, err := r.SearchNow(context.Background(), "Elm Street"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Suggestions().Items) != 2 {
		t.Fatal("expected suggestions before clearing")
	}

	r.Search("El")

	s := r.Suggestions()
	if len(s.Items) != 0 || s.Open {
		t.Fatalf("short query left suggestions: %+v", s)
	}
	time.Sleep(30 * time.Millisecond)
	if n := len(geo.Searches()); n != 1 {
		t.Fatalf("geocoder calls = %d, want 1", n)
	}
}

func TestSlowResponseDoesNotOverwriteNewer(t *testing.T) {
	release := make(chan struct{})
	geo := mapbox.NewMockGeocoder(map[string][]domain.Address{
		"slow query": addresses(1, "Slow"),
		"fast query": addresses(1, "Fast"),
	})
	geo.BeforeSearch = func(q string) {
		if q == "slow query" {
			<-release
		}
	}
	r := NewAddressResolver(geo, time.Millisecond)
	defer r.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = r.SearchNow(context.Background(), "slow query")
	}()
	waitFor(t, "slow request in flight", func() bool { return len(geo.Searches()) == 1 })

	if _, err := r.SearchNow(context.Background(), "fast query"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(release)
	wg.Wait()

	s := r.Suggestions()
	if s.Query != "fast query" || s.Items[0].Label != "Fast 0" {
		t.Fatalf("stale response applied: %+v", s)
	}
}

func TestShortQueryAfterDebounceFiredStaysCleared(t *testing.T) {
	release := make(chan struct{})
	geo := mapbox.NewMockGeocoder(nil)
	geo.Fallback = addresses(3, "Oak")
	geo.BeforeSearch = func(string) { <-release }
	r := NewAddressResolver(geo, time.Millisecond)
	defer r.Close()

	r.Search("Oak Avenue")
	waitFor(t, "debounced request in flight", func() bool { return len(geo.Searches()) == 1 })

	r.Search("Oa")
	cleared := r.Suggestions()
	close(release)
	time.Sleep(30 * time.Millisecond)

	s := r.Suggestions()
	if len(s.Items) != 0 || s.Open {
		t.Fatalf("stale suggestions after clear: %+v", s)
	}
	if s.Seq != cleared.Seq || s.Query != "Oa" {
		t.Fatalf("state = %+v, want the cleared state %+v", s, cleared)
	}
}

func TestSearchErrorIsReported(t *testing.T) {
	geo := mapbox.NewMockGeocoder(nil)
	geo.SearchErr = errors.New("boom")
	r := NewAddressResolver(geo, time.Millisecond)
	defer r.Close()

	if _, err := r.SearchNow(context.Background(), "123 Main St"); err == nil {
		t.Fatal("expected error")
	}
	if s := r.Suggestions(); s.Err == nil || s.Open {
		t.Fatalf("state = %+v, want error and closed list", s)
	}
}

func TestReverseGeocodeFallback(t *testing.T) {
	at := domain.Coordinates{Lon: -118.24, Lat: 34.05}

	geo := mapbox.NewMockGeocoder(nil)
	geo.ReverseErr = errors.New("network down")
	r := NewAddressResolver(geo, time.Millisecond)
	defer r.Close()

	got := r.ReverseGeocode(context.Background(), at)
	if want := "Location at -118.240000, 34.050000"; got.Label != want {
		t.Fatalf("label = %q, want %q", got.Label, want)
	}
	if got.Coordinates != at {
		t.Fatalf("coordinates = %v, want %v", got.Coordinates, at)
	}

	geo.ReverseErr = nil
	if got := r.ReverseGeocode(context.Background(), at); got.Label != "Location at -118.240000, 34.050000" {
		t.Fatalf("empty result label = %q", got.Label)
	}

	geo.Reversed = []domain.Address{{Label: "200 N Spring St", PlaceName: "200 N Spring St, Los Angeles, CA", Coordinates: domain.Coordinates{Lon: -118.2426, Lat: 34.0537}}}
	got = r.ReverseGeocode(context.Background(), at)
	if got.Label != "200 N Spring St" || got.Coordinates != at {
		t.Fatalf("reverse = %+v", got)
	}
}

func TestSelectClosesListAndInvokesCallback(t *testing.T) {
	geo := mapbox.NewMockGeocoder(nil)
	geo.Fallback = addresses(3, "Oak")
	r := NewAddressResolver(geo, time.Millisecond)
	defer r.Close()

	if _, err := r.SearchNow(context.Background(), "Oak Ave"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.Select(7, func(domain.Address) error { return nil }); err == nil {
		t.Fatal("expected error for out-of-range index")
	}

	var chosen domain.Address
	if err := r.Select(1, func(a domain.Address) error { chosen = a; return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chosen.Label != "Oak 1" {
		t.Fatalf("chosen = %q, want Oak 1", chosen.Label)
	}
	if r.Suggestions().Open {
		t.Fatal("list should be closed after select")
	}
}

func TestResetDropsPendingSearch(t *testing.T) {
	geo := mapbox.NewMockGeocoder(nil)
	r := NewAddressResolver(geo, 30*time.Millisecond)
	defer r.Close()

	r.Search("123 Main St")
	r.Reset()

	time.Sleep(90 * time.Millisecond)
	if n := len(geo.Searches()); n != 0 {
		t.Fatalf("geocoder calls = %d, want 0", n)
	}
}
