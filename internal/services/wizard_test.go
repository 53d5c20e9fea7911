package services

import (
	"context"
	"delivery-booking-service/internal/adapters/mapbox"
	"delivery-booking-service/internal/adapters/render"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/platform/apperr"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type memBookings struct {
	mu    sync.Mutex
	saved []domain.Booking
	err   error
}

func (m *memBookings) SaveBooking(ctx context.Context, b domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, b)
	return nil
}

func (m *memBookings) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.saved {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Booking{}, apperr.NotFound("booking not found")
}

type wizardFixture struct {
	w      *Wizard
	scene  *render.Scene
	dirs   *mapbox.MockDirections
	geo    *mapbox.MockGeocoder
	repo   *memBookings
	nowVal time.Time
}

func newTestWizard(t *testing.T) *wizardFixture {
	t.Helper()
	f := &wizardFixture{
		scene:  render.NewScene(),
		dirs:   &mapbox.MockDirections{Meters: 16_093.44},
		geo:    mapbox.NewMockGeocoder(nil),
		repo:   &memBookings{},
		nowVal: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	f.w = NewWizard("sess-1", WizardDeps{
		Geocoder:       f.geo,
		Directions:     f.dirs,
		Renderer:       f.scene,
		Bookings:       f.repo,
		SearchDebounce: time.Millisecond,
		Now:            func() time.Time { return f.nowVal },
	})
	t.Cleanup(f.w.Close)
	return f
}

func addr(label string, lon, lat float64) domain.Address {
	return domain.Address{Label: label, PlaceName: label + ", USA", Coordinates: domain.Coordinates{Lon: lon, Lat: lat}}
}

func (f *wizardFixture) assignEndpoints(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if err := f.w.AssignAddress(ctx, 1, addr("Origin", -73.99, 40.73)); err != nil {
		t.Fatalf("assign origin: %v", err)
	}
	if err := f.w.AssignAddress(ctx, 2, addr("Destination", -73.95, 40.78)); err != nil {
		t.Fatalf("assign destination: %v", err)
	}
}

func TestWizardRouteDrawnOnceBothEndpointsResolved(t *testing.T) {
	f := newTestWizard(t)
	ctx := context.Background()

	if err := f.w.AssignAddress(ctx, 1, addr("Origin", -73.99, 40.73)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(f.dirs.Calls()); n != 0 {
		t.Fatalf("directions calls = %d, want 0 with one endpoint", n)
	}

	if err := f.w.AssignAddress(ctx, 2, addr("Destination", -73.95, 40.78)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(f.dirs.Calls()); n != 1 {
		t.Fatalf("directions calls = %d, want 1", n)
	}

	st := f.w.State()
	if st.Form.RouteDistance.Display != "16.1 km (10.0 mi)" {
		t.Fatalf("display = %q", st.Form.RouteDistance.Display)
	}

	// Same stops again: nothing to redraw.
	if err := f.w.AssignAddress(ctx, 2, addr("Destination", -73.95, 40.78)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(f.dirs.Calls()); n != 1 {
		t.Fatalf("directions calls = %d, want 1 after unchanged assignment", n)
	}
}

func TestWizardRouteFailureKeepsAddressAndRetries(t *testing.T) {
	f := newTestWizard(t)
	f.dirs.Err = errors.New("connection refused")
	f.assignEndpoints(t)

	st := f.w.State()
	if !st.Form.Stops[1].Resolved() {
		t.Fatalf("destination lost after route failure")
	}
	if st.RouteError == "" {
		t.Fatalf("route error not recorded")
	}
	if st.Form.RouteDistance.Meters != 0 {
		t.Fatalf("distance = %v, want 0", st.Form.RouteDistance.Meters)
	}

	f.dirs.Err = nil
	if err := f.w.RetryRoute(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	st = f.w.State()
	if st.RouteError != "" || st.Form.RouteDistance.Meters <= 0 {
		t.Fatalf("retry did not restore route: %+v", st)
	}
}

func TestWizardRemoveStopRenumbersContacts(t *testing.T) {
	f := newTestWizard(t)
	ctx := context.Background()
	f.assignEndpoints(t)

	for i := 0; i < 2; i++ {
		if err := f.w.AddStop(); err != nil {
			t.Fatalf("add stop: %v", err)
		}
	}
	if err := f.w.AssignAddress(ctx, 3, addr("Third", -73.97, 40.75)); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := f.w.AssignAddress(ctx, 4, addr("Fourth", -73.96, 40.76)); err != nil {
		t.Fatalf("assign: %v", err)
	}
	f.w.Store().SetContactInfo(4, domain.ContactInfo{Name: "Dana", Phone: "2015550123"})

	if err := f.w.RemoveStop(ctx, 3); err != nil {
		t.Fatalf("remove: %v", err)
	}

	st := f.w.State()
	if len(st.Form.Stops) != 3 || st.Form.Stops[2].Address.Label != "Fourth" {
		t.Fatalf("stops = %+v", st.Form.Stops)
	}
	if st.Form.Contacts[3].Name != "Dana" {
		t.Fatalf("contacts = %+v, want Dana moved to 3", st.Form.Contacts)
	}
	if _, ok := st.Form.Contacts[4]; ok {
		t.Fatalf("contact 4 still present")
	}

	if err := f.w.RemoveStop(ctx, 1); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("removing origin: err = %v, want validation", err)
	}
}

func TestWizardPickingAssignsReverseGeocodedAddress(t *testing.T) {
	f := newTestWizard(t)
	f.geo.Reversed = []domain.Address{addr("Picked Place", 0, 0)}

	if err := f.w.StartPicking(2); err != nil {
		t.Fatalf("start picking: %v", err)
	}
	if err := f.scene.Click(context.Background(), domain.Coordinates{Lon: -73.9, Lat: 40.7}); err != nil {
		t.Fatalf("click: %v", err)
	}

	st := f.w.State()
	if st.Picking {
		t.Fatalf("picking still active after click")
	}
	got := st.Form.Stops[1].Address
	if got == nil || got.Label != "Picked Place" {
		t.Fatalf("destination = %+v", got)
	}
	if got.Coordinates != (domain.Coordinates{Lon: -73.9, Lat: 40.7}) {
		t.Fatalf("coordinates = %v, want the clicked point", got.Coordinates)
	}

	if err := f.w.StartPicking(9); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("StartPicking(9) err = %v, want validation", err)
	}
}

func TestWizardSelectSuggestion(t *testing.T) {
	f := newTestWizard(t)
	f.geo.Fallback = []domain.Address{addr("Main St", -73.99, 40.73)}

	if _, err := f.w.resolver.SearchNow(context.Background(), "main"); err != nil {
		t.Fatalf("search: %v", err)
	}
	if err := f.w.SelectSuggestion(context.Background(), 0, 1); err != nil {
		t.Fatalf("select: %v", err)
	}

	st := f.w.State()
	if st.Form.Stops[0].Address == nil || st.Form.Stops[0].Address.Label != "Main St" {
		t.Fatalf("origin = %+v", st.Form.Stops[0].Address)
	}
	if st.Suggestions.Open {
		t.Fatalf("suggestions still open")
	}
	if err := f.w.SelectSuggestion(context.Background(), 3, 1); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestWizardNextStepGates(t *testing.T) {
	f := newTestWizard(t)
	ctx := context.Background()

	if err := f.w.NextStep(ctx, nil); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("advancing without addresses: err = %v, want validation", err)
	}

	f.assignEndpoints(t)
	if err := f.w.NextStep(ctx, nil); err != nil {
		t.Fatalf("step 1: %v", err)
	}
	if err := f.w.NextStep(ctx, domain.VehicleType("spaceship")); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("unknown vehicle: err = %v, want validation", err)
	}
	if err := f.w.NextStep(ctx, domain.VehicleCargoVan); err != nil {
		t.Fatalf("step 2: %v", err)
	}
	if err := f.w.NextStep(ctx, domain.DeliveryTiming{Kind: domain.TimingScheduled}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("scheduled without date: err = %v, want validation", err)
	}
	if err := f.w.NextStep(ctx, domain.DeliveryTiming{Kind: domain.TimingRush}); err != nil {
		t.Fatalf("step 3: %v", err)
	}
	if err := f.w.NextStep(ctx, []domain.Order{}); err != nil {
		t.Fatalf("step 4: %v", err)
	}

	bad := map[int]domain.ContactInfo{1: {Name: "Ann", Phone: "not a phone"}}
	if err := f.w.NextStep(ctx, bad); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("bad phone: err = %v, want validation", err)
	}

	good := map[int]domain.ContactInfo{
		1: {Name: "Ann", Phone: "(201) 555-0123"},
		2: {Name: "Ben", Phone: "201-555-0123"},
	}
	if err := f.w.NextStep(ctx, good); err != nil {
		t.Fatalf("step 5: %v", err)
	}

	st := f.w.State()
	if st.Step != StepReview {
		t.Fatalf("step = %d, want %d", st.Step, StepReview)
	}
	if st.Form.Contacts[1].Phone != "+12015550123" {
		t.Fatalf("phone = %q, want E.164", st.Form.Contacts[1].Phone)
	}
}

func TestWizardSelectTimingSameDayCutoff(t *testing.T) {
	f := newTestWizard(t)

	ok, err := f.w.SelectTiming(domain.DeliveryTiming{Kind: domain.TimingSameDay})
	if err != nil || !ok {
		t.Fatalf("morning same-day: ok=%v err=%v, want accepted", ok, err)
	}

	f.nowVal = time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)
	f.w.Store().SetTiming(domain.DeliveryTiming{Kind: domain.TimingRush})

	ok, err = f.w.SelectTiming(domain.DeliveryTiming{Kind: domain.TimingSameDay})
	if err != nil || ok {
		t.Fatalf("afternoon same-day: ok=%v err=%v, want ignored", ok, err)
	}
	if got := f.w.State().Form.Timing.Kind; got != domain.TimingRush {
		t.Fatalf("timing = %q, want rush kept", got)
	}

	if _, err := f.w.SelectTiming(domain.DeliveryTiming{Kind: "whenever"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestWizardQuoteAndCapacityWarning(t *testing.T) {
	f := newTestWizard(t)
	f.assignEndpoints(t)

	if _, ok := f.w.Quote(); ok {
		t.Fatalf("quote available without a vehicle")
	}

	f.w.Store().SetVehicleType(domain.VehicleCar)
	q, ok := f.w.Quote()
	if !ok {
		t.Fatalf("quote unavailable")
	}
	// 10 miles in a car: 1.50 * 10 * 1.00 + 10.
	if q.Rush != 25 || q.SameDay != 22.5 || q.Scheduled != 21.25 {
		t.Fatalf("quote = %+v", q)
	}

	f.w.Store().SetOrders([]domain.Order{{Items: []domain.OrderItem{{Weight: 200, Quantity: 2}}}})
	st := f.w.State()
	if len(st.Warnings) != 1 || !strings.Contains(st.Warnings[0], "400 lbs") {
		t.Fatalf("warnings = %v", st.Warnings)
	}
}

func TestWizardSubmit(t *testing.T) {
	f := newTestWizard(t)
	ctx := context.Background()

	if _, err := f.w.Submit(ctx); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("empty submit: err = %v, want validation", err)
	}

	f.assignEndpoints(t)
	store := f.w.Store()
	store.SetVehicleType(domain.VehicleCar)
	store.SetTiming(domain.DeliveryTiming{Kind: domain.TimingScheduled, Date: "2026-03-04", Time: "10:30"})
	store.SetContactInfo(1, domain.ContactInfo{Name: "Ann", Phone: "+12015550123"})
	store.SetContactInfo(2, domain.ContactInfo{Name: "Ben", Phone: "+12015550123"})

	b, err := f.w.Submit(ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if b.ID == "" || b.SessionID != "sess-1" {
		t.Fatalf("booking ids = %q/%q", b.ID, b.SessionID)
	}
	if b.Price != 21.25 {
		t.Fatalf("price = %v, want scheduled price 21.25", b.Price)
	}
	if len(f.repo.saved) != 1 {
		t.Fatalf("saved = %d, want 1", len(f.repo.saved))
	}

	st := f.w.State()
	if st.Step != StepStops || st.Form.Stops[0].Resolved() || st.Form.VehicleType != nil {
		t.Fatalf("wizard not reset after submit: %+v", st)
	}
	if snap := f.scene.Snapshot(); len(snap.Markers) != 0 || snap.HasRoute {
		t.Fatalf("map not cleared after submit: %+v", snap)
	}
}

func TestWizardSubmitWithoutStorage(t *testing.T) {
	w := NewWizard("s", WizardDeps{
		Geocoder:   mapbox.NewMockGeocoder(nil),
		Directions: &mapbox.MockDirections{},
		Renderer:   render.NewScene(),
	})
	defer w.Close()

	if _, err := w.Submit(context.Background()); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("err = %v, want unavailable", err)
	}
}

func TestWizardOptimizeWaypoints(t *testing.T) {
	f := newTestWizard(t)
	ctx := context.Background()
	f.assignEndpoints(t)

	_ = f.w.AddStop()
	_ = f.w.AddStop()
	// Stop 3 is far, stop 4 is near the origin.
	_ = f.w.AssignAddress(ctx, 3, addr("Far", -73.0, 41.5))
	_ = f.w.AssignAddress(ctx, 4, addr("Near", -73.98, 40.735))
	f.w.Store().SetContactInfo(4, domain.ContactInfo{Name: "Near contact", Phone: "+12015550123"})

	if err := f.w.OptimizeWaypoints(ctx); err != nil {
		t.Fatalf("optimize: %v", err)
	}

	st := f.w.State()
	if st.Form.Stops[2].Address.Label != "Near" || st.Form.Stops[3].Address.Label != "Far" {
		t.Fatalf("stops = %v, %v", st.Form.Stops[2].Address.Label, st.Form.Stops[3].Address.Label)
	}
	if st.Form.Contacts[3].Name != "Near contact" {
		t.Fatalf("contacts = %+v", st.Form.Contacts)
	}
}

func TestWizardReset(t *testing.T) {
	f := newTestWizard(t)
	f.assignEndpoints(t)
	_ = f.w.StartPicking(1)
	f.w.GoToStep(4)

	f.w.Reset()

	st := f.w.State()
	if st.Step != StepStops || st.Picking || st.Form.Stops[0].Resolved() {
		t.Fatalf("state after reset = %+v", st)
	}
	if snap := f.scene.Snapshot(); snap.Listeners != 0 || len(snap.Markers) != 0 {
		t.Fatalf("scene after reset = %+v", snap)
	}
}
