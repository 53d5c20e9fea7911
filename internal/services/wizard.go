package services

import (
	"context"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/platform/apperr"
	"delivery-booking-service/internal/platform/phone"
	"delivery-booking-service/internal/platform/validator"
	"delivery-booking-service/internal/ports"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Collaborators a Wizard needs. Bookings may be nil, in which case Submit
// reports the service as unavailable.
type WizardDeps struct {
	Geocoder       ports.Geocoder
	Directions     ports.DirectionsProvider
	Renderer       ports.MapRenderer
	Bookings       ports.BookingRepository
	Pricing        PricingCalculator
	Validator      *validator.Validator
	SearchDebounce time.Duration
	Now            func() time.Time
}

// Everything a client needs to render the current wizard screen.
type WizardState struct {
	Step        int
	Header      StepHeader
	Form        FormState
	Suggestions SuggestionState
	Picking     bool
	PickingStop int
	RouteError  string
	Warnings    []string
	Quote       *Quote
	SameDayOpen bool
}

// Wizard is one booking session: the form store, the step navigator, the
// address resolver and the map controller, plus the per-step checks a
// booking screen performs before letting the user advance.
type Wizard struct {
	id        string
	store     *FormStore
	nav       *StepNavigator
	resolver  *AddressResolver
	mapCtl    *MapController
	bookings  ports.BookingRepository
	pricing   PricingCalculator
	validator *validator.Validator
	now       func() time.Time

	// Serializes compound updates (read stops, change, redraw route).
	mu         sync.Mutex
	routeKey   string
	routeError string
}

func NewWizard(id string, deps WizardDeps) *Wizard {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}

	store := NewFormStore()
	resolver := NewAddressResolver(deps.Geocoder, deps.SearchDebounce)

	return &Wizard{
		id:        id,
		store:     store,
		nav:       NewStepNavigator(store),
		resolver:  resolver,
		mapCtl:    NewMapController(deps.Renderer, deps.Directions, resolver),
		bookings:  deps.Bookings,
		pricing:   deps.Pricing,
		validator: deps.Validator,
		now:       deps.Now,
	}
}

func (w *Wizard) ID() string { return w.id }

func (w *Wizard) Store() *FormStore { return w.store }

func (w *Wizard) State() WizardState {
	form := w.store.Snapshot()
	picking, pickingStop := w.mapCtl.Picking()

	w.mu.Lock()
	routeErr := w.routeError
	w.mu.Unlock()

	st := WizardState{
		Step:        w.nav.Current(),
		Header:      w.nav.Header(),
		Form:        form,
		Suggestions: w.resolver.Suggestions(),
		Picking:     picking,
		PickingStop: pickingStop,
		RouteError:  routeErr,
		Warnings:    warningsFor(form),
		SameDayOpen: domain.SameDayAvailable(w.now()),
	}
	if q, ok := w.quoteFor(form); ok {
		st.Quote = &q
	}
	return st
}

// ---- Steps ----------------------------------------------------------------

// NextStep checks the payload the way the active step's screen would, then
// commits it and advances. A nil payload checks what the store already holds.
func (w *Wizard) NextStep(ctx context.Context, data any) error {
	step := w.nav.Current()

	data, err := w.gate(step, data)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.nav.NextStep(data); err != nil {
		return err
	}
	if step == StepStops && data != nil {
		_ = w.recomputeRouteLocked(ctx)
	}
	return nil
}

func (w *Wizard) PrevStep() { w.nav.PrevStep() }

func (w *Wizard) GoToStep(n int) int { return w.nav.GoToStep(n) }

// gate validates (and for contacts, normalizes) a step payload.
func (w *Wizard) gate(step int, data any) (any, error) {
	form := w.store.Snapshot()

	switch step {
	case StepStops:
		stops := form.Stops
		if data != nil {
			s, ok := data.([]domain.Stop)
			if !ok {
				return data, nil
			}
			stops = s
		}
		if err := checkStops(stops); err != nil {
			return nil, err
		}

	case StepVehicle:
		v := form.VehicleType
		if data != nil {
			if dv, ok := data.(domain.VehicleType); ok {
				v = &dv
			}
		}
		if v == nil {
			return nil, apperr.Validation("select a vehicle to continue")
		}
		if _, ok := domain.LookupVehicle(*v); !ok {
			return nil, apperr.Validation(fmt.Sprintf("unknown vehicle type %q", *v))
		}

	case StepTiming:
		t := form.Timing
		if data != nil {
			if dt, ok := data.(domain.DeliveryTiming); ok {
				t = &dt
			}
		}
		if t == nil {
			return nil, apperr.Validation("choose a delivery time to continue")
		}
		if err := w.checkTiming(*t); err != nil {
			return nil, err
		}

	case StepOrders:
		orders := form.Orders
		if data != nil {
			if o, ok := data.([]domain.Order); ok {
				orders = o
			}
		}
		for i, o := range orders {
			if err := w.validator.Struct(o); err != nil {
				return nil, apperr.Validation(fmt.Sprintf("order %d: %v", i+1, err))
			}
		}

	case StepContacts:
		contacts := form.Contacts
		if data != nil {
			c, ok := data.(map[int]domain.ContactInfo)
			if !ok {
				return data, nil
			}
			normalized, err := w.normalizeContacts(c, len(form.Stops))
			if err != nil {
				return nil, err
			}
			data = normalized
			contacts = mergeContacts(contacts, normalized)
		}
		if err := requireEndpointContacts(contacts); err != nil {
			return nil, err
		}
	}

	return data, nil
}

func checkStops(stops []domain.Stop) error {
	if len(stops) < domain.DestinationOrdinal {
		return apperr.Validation("a pickup and a drop-off are required")
	}
	for i, s := range stops {
		if s.Ordinal != i+1 {
			return apperr.Validation("stops must be numbered contiguously from 1")
		}
	}
	if !stops[domain.OriginOrdinal-1].Resolved() {
		return apperr.Validation("pickup address is required")
	}
	if !stops[domain.DestinationOrdinal-1].Resolved() {
		return apperr.Validation("drop-off address is required")
	}
	return nil
}

func (w *Wizard) checkTiming(t domain.DeliveryTiming) error {
	switch t.Kind {
	case domain.TimingRush:
		return nil
	case domain.TimingSameDay:
		if !domain.SameDayAvailable(w.now()) {
			return apperr.Validation(fmt.Sprintf("same-day delivery must be booked before %d:00", domain.SameDayCutoffHour))
		}
		return nil
	case domain.TimingScheduled:
		if !domain.ScheduledValid(t) {
			return apperr.Validation("scheduled delivery needs a date and a time")
		}
		return nil
	default:
		return apperr.Validation(fmt.Sprintf("unknown delivery timing %q", t.Kind))
	}
}

func (w *Wizard) normalizeContacts(in map[int]domain.ContactInfo, stopCount int) (map[int]domain.ContactInfo, error) {
	out := make(map[int]domain.ContactInfo, len(in))
	for ordinal, c := range in {
		if ordinal < 1 || ordinal > stopCount {
			return nil, apperr.Validation(fmt.Sprintf("contact for unknown stop %d", ordinal))
		}

		c.Name = strings.TrimSpace(c.Name)
		c.Email = strings.TrimSpace(c.Email)
		if err := w.validator.Struct(c); err != nil {
			return nil, apperr.Validation(fmt.Sprintf("stop %d contact: %v", ordinal, err))
		}
		if !phone.Valid(c.Phone) {
			return nil, apperr.Validation(fmt.Sprintf("stop %d contact: phone number is not valid", ordinal))
		}
		c.Phone = phone.NormalizeE164(c.Phone)
		out[ordinal] = c
	}
	return out, nil
}

func mergeContacts(base, overlay map[int]domain.ContactInfo) map[int]domain.ContactInfo {
	out := make(map[int]domain.ContactInfo, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

func requireEndpointContacts(contacts map[int]domain.ContactInfo) error {
	for _, ordinal := range []int{domain.OriginOrdinal, domain.DestinationOrdinal} {
		c, ok := contacts[ordinal]
		if !ok || c.Name == "" || c.Phone == "" {
			return apperr.Validation(fmt.Sprintf("name and phone are required for stop %d", ordinal))
		}
	}
	return nil
}

// ---- Stops & route ---------------------------------------------------------

func (w *Wizard) AddStop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	stops, err := domain.AddStop(w.store.Stops())
	if err != nil {
		return apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}
	w.store.SetStops(stops)
	return nil
}

// RemoveStop drops a waypoint, renumbers later stops and their contacts, and
// redraws the route.
func (w *Wizard) RemoveStop(ctx context.Context, ordinal int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	stops, err := domain.RemoveStop(w.store.Stops(), ordinal)
	if err != nil {
		return apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}

	w.store.SetStops(stops)
	w.store.ReplaceContacts(domain.RenumberContacts(w.store.Snapshot().Contacts, ordinal))

	if active, target := w.mapCtl.Picking(); active && target == ordinal {
		w.mapCtl.StopPicking()
	}

	_ = w.recomputeRouteLocked(ctx)
	return nil
}

// AssignAddress attaches addr to a stop and redraws the route when the set of
// resolved stops changed. A routing failure does not undo the assignment; it
// is kept as RouteError for the client to show with a retry.
func (w *Wizard) AssignAddress(ctx context.Context, ordinal int, addr domain.Address) error {
	addr.Coordinates = addr.Coordinates.Normalize()
	if strings.TrimSpace(addr.Label) == "" {
		return apperr.Validation("address label is required")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	stops, err := domain.SetStopAddress(w.store.Stops(), ordinal, addr)
	if err != nil {
		return apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}
	w.store.SetStops(stops)

	_ = w.recomputeRouteLocked(ctx)
	return nil
}

// OptimizeWaypoints reorders waypoints nearest-first and redraws the route.
func (w *Wizard) OptimizeWaypoints(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ordered, mapping, err := OrderWaypoints(w.store.Stops())
	if err != nil {
		return apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}

	w.store.SetStops(ordered)
	w.store.ReplaceContacts(domain.ReorderContacts(w.store.Snapshot().Contacts, mapping))

	_ = w.recomputeRouteLocked(ctx)
	return nil
}

// RetryRoute redraws the route even if the stops did not change.
func (w *Wizard) RetryRoute(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.routeKey = ""
	return w.recomputeRouteLocked(ctx)
}

func (w *Wizard) recomputeRouteLocked(ctx context.Context) error {
	stops := w.store.Stops()
	key := domain.RouteKey(stops)

	if key == "" {
		w.mapCtl.ClearRouteAndMarkers()
		w.store.SetRouteDistance(domain.RouteDistance{})
		w.routeKey, w.routeError = "", ""
		return nil
	}
	if key == w.routeKey && w.routeError == "" {
		return nil
	}

	origin, destination, waypoints, _ := domain.RouteEndpoints(stops)
	dist, err := w.mapCtl.DrawRoute(ctx, origin, destination, waypoints)
	w.routeKey = key
	if err != nil {
		_, msg := apperr.Status(err)
		log.Printf("session=%s route failed: %v", w.id, err)
		w.routeError = msg
		w.store.SetRouteDistance(domain.RouteDistance{})
		return err
	}

	w.routeError = ""
	w.store.SetRouteDistance(dist)
	return nil
}

// ---- Address search & map --------------------------------------------------

func (w *Wizard) Search(query string) { w.resolver.Search(query) }

func (w *Wizard) Suggestions() SuggestionState { return w.resolver.Suggestions() }

// SelectSuggestion assigns suggestion index to a stop and centers the map on it.
func (w *Wizard) SelectSuggestion(ctx context.Context, index, ordinal int) error {
	return w.resolver.Select(index, func(addr domain.Address) error {
		if err := w.AssignAddress(ctx, ordinal, addr); err != nil {
			return err
		}
		if !w.hasRoute() {
			w.mapCtl.FlyTo(addr.Coordinates, DefaultFlyToZoom)
		}
		return nil
	})
}

func (w *Wizard) hasRoute() bool {
	return w.store.Snapshot().RouteDistance.Meters > 0
}

// StartPicking arms the map so the next click fills stop ordinal.
func (w *Wizard) StartPicking(ordinal int) error {
	if ordinal < 1 || ordinal > len(w.store.Stops()) {
		return apperr.Validation(fmt.Sprintf("no stop %d to pick for", ordinal))
	}
	w.mapCtl.StartPicking(ordinal, w.AssignAddress)
	return nil
}

func (w *Wizard) StopPicking() { w.mapCtl.StopPicking() }

func (w *Wizard) FlyTo(c domain.Coordinates, zoom float64) { w.mapCtl.FlyTo(c, zoom) }

// ---- Timing, pricing, warnings --------------------------------------------

// SelectTiming stores a timing choice. Same-day after the cutoff is ignored
// and reported as not accepted.
func (w *Wizard) SelectTiming(t domain.DeliveryTiming) (bool, error) {
	if !t.Kind.Valid() {
		return false, apperr.Validation(fmt.Sprintf("unknown delivery timing %q", t.Kind))
	}
	if t.Kind == domain.TimingSameDay && !domain.SameDayAvailable(w.now()) {
		return false, nil
	}
	w.store.SetTiming(t)
	return true, nil
}

func (w *Wizard) Quote() (Quote, bool) {
	return w.quoteFor(w.store.Snapshot())
}

func (w *Wizard) quoteFor(form FormState) (Quote, bool) {
	if form.VehicleType == nil || form.RouteDistance.Meters <= 0 {
		return Quote{}, false
	}
	return w.pricing.Quote(*form.VehicleType, form.RouteDistance.Miles()), true
}

func warningsFor(form FormState) []string {
	var out []string
	if form.VehicleType != nil {
		if cw, exceeded := domain.CheckCapacity(form.Orders, *form.VehicleType); exceeded {
			out = append(out, cw.Message())
		}
	}
	return out
}

// ---- Lifecycle -------------------------------------------------------------

// Reset discards the session's form, pending searches, picking mode and drawing.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

func (w *Wizard) resetLocked() {
	w.resolver.Reset()
	w.mapCtl.StopPicking()
	w.mapCtl.ClearRouteAndMarkers()
	w.store.ResetForm()
	w.nav.GoToStep(FirstStep)
	w.routeKey, w.routeError = "", ""
}

// Submit checks the whole form, prices it, stores the booking and resets.
func (w *Wizard) Submit(ctx context.Context) (domain.Booking, error) {
	if w.bookings == nil {
		return domain.Booking{}, apperr.Unavailable("booking storage is not configured").WithOp("submit booking")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	form := w.store.Snapshot()
	if problems := w.submitProblems(form); len(problems) > 0 {
		return domain.Booking{}, apperr.Validation("cannot submit: " + strings.Join(problems, "; ")).WithOp("submit booking")
	}

	quote, _ := w.quoteFor(form)
	b := domain.Booking{
		ID:            uuid.NewString(),
		SessionID:     w.id,
		Stops:         form.Stops,
		Contacts:      form.Contacts,
		Vehicle:       *form.VehicleType,
		Timing:        *form.Timing,
		Orders:        form.Orders,
		RouteDistance: form.RouteDistance,
		Price:         quote.For(form.Timing.Kind),
		CreatedAt:     w.now().UTC(),
	}

	if err := w.bookings.SaveBooking(ctx, b); err != nil {
		return domain.Booking{}, fmt.Errorf("submit booking: %w", err)
	}

	log.Printf("session=%s booking=%s submitted vehicle=%s timing=%s price=%.2f", w.id, b.ID, b.Vehicle, b.Timing.Kind, b.Price)
	w.resetLocked()
	return b, nil
}

func (w *Wizard) submitProblems(form FormState) []string {
	var problems []string

	if err := checkStops(form.Stops); err != nil {
		problems = append(problems, err.(*apperr.Error).Message)
	}
	if form.RouteDistance.Meters <= 0 {
		problems = append(problems, "a drivable route is required")
	}
	if form.VehicleType == nil {
		problems = append(problems, "a vehicle is required")
	} else if _, ok := domain.LookupVehicle(*form.VehicleType); !ok {
		problems = append(problems, fmt.Sprintf("unknown vehicle type %q", *form.VehicleType))
	}
	if form.Timing == nil {
		problems = append(problems, "a delivery time is required")
	} else if err := w.checkTiming(*form.Timing); err != nil {
		problems = append(problems, err.(*apperr.Error).Message)
	}
	if err := requireEndpointContacts(form.Contacts); err != nil {
		problems = append(problems, err.(*apperr.Error).Message)
	}

	sort.Strings(problems)
	return problems
}

// Close releases timers and in-flight requests. The wizard must not be used afterwards.
func (w *Wizard) Close() {
	w.mapCtl.StopPicking()
	w.resolver.Close()
}
