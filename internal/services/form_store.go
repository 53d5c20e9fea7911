package services

import (
	"delivery-booking-service/internal/domain"
	"sync"
)

// Point-in-time copy of every wizard field.
type FormState struct {
	Stops         []domain.Stop
	RouteDistance domain.RouteDistance
	VehicleType   *domain.VehicleType
	Timing        *domain.DeliveryTiming
	Orders        []domain.Order
	Contacts      map[int]domain.ContactInfo
}

func defaultFormState() FormState {
	return FormState{
		Stops:    domain.DefaultStops(),
		Orders:   []domain.Order{},
		Contacts: map[int]domain.ContactInfo{},
	}
}

func (s FormState) clone() FormState {
	out := FormState{
		Stops:         domain.CloneStops(s.Stops),
		RouteDistance: s.RouteDistance,
		Orders:        domain.CloneOrders(s.Orders),
		Contacts:      make(map[int]domain.ContactInfo, len(s.Contacts)),
	}
	if s.VehicleType != nil {
		v := *s.VehicleType
		out.VehicleType = &v
	}
	if s.Timing != nil {
		t := *s.Timing
		out.Timing = &t
	}
	for k, c := range s.Contacts {
		out.Contacts[k] = c
	}
	return out
}

// FormStore holds the wizard-wide state for one session.
//
// Every setter replaces its field wholesale, except SetContactInfo which merges
// per stop ordinal. Readers get deep copies, so a snapshot never changes
// under them.
type FormStore struct {
	mu    sync.RWMutex
	state FormState
}

func NewFormStore() *FormStore {
	return &FormStore{state: defaultFormState()}
}

func (f *FormStore) Snapshot() FormState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.clone()
}

func (f *FormStore) Stops() []domain.Stop {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return domain.CloneStops(f.state.Stops)
}

// SetStops replaces the stop list, addresses included.
func (f *FormStore) SetStops(stops []domain.Stop) {
	stops = domain.CloneStops(stops)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Stops = stops
}

func (f *FormStore) SetRouteDistance(d domain.RouteDistance) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.RouteDistance = d
}

func (f *FormStore) SetVehicleType(v domain.VehicleType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.VehicleType = &v
}

func (f *FormStore) SetTiming(t domain.DeliveryTiming) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Timing = &t
}

func (f *FormStore) SetOrders(orders []domain.Order) {
	orders = domain.CloneOrders(orders)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Orders = orders
}

// SetContactInfo stores info for one stop, leaving other stops untouched.
func (f *FormStore) SetContactInfo(ordinal int, info domain.ContactInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Contacts[ordinal] = info
}

// ReplaceContacts swaps the whole contact map. Used when stops are renumbered.
func (f *FormStore) ReplaceContacts(contacts map[int]domain.ContactInfo) {
	next := make(map[int]domain.ContactInfo, len(contacts))
	for k, c := range contacts {
		next[k] = c
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Contacts = next
}

// ResetForm restores two empty stops, zero distance, no vehicle or timing,
// and empty orders and contacts.
func (f *FormStore) ResetForm() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = defaultFormState()
}
