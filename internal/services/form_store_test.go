package services

import (
	"delivery-booking-service/internal/domain"
	"testing"
)

func TestFormStoreResetAfterMutations(t *testing.T) {
	store := NewFormStore()

	stops, _ := domain.AddStop(domain.DefaultStops())
	stops, _ = domain.SetStopAddress(stops, 1, domain.Address{Label: "A"})
	stops, _ = domain.SetStopAddress(stops, 3, domain.Address{Label: "C"})
	store.SetStops(stops)
	store.SetRouteDistance(domain.NewRouteDistance(12_000))
	store.SetVehicleType(domain.VehicleSUV)
	store.SetTiming(domain.DeliveryTiming{Kind: domain.TimingRush})
	store.SetOrders([]domain.Order{{OrderNumber: "1"}})
	store.SetContactInfo(1, domain.ContactInfo{Name: "Ada"})

	store.ResetForm()
	s := store.Snapshot()

	if len(s.Stops) != 2 || s.Stops[0].Ordinal != 1 || s.Stops[1].Ordinal != 2 {
		t.Fatalf("stops = %+v, want [1,2]", s.Stops)
	}
	for _, st := range s.Stops {
		if st.Address != nil {
			t.Fatalf("stop %d still has an address", st.Ordinal)
		}
	}
	if s.RouteDistance.Meters != 0 {
		t.Fatalf("route distance = %v, want 0", s.RouteDistance.Meters)
	}
	if s.VehicleType != nil || s.Timing != nil {
		t.Fatalf("vehicle/timing not cleared: %v %v", s.VehicleType, s.Timing)
	}
	if len(s.Orders) != 0 || len(s.Contacts) != 0 {
		t.Fatalf("orders/contacts not cleared: %v %v", s.Orders, s.Contacts)
	}
}

func TestFormStoreContactsMergePerStop(t *testing.T) {
	store := NewFormStore()

	store.SetContactInfo(1, domain.ContactInfo{Name: "Ada"})
	store.SetContactInfo(2, domain.ContactInfo{Name: "Grace"})
	store.SetContactInfo(1, domain.ContactInfo{Name: "Alan"})

	c := store.Snapshot().Contacts
	if len(c) != 2 || c[1].Name != "Alan" || c[2].Name != "Grace" {
		t.Fatalf("contacts = %+v", c)
	}
}

func TestFormStoreOrdersReplaceWholesale(t *testing.T) {
	store := NewFormStore()

	store.SetOrders([]domain.Order{{OrderNumber: "1"}, {OrderNumber: "2"}})
	store.SetOrders([]domain.Order{{OrderNumber: "3"}})

	orders := store.Snapshot().Orders
	if len(orders) != 1 || orders[0].OrderNumber != "3" {
		t.Fatalf("orders = %+v, want only #3", orders)
	}
}

func TestFormStoreSnapshotIsolation(t *testing.T) {
	store := NewFormStore()
	stops, _ := domain.SetStopAddress(domain.DefaultStops(), 1, domain.Address{Label: "A"})
	store.SetStops(stops)

	stops[0].Address.Label = "mutated by caller"

	snap := store.Snapshot()
	snap.Stops[0].Address.Label = "mutated by reader"
	snap.Contacts[9] = domain.ContactInfo{Name: "x"}

	again := store.Snapshot()
	if again.Stops[0].Address.Label != "A" {
		t.Fatalf("stored address = %q, want A", again.Stops[0].Address.Label)
	}
	if len(again.Contacts) != 0 {
		t.Fatalf("contacts leaked from snapshot: %v", again.Contacts)
	}
}
