package services

import (
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/platform/apperr"
	"testing"
)

func TestStepNavigatorBounds(t *testing.T) {
	nav := NewStepNavigator(NewFormStore())

	nav.PrevStep()
	if got := nav.Current(); got != 1 {
		t.Fatalf("step after prev at 1 = %d, want 1", got)
	}

	for i := 0; i < 10; i++ {
		if err := nav.NextStep(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := nav.Current(); got != 6 {
		t.Fatalf("step after many next = %d, want 6", got)
	}

	tests := []struct{ in, want int }{{-4, 1}, {0, 1}, {3, 3}, {6, 6}, {42, 6}}
	for _, tt := range tests {
		if got := nav.GoToStep(tt.in); got != tt.want {
			t.Fatalf("GoToStep(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestStepNavigatorCommitsPayloads(t *testing.T) {
	store := NewFormStore()
	nav := NewStepNavigator(store)

	stops, _ := domain.SetStopAddress(domain.DefaultStops(), 1, domain.Address{Label: "Pickup"})
	steps := []any{
		stops,
		domain.VehicleCargoVan,
		domain.DeliveryTiming{Kind: domain.TimingRush},
		[]domain.Order{{OrderNumber: "SO-1"}},
		map[int]domain.ContactInfo{1: {Name: "Ada"}, 2: {Name: "Grace"}},
	}
	for i, data := range steps {
		if err := nav.NextStep(data); err != nil {
			t.Fatalf("step %d: unexpected error: %v", i+1, err)
		}
	}

	if nav.Current() != StepReview {
		t.Fatalf("current = %d, want review", nav.Current())
	}

	s := store.Snapshot()
	if s.Stops[0].Address == nil || s.Stops[0].Address.Label != "Pickup" {
		t.Fatalf("stops not committed: %+v", s.Stops)
	}
	if s.VehicleType == nil || *s.VehicleType != domain.VehicleCargoVan {
		t.Fatalf("vehicle not committed: %v", s.VehicleType)
	}
	if s.Timing == nil || s.Timing.Kind != domain.TimingRush {
		t.Fatalf("timing not committed: %v", s.Timing)
	}
	if len(s.Orders) != 1 || len(s.Contacts) != 2 {
		t.Fatalf("orders/contacts not committed: %v %v", s.Orders, s.Contacts)
	}
}

func TestStepNavigatorRejectsWrongPayload(t *testing.T) {
	store := NewFormStore()
	nav := NewStepNavigator(store)

	err := nav.NextStep(domain.VehicleCar)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if nav.Current() != StepStops {
		t.Fatalf("step moved to %d on bad payload", nav.Current())
	}
	if store.Snapshot().VehicleType != nil {
		t.Fatal("bad payload was committed")
	}
}

func TestStepHeaders(t *testing.T) {
	for step := FirstStep; step <= LastStep; step++ {
		h := HeaderFor(step)
		if h.Title == "" || h.Description == "" {
			t.Fatalf("step %d has empty header", step)
		}
	}
	if HeaderFor(99) != HeaderFor(LastStep) {
		t.Fatal("out-of-range header should clamp")
	}
}
