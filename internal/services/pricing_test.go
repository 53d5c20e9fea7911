package services

import (
	"delivery-booking-service/internal/domain"
	"math"
	"testing"
)

func TestRushPriceKnownVehicle(t *testing.T) {
	var p PricingCalculator

	// car: 1.50 * 10 * 1.00 + 10
	if got := p.RushPrice(domain.VehicleCar, 10); got != 25 {
		t.Fatalf("car rush = %v, want 25", got)
	}
	// flatbed: 4.00 * 100 * 1.80 + 120
	if got := p.RushPrice(domain.VehicleFlatbed, 100); math.Abs(got-840) > 1e-9 {
		t.Fatalf("flatbed rush = %v, want 840", got)
	}
}

func TestRushPriceFallback(t *testing.T) {
	var p PricingCalculator
	if got := p.RushPrice("hovercraft", 500); got != DefaultFallbackBasePrice {
		t.Fatalf("fallback = %v, want %v", got, DefaultFallbackBasePrice)
	}

	p = PricingCalculator{
		FallbackBasePrice: 80,
		FallbackAddition:  map[domain.VehicleType]float64{"hovercraft": 20},
	}
	if got := p.RushPrice("hovercraft", 1); got != 100 {
		t.Fatalf("overridden fallback = %v, want 100", got)
	}
	if got := p.RushPrice("zeppelin", 1); got != 80 {
		t.Fatalf("overridden base = %v, want 80", got)
	}
}

func TestRateOverride(t *testing.T) {
	p := PricingCalculator{Rates: map[domain.VehicleType]domain.RateTuple{
		domain.VehicleCar: {BaseRate: 2, VehicleFee: 0, Multiplier: 1},
	}}
	if got := p.RushPrice(domain.VehicleCar, 10); got != 20 {
		t.Fatalf("override rush = %v, want 20", got)
	}
}

func TestQuoteTierRatios(t *testing.T) {
	var p PricingCalculator

	for _, v := range domain.Vehicles() {
		for _, miles := range []float64{0, 0.7, 3.2, 12.5, 48, 250.25} {
			q := p.Quote(v.Type, miles)
			rush := p.RushPrice(v.Type, miles)

			if math.Abs(q.SameDay-roundCents(rush*0.90)) > 1e-9 {
				t.Fatalf("%s %.2fmi: same-day = %v, want %v", v.Type, miles, q.SameDay, roundCents(rush*0.90))
			}
			if math.Abs(q.Scheduled-roundCents(rush*0.85)) > 1e-9 {
				t.Fatalf("%s %.2fmi: scheduled = %v, want %v", v.Type, miles, q.Scheduled, roundCents(rush*0.85))
			}
			if math.Abs(q.Scheduled-0.85*q.Rush) > 0.01 || math.Abs(q.SameDay-0.90*q.Rush) > 0.01 {
				t.Fatalf("%s %.2fmi: tiers drift from rush: %+v", v.Type, miles, q)
			}
		}
	}
}

func TestQuoteFor(t *testing.T) {
	q := Quote{Rush: 100, SameDay: 90, Scheduled: 85}
	if q.For(domain.TimingRush) != 100 || q.For(domain.TimingSameDay) != 90 || q.For(domain.TimingScheduled) != 85 {
		t.Fatalf("unexpected tier prices: %+v", q)
	}
}
