package services

import (
	"delivery-booking-service/internal/domain"
	"math"
)

const (
	SameDayFactor   = 0.90
	ScheduledFactor = 0.85

	DefaultFallbackBasePrice = 50.0
)

// Prices for one vehicle and distance under each timing tier.
type Quote struct {
	Vehicle   domain.VehicleType
	Miles     float64
	Rush      float64
	SameDay   float64
	Scheduled float64
}

// For returns the price of the given tier.
func (q Quote) For(kind domain.TimingKind) float64 {
	switch kind {
	case domain.TimingSameDay:
		return q.SameDay
	case domain.TimingScheduled:
		return q.Scheduled
	default:
		return q.Rush
	}
}

// PricingCalculator maps (vehicle, distance) to prices. It holds no mutable
// state; the zero value prices catalog vehicles with the default fallback.
type PricingCalculator struct {
	// Overrides the catalog rate tuple per vehicle.
	Rates map[domain.VehicleType]domain.RateTuple
	// Flat price for vehicles without a rate tuple. Zero means DefaultFallbackBasePrice.
	FallbackBasePrice float64
	// Extra flat amount per unknown vehicle, added to FallbackBasePrice.
	FallbackAddition map[domain.VehicleType]float64
}

func (p PricingCalculator) rate(vehicle domain.VehicleType) (domain.RateTuple, bool) {
	if r, ok := p.Rates[vehicle]; ok {
		return r, true
	}
	if v, ok := domain.LookupVehicle(vehicle); ok {
		return v.Rate, true
	}
	return domain.RateTuple{}, false
}

// RushPrice is baseRate * miles * multiplier + vehicleFee for rated vehicles,
// and the flat fallback otherwise. Not rounded.
func (p PricingCalculator) RushPrice(vehicle domain.VehicleType, miles float64) float64 {
	if miles < 0 {
		miles = 0
	}

	if r, ok := p.rate(vehicle); ok {
		return r.BaseRate*miles*r.Multiplier + r.VehicleFee
	}

	base := p.FallbackBasePrice
	if base == 0 {
		base = DefaultFallbackBasePrice
	}
	return base + p.FallbackAddition[vehicle]
}

// Quote prices every tier, rounded to cents.
func (p PricingCalculator) Quote(vehicle domain.VehicleType, miles float64) Quote {
	rush := p.RushPrice(vehicle, miles)

	return Quote{
		Vehicle:   vehicle,
		Miles:     miles,
		Rush:      roundCents(rush),
		SameDay:   roundCents(rush * SameDayFactor),
		Scheduled: roundCents(rush * ScheduledFactor),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
