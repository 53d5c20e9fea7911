package domain

import "sort"

type VehicleType string

const (
	VehicleCar         VehicleType = "car"
	VehicleSUV         VehicleType = "suv"
	VehiclePickupTruck VehicleType = "pickup-truck"
	VehicleCargoVan    VehicleType = "cargo-van"
	VehicleSprinterVan VehicleType = "sprinter-van"
	VehicleBoxTruck    VehicleType = "box-truck"
	VehicleFlatbed     VehicleType = "flatbed"
)

// Pricing inputs for a vehicle: price = BaseRate * miles * Multiplier + VehicleFee.
type RateTuple struct {
	BaseRate   float64
	VehicleFee float64
	Multiplier float64
}

// A bookable vehicle class.
type Vehicle struct {
	Type        VehicleType
	Name        string
	CapacityLbs float64
	Rate        RateTuple
}

var vehicleCatalog = map[VehicleType]Vehicle{
	VehicleCar:         {Type: VehicleCar, Name: "Car", CapacityLbs: 300, Rate: RateTuple{BaseRate: 1.50, VehicleFee: 10, Multiplier: 1.00}},
	VehicleSUV:         {Type: VehicleSUV, Name: "SUV", CapacityLbs: 600, Rate: RateTuple{BaseRate: 1.75, VehicleFee: 15, Multiplier: 1.10}},
	VehiclePickupTruck: {Type: VehiclePickupTruck, Name: "Pickup Truck", CapacityLbs: 1000, Rate: RateTuple{BaseRate: 2.00, VehicleFee: 25, Multiplier: 1.20}},
	VehicleCargoVan:    {Type: VehicleCargoVan, Name: "Cargo Van", CapacityLbs: 2500, Rate: RateTuple{BaseRate: 2.25, VehicleFee: 35, Multiplier: 1.30}},
	VehicleSprinterVan: {Type: VehicleSprinterVan, Name: "Sprinter Van", CapacityLbs: 3500, Rate: RateTuple{BaseRate: 2.50, VehicleFee: 45, Multiplier: 1.40}},
	VehicleBoxTruck:    {Type: VehicleBoxTruck, Name: "Box Truck", CapacityLbs: 10000, Rate: RateTuple{BaseRate: 3.25, VehicleFee: 75, Multiplier: 1.60}},
	VehicleFlatbed:     {Type: VehicleFlatbed, Name: "Flatbed", CapacityLbs: 20000, Rate: RateTuple{BaseRate: 4.00, VehicleFee: 120, Multiplier: 1.80}},
}

// LookupVehicle returns the catalog entry for t.
func LookupVehicle(t VehicleType) (Vehicle, bool) {
	v, ok := vehicleCatalog[t]
	return v, ok
}

// Vehicles lists the catalog ordered by capacity, smallest first.
func Vehicles() []Vehicle {
	out := make([]Vehicle, 0, len(vehicleCatalog))
	for _, v := range vehicleCatalog {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CapacityLbs < out[j].CapacityLbs })
	return out
}
