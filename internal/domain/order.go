package domain

import "fmt"

// A single line item in an order. Dimensions are inches, weight is pounds per unit.
type OrderItem struct {
	Description string  `validate:"max=200"`
	Length      float64 `validate:"gte=0"`
	Width       float64 `validate:"gte=0"`
	Height      float64 `validate:"gte=0"`
	Weight      float64 `validate:"gte=0"`
	Quantity    int     `validate:"gte=1"`
}

// Groups reference numbers and items picked up together.
type Order struct {
	PONumber    string      `validate:"max=64"`
	OrderNumber string      `validate:"max=64"`
	BOLNumber   string      `validate:"max=64"`
	Items       []OrderItem `validate:"dive"`
}

// CloneOrders deep-copies orders and their items.
func CloneOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = o
		out[i].Items = append([]OrderItem(nil), o.Items...)
	}
	return out
}

// TotalWeight sums weight * quantity over every item of every order.
func TotalWeight(orders []Order) float64 {
	total := 0.0
	for _, o := range orders {
		for _, it := range o.Items {
			total += it.Weight * float64(it.Quantity)
		}
	}
	return total
}

// Non-blocking notice that a shipment exceeds the selected vehicle's rating.
type CapacityWarning struct {
	Vehicle     VehicleType
	WeightLbs   float64
	CapacityLbs float64
}

func (w CapacityWarning) Message() string {
	return fmt.Sprintf(
		"total weight %.0f lbs exceeds the %s capacity of %.0f lbs",
		w.WeightLbs, w.Vehicle, w.CapacityLbs,
	)
}

// CheckCapacity returns a warning when orders outweigh the vehicle. Unknown
// vehicles have no rating and never warn.
func CheckCapacity(orders []Order, vehicle VehicleType) (CapacityWarning, bool) {
	v, ok := LookupVehicle(vehicle)
	if !ok {
		return CapacityWarning{}, false
	}

	weight := TotalWeight(orders)
	if weight <= v.CapacityLbs {
		return CapacityWarning{}, false
	}

	return CapacityWarning{Vehicle: vehicle, WeightLbs: weight, CapacityLbs: v.CapacityLbs}, true
}
