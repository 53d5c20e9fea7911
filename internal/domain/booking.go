package domain

import "time"

// A submitted delivery request, assembled from a completed wizard.
type Booking struct {
	ID            string
	SessionID     string
	Stops         []Stop
	Contacts      map[int]ContactInfo
	Vehicle       VehicleType
	Timing        DeliveryTiming
	Orders        []Order
	RouteDistance RouteDistance
	Price         float64
	CreatedAt     time.Time
}
