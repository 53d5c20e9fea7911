package dto

import (
	"delivery-booking-service/internal/adapters/render"
	"delivery-booking-service/internal/domain"
	"time"
)

type VehicleResponse struct {
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	CapacityLbs float64 `json:"capacity_lbs"`
	BaseRate    float64 `json:"base_rate"`
	VehicleFee  float64 `json:"vehicle_fee"`
	Multiplier  float64 `json:"multiplier"`
}

type ListVehicleResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}

// rates overrides the catalog rate tuples when present.
func FromVehicles(vehicles []domain.Vehicle, rates map[domain.VehicleType]domain.RateTuple) ListVehicleResponse {
	out := make([]VehicleResponse, len(vehicles))
	for i, v := range vehicles {
		r := v.Rate
		if override, ok := rates[v.Type]; ok {
			r = override
		}
		out[i] = VehicleResponse{
			Type:        string(v.Type),
			Name:        v.Name,
			CapacityLbs: v.CapacityLbs,
			BaseRate:    r.BaseRate,
			VehicleFee:  r.VehicleFee,
			Multiplier:  r.Multiplier,
		}
	}
	return ListVehicleResponse{Vehicles: out}
}

type MarkerDTO struct {
	Position CoordinatesDTO `json:"position"`
	Label    string         `json:"label"`
	Kind     string         `json:"kind"`
	Color    string         `json:"color"`
}

type BoundsDTO struct {
	SouthWest CoordinatesDTO `json:"south_west"`
	NorthEast CoordinatesDTO `json:"north_east"`
}

type MapResponse struct {
	Version   uint64           `json:"version"`
	Center    CoordinatesDTO   `json:"center"`
	Zoom      float64          `json:"zoom"`
	Bounds    *BoundsDTO       `json:"bounds"`
	Cursor    string           `json:"cursor"`
	Markers   []MarkerDTO      `json:"markers"`
	RouteLine []CoordinatesDTO `json:"route_line"`
}

func FromSnapshot(s render.Snapshot) MapResponse {
	out := MapResponse{
		Version:   s.Version,
		Center:    FromCoordinates(s.Viewport.Center),
		Zoom:      s.Viewport.Zoom,
		Cursor:    s.Cursor,
		Markers:   make([]MarkerDTO, len(s.Markers)),
		RouteLine: make([]CoordinatesDTO, len(s.RouteLine)),
	}
	for i, m := range s.Markers {
		out.Markers[i] = MarkerDTO{
			Position: FromCoordinates(m.Position),
			Label:    m.Label,
			Kind:     string(m.Kind),
			Color:    m.Color(),
		}
	}
	for i, c := range s.RouteLine {
		out.RouteLine[i] = FromCoordinates(c)
	}
	if b := s.Viewport.Bounds; b != nil {
		out.Bounds = &BoundsDTO{
			SouthWest: FromCoordinates(b.SouthWest),
			NorthEast: FromCoordinates(b.NorthEast),
		}
	}
	return out
}

type BookingResponse struct {
	BookingID     string                `json:"booking_id"`
	SessionID     string                `json:"session_id"`
	VehicleType   string                `json:"vehicle_type"`
	Timing        TimingDTO             `json:"timing"`
	Stops         []StopDTO             `json:"stops"`
	Contacts      map[string]ContactDTO `json:"contacts"`
	Orders        []OrderDTO            `json:"orders"`
	RouteDistance RouteDistanceDTO      `json:"route_distance"`
	Price         float64               `json:"price"`
	CreatedAt     time.Time             `json:"created_at"`
}

func FromBooking(b domain.Booking) BookingResponse {
	return BookingResponse{
		BookingID:     b.ID,
		SessionID:     b.SessionID,
		VehicleType:   string(b.Vehicle),
		Timing:        FromTiming(b.Timing),
		Stops:         FromStops(b.Stops),
		Contacts:      FromContacts(b.Contacts),
		Orders:        FromOrders(b.Orders),
		RouteDistance: RouteDistanceDTO(b.RouteDistance),
		Price:         b.Price,
		CreatedAt:     b.CreatedAt,
	}
}
