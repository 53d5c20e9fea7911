package dto

import "delivery-booking-service/internal/domain"

type CoordinatesDTO struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

func FromCoordinates(c domain.Coordinates) CoordinatesDTO {
	return CoordinatesDTO{Lng: c.Lon, Lat: c.Lat}
}

func (c CoordinatesDTO) ToDomain() domain.Coordinates {
	return domain.Coordinates{Lon: c.Lng, Lat: c.Lat}
}

type AddressDTO struct {
	Label       string         `json:"label"`
	PlaceName   string         `json:"place_name"`
	Coordinates CoordinatesDTO `json:"coordinates"`
}

func FromAddress(a domain.Address) AddressDTO {
	return AddressDTO{
		Label:       a.Label,
		PlaceName:   a.PlaceName,
		Coordinates: FromCoordinates(a.Coordinates),
	}
}

func (a AddressDTO) ToDomain() domain.Address {
	return domain.Address{
		Label:       a.Label,
		PlaceName:   a.PlaceName,
		Coordinates: a.Coordinates.ToDomain(),
	}
}

func FromAddresses(addrs []domain.Address) []AddressDTO {
	out := make([]AddressDTO, len(addrs))
	for i, a := range addrs {
		out[i] = FromAddress(a)
	}
	return out
}

type StopDTO struct {
	Ordinal  int         `json:"ordinal"`
	Waypoint bool        `json:"waypoint"`
	Address  *AddressDTO `json:"address"`
}

func FromStops(stops []domain.Stop) []StopDTO {
	out := make([]StopDTO, len(stops))
	for i, s := range stops {
		out[i] = StopDTO{Ordinal: s.Ordinal, Waypoint: s.IsWaypoint()}
		if s.Address != nil {
			a := FromAddress(*s.Address)
			out[i].Address = &a
		}
	}
	return out
}

func ToStops(in []StopDTO) []domain.Stop {
	out := make([]domain.Stop, len(in))
	for i, s := range in {
		out[i] = domain.Stop{Ordinal: s.Ordinal}
		if s.Address != nil {
			a := s.Address.ToDomain()
			out[i].Address = &a
		}
	}
	return out
}

type RouteDistanceDTO struct {
	Meters  float64 `json:"meters"`
	Display string  `json:"display"`
}
