package cache

import "delivery-booking-service/internal/domain"

// Stored shape of a cached address.
type addressEntry struct {
	Label     string  `json:"label"`
	PlaceName string  `json:"place_name"`
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
}

func toEntries(addresses []domain.Address) []addressEntry {
	out := make([]addressEntry, len(addresses))
	for i, a := range addresses {
		out[i] = addressEntry{
			Label:     a.Label,
			PlaceName: a.PlaceName,
			Lon:       a.Coordinates.Lon,
			Lat:       a.Coordinates.Lat,
		}
	}
	return out
}

func fromEntries(entries []addressEntry) []domain.Address {
	out := make([]domain.Address, len(entries))
	for i, e := range entries {
		out[i] = domain.Address{
			Label:       e.Label,
			PlaceName:   e.PlaceName,
			Coordinates: domain.Coordinates{Lon: e.Lon, Lat: e.Lat},
		}
	}
	return out
}
