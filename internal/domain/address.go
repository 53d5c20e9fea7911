package domain

import "fmt"

// A resolved place produced by forward or reverse geocoding.
// Label is the short text ("123 Main St"), PlaceName the full human-readable name.
// Addresses are values: once attached to a stop they are replaced, never edited.
type Address struct {
	Label       string
	PlaceName   string
	Coordinates Coordinates
}

// FallbackAddress labels a point that could not be reverse geocoded.
func FallbackAddress(c Coordinates) Address {
	label := fmt.Sprintf("Location at %.6f, %.6f", c.Lon, c.Lat)
	return Address{
		Label:       label,
		PlaceName:   label,
		Coordinates: c,
	}
}
