package services

import (
	"delivery-booking-service/internal/domain"
	"errors"
	"math"
)

// OrderWaypoints reorders the waypoints (stops 3+) with a greedy
// nearest-neighbor pass: from the origin, always visit the closest remaining
// resolved waypoint next. Equal distances go to the lower ordinal. Unresolved
// waypoints keep their relative order after the resolved ones. Origin and
// destination never move.
//
// It returns the renumbered stops and a map of old ordinal -> new ordinal.
func OrderWaypoints(stops []domain.Stop) ([]domain.Stop, map[int]int, error) {
	if len(stops) < domain.DestinationOrdinal {
		return nil, nil, errors.New("order waypoints: origin and destination are required")
	}

	origin := stops[domain.OriginOrdinal-1]
	if !origin.Resolved() {
		return nil, nil, errors.New("order waypoints: origin has no address")
	}

	remaining := make([]domain.Stop, 0, len(stops))
	var unresolved []domain.Stop
	for _, s := range domain.CloneStops(stops[domain.DestinationOrdinal:]) {
		if s.Resolved() {
			remaining = append(remaining, s)
		} else {
			unresolved = append(unresolved, s)
		}
	}

	ordered := domain.CloneStops(stops[:domain.DestinationOrdinal])
	current := origin.Address.Coordinates

	for len(remaining) > 0 {
		best := -1
		bestDist := math.MaxFloat64

		for i, s := range remaining {
			d := current.DistanceMeters(s.Address.Coordinates)
			if d < bestDist || (d == bestDist && s.Ordinal < remaining[best].Ordinal) {
				best = i
				bestDist = d
			}
		}

		next := remaining[best]
		ordered = append(ordered, next)
		current = next.Address.Coordinates
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	ordered = append(ordered, unresolved...)

	mapping := make(map[int]int, len(ordered))
	for i := range ordered {
		mapping[ordered[i].Ordinal] = i + 1
		ordered[i].Ordinal = i + 1
	}

	return ordered, mapping, nil
}
