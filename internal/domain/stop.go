package domain

import (
	"errors"
	"fmt"
)

const (
	OriginOrdinal      = 1
	DestinationOrdinal = 2
	// Hard upper bound on stops per booking (origin, destination and waypoints).
	MaxStops = 12
)

var ErrStopNotFound = errors.New("stop not found")

// Represents one ordinal position in a delivery route.
// Ordinal 1 is the origin, 2 the destination; anything above is a waypoint.
type Stop struct {
	Ordinal int
	Address *Address
}

func (s Stop) IsWaypoint() bool { return s.Ordinal > DestinationOrdinal }

func (s Stop) Resolved() bool { return s.Address != nil }

// DefaultStops returns the initial two empty stops.
func DefaultStops() []Stop {
	return []Stop{{Ordinal: OriginOrdinal}, {Ordinal: DestinationOrdinal}}
}

// CloneStops deep-copies stops, including their addresses.
func CloneStops(stops []Stop) []Stop {
	out := make([]Stop, len(stops))
	for i, s := range stops {
		out[i] = Stop{Ordinal: s.Ordinal}
		if s.Address != nil {
			a := *s.Address
			out[i].Address = &a
		}
	}
	return out
}

// AddStop appends an empty waypoint at the next ordinal.
func AddStop(stops []Stop) ([]Stop, error) {
	if len(stops) >= MaxStops {
		return nil, fmt.Errorf("add stop: at most %d stops allowed", MaxStops)
	}

	out := CloneStops(stops)
	out = append(out, Stop{Ordinal: len(out) + 1})
	return out, nil
}

// RemoveStop drops the waypoint at ordinal and renumbers every later stop so the
// list stays contiguous from 1. Origin and destination cannot be removed.
func RemoveStop(stops []Stop, ordinal int) ([]Stop, error) {
	if ordinal <= DestinationOrdinal {
		return nil, fmt.Errorf("remove stop %d: origin and destination cannot be removed", ordinal)
	}
	if ordinal > len(stops) {
		return nil, fmt.Errorf("remove stop %d: %w", ordinal, ErrStopNotFound)
	}

	out := make([]Stop, 0, len(stops)-1)
	for _, s := range CloneStops(stops) {
		if s.Ordinal == ordinal {
			continue
		}
		out = append(out, s)
	}
	for i := range out {
		out[i].Ordinal = i + 1
	}

	return out, nil
}

// SetStopAddress returns a copy of stops with addr attached to ordinal.
func SetStopAddress(stops []Stop, ordinal int, addr Address) ([]Stop, error) {
	if ordinal < 1 || ordinal > len(stops) {
		return nil, fmt.Errorf("set stop %d address: %w", ordinal, ErrStopNotFound)
	}

	out := CloneStops(stops)
	out[ordinal-1].Address = &addr
	return out, nil
}

// RouteEndpoints splits resolved stops into origin, destination and waypoints.
// ok is false until both origin and destination carry an address. Unresolved
// waypoints are skipped.
func RouteEndpoints(stops []Stop) (origin, destination Coordinates, waypoints []Coordinates, ok bool) {
	if len(stops) < DestinationOrdinal {
		return Coordinates{}, Coordinates{}, nil, false
	}

	o, d := stops[OriginOrdinal-1], stops[DestinationOrdinal-1]
	if !o.Resolved() || !d.Resolved() {
		return Coordinates{}, Coordinates{}, nil, false
	}

	for _, s := range stops[DestinationOrdinal:] {
		if s.Resolved() {
			waypoints = append(waypoints, s.Address.Coordinates)
		}
	}

	return o.Address.Coordinates, d.Address.Coordinates, waypoints, true
}

// RouteKey identifies the resolved point set of a stop list. Two lists with the
// same key produce the same route.
func RouteKey(stops []Stop) string {
	origin, destination, waypoints, ok := RouteEndpoints(stops)
	if !ok {
		return ""
	}

	key := origin.String()
	for _, w := range waypoints {
		key += ";" + w.String()
	}
	return key + ";" + destination.String()
}
