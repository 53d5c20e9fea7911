package dto

import (
	"delivery-booking-service/internal/services"
	"encoding/json"
)

type HeaderDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type SuggestionsResponse struct {
	Seq   uint64       `json:"seq"`
	Query string       `json:"query"`
	Open  bool         `json:"open"`
	Items []AddressDTO `json:"items"`
	Error string       `json:"error,omitempty"`
}

func FromSuggestions(s services.SuggestionState) SuggestionsResponse {
	out := SuggestionsResponse{
		Seq:   s.Seq,
		Query: s.Query,
		Open:  s.Open,
		Items: FromAddresses(s.Items),
	}
	if s.Err != nil {
		out.Error = "address search is unavailable, please retry"
	}
	return out
}

type QuoteResponse struct {
	VehicleType string  `json:"vehicle_type"`
	Miles       float64 `json:"miles"`
	Rush        float64 `json:"rush"`
	SameDay     float64 `json:"same_day"`
	Scheduled   float64 `json:"scheduled"`
}

func FromQuote(q services.Quote) QuoteResponse {
	return QuoteResponse{
		VehicleType: string(q.Vehicle),
		Miles:       q.Miles,
		Rush:        q.Rush,
		SameDay:     q.SameDay,
		Scheduled:   q.Scheduled,
	}
}

type StateResponse struct {
	Step             int                   `json:"step"`
	Header           HeaderDTO             `json:"header"`
	Stops            []StopDTO             `json:"stops"`
	RouteDistance    RouteDistanceDTO      `json:"route_distance"`
	RouteError       string                `json:"route_error,omitempty"`
	VehicleType      *string               `json:"vehicle_type"`
	Timing           *TimingDTO            `json:"timing"`
	SameDayAvailable bool                  `json:"same_day_available"`
	Orders           []OrderDTO            `json:"orders"`
	Contacts         map[string]ContactDTO `json:"contacts"`
	Suggestions      SuggestionsResponse   `json:"suggestions"`
	Picking          bool                  `json:"picking"`
	PickingStop      int                   `json:"picking_stop,omitempty"`
	Warnings         []string              `json:"warnings"`
	Quote            *QuoteResponse        `json:"quote"`
}

func FromState(st services.WizardState) StateResponse {
	out := StateResponse{
		Step:             st.Step,
		Header:           HeaderDTO(st.Header),
		Stops:            FromStops(st.Form.Stops),
		RouteDistance:    RouteDistanceDTO(st.Form.RouteDistance),
		RouteError:       st.RouteError,
		SameDayAvailable: st.SameDayOpen,
		Orders:           FromOrders(st.Form.Orders),
		Contacts:         FromContacts(st.Form.Contacts),
		Suggestions:      FromSuggestions(st.Suggestions),
		Picking:          st.Picking,
		Warnings:         st.Warnings,
	}
	if st.Picking {
		out.PickingStop = st.PickingStop
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	if st.Form.VehicleType != nil {
		v := string(*st.Form.VehicleType)
		out.VehicleType = &v
	}
	if st.Form.Timing != nil {
		t := FromTiming(*st.Form.Timing)
		out.Timing = &t
	}
	if st.Quote != nil {
		q := FromQuote(*st.Quote)
		out.Quote = &q
	}
	return out
}

type SessionResponse struct {
	SessionID string        `json:"session_id"`
	State     StateResponse `json:"state"`
}

// Payload is decoded against the active step: stops, vehicle_type, timing,
// orders or contacts. An absent payload advances with what is already stored.
type NextStepRequest struct {
	Payload json.RawMessage `json:"payload"`
}

type GoToStepRequest struct {
	Step int `json:"step"`
}

type AssignAddressRequest struct {
	Address AddressDTO `json:"address"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type StopRequest struct {
	Stop int `json:"stop"`
}

type PointRequest struct {
	Lng  float64 `json:"lng"`
	Lat  float64 `json:"lat"`
	Zoom float64 `json:"zoom"`
}

type TimingResponse struct {
	Accepted bool          `json:"accepted"`
	State    StateResponse `json:"state"`
}
