package handlers

import (
	"delivery-booking-service/internal/api/dto"
	"net/http"
)

// AddStop appends an empty waypoint.
func (h *SessionHandler) AddStop(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Wizard.AddStop(); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeState(w, r, http.StatusCreated, s)
}

func (h *SessionHandler) RemoveStop(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	ordinal, ok := pathInt(r, "ordinal")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "ordinal must be an integer")
		return
	}

	if err := s.Wizard.RemoveStop(r.Context(), ordinal); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeState(w, r, http.StatusOK, s)
}

// AssignAddress sets a stop's address. A failed route redraw is reported in
// the state's route_error, not as a request failure.
func (h *SessionHandler) AssignAddress(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	ordinal, ok := pathInt(r, "ordinal")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "ordinal must be an integer")
		return
	}

	var req dto.AssignAddressRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	if err := s.Wizard.AssignAddress(r.Context(), ordinal, req.Address.ToDomain()); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeState(w, r, http.StatusOK, s)
}

func (h *SessionHandler) OptimizeStops(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Wizard.OptimizeWaypoints(r.Context()); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeState(w, r, http.StatusOK, s)
}

// RetryRoute redraws the route and fails when directions still fail.
func (h *SessionHandler) RetryRoute(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Wizard.RetryRoute(r.Context()); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeState(w, r, http.StatusOK, s)
}
