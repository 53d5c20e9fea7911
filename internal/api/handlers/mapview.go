package handlers

import (
	"delivery-booking-service/internal/api/dto"
	"delivery-booking-service/internal/domain"
	"math"
	"net/http"
)

func (h *SessionHandler) StartPicking(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.StopRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	if err := s.Wizard.StartPicking(req.Stop); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeState(w, r, http.StatusOK, s)
}

func (h *SessionHandler) StopPicking(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Wizard.StopPicking()
	writeState(w, r, http.StatusOK, s)
}

func pointFrom(req dto.PointRequest) (domain.Coordinates, bool) {
	for _, v := range []float64{req.Lng, req.Lat, req.Zoom} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.Coordinates{}, false
		}
	}
	return domain.Coordinates{Lon: req.Lng, Lat: req.Lat}, true
}

// MapClick relays a click on the client's map to the session's scene.
func (h *SessionHandler) MapClick(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.PointRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	at, ok := pointFrom(req)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "lng and lat must be finite numbers")
		return
	}

	if err := s.Scene.Click(r.Context(), at); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeState(w, r, http.StatusOK, s)
}

func (h *SessionHandler) FlyTo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.PointRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	at, ok := pointFrom(req)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "lng, lat and zoom must be finite numbers")
		return
	}

	s.Wizard.FlyTo(at, req.Zoom)
	writeJSON(w, r, http.StatusOK, dto.FromSnapshot(s.Scene.Snapshot()))
}

// Map returns what the client should draw.
func (h *SessionHandler) Map(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromSnapshot(s.Scene.Snapshot()))
}
