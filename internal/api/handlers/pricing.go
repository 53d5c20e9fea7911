package handlers

import (
	"delivery-booking-service/internal/api/dto"
	"net/http"
)

// SetTiming records the delivery timing. Same-day after the cutoff is
// answered with accepted=false and leaves the previous choice in place.
func (h *SessionHandler) SetTiming(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.TimingDTO
	if !decodeJSON(w, r, &req, false) {
		return
	}

	accepted, err := s.Wizard.SelectTiming(req.ToDomain())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.TimingResponse{
		Accepted: accepted,
		State:    dto.FromState(s.Wizard.State()),
	})
}

func (h *SessionHandler) Quote(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	q, ok := s.Wizard.Quote()
	if !ok {
		writeError(w, r, http.StatusConflict, "a vehicle and a routed trip are required for a quote")
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromQuote(q))
}
