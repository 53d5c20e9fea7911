package handlers

import (
	"delivery-booking-service/internal/api/dto"
	"net/http"
)

// Search queues a debounced address lookup. Clients poll Suggestions for the result.
func (h *SessionHandler) Search(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.SearchRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	s.Wizard.Search(req.Query)
	writeJSON(w, r, http.StatusAccepted, dto.FromSuggestions(s.Wizard.Suggestions()))
}

func (h *SessionHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromSuggestions(s.Wizard.Suggestions()))
}

func (h *SessionHandler) SelectSuggestion(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	index, ok := pathInt(r, "index")
	if !ok {
		writeError(w, r, http.StatusBadRequest, "index must be an integer")
		return
	}

	var req dto.StopRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	if err := s.Wizard.SelectSuggestion(r.Context(), index, req.Stop); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeState(w, r, http.StatusOK, s)
}
