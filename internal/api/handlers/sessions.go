package handlers

import (
	"delivery-booking-service/internal/api/dto"
	"delivery-booking-service/internal/services"
	"net/http"
)

// SessionHandler serves the booking wizard. Every route is scoped to one
// session by the {id} path segment.
type SessionHandler struct {
	Sessions *services.SessionManager
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	s, err := h.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeAppError(w, r, err)
		return nil, false
	}
	return s, true
}

func writeState(w http.ResponseWriter, r *http.Request, status int, s *services.Session) {
	writeJSON(w, r, status, dto.SessionResponse{
		SessionID: s.ID,
		State:     dto.FromState(s.Wizard.State()),
	})
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sessions.Create()
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeState(w, r, http.StatusCreated, s)
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeState(w, r, http.StatusOK, s)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Delete(r.PathValue("id")); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Wizard.Reset()
	writeState(w, r, http.StatusOK, s)
}

// Submit books the delivery and returns it; the wizard starts over.
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	b, err := s.Wizard.Submit(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.FromBooking(b))
}
