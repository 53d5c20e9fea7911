package handlers

import (
	"delivery-booking-service/internal/api/dto"
	"delivery-booking-service/internal/ports"
	"net/http"
)

type BookingHandler struct {
	Repo ports.BookingRepository
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Repo == nil {
		writeError(w, r, http.StatusServiceUnavailable, "booking storage is not configured")
		return
	}

	b, err := h.Repo.GetBooking(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromBooking(b))
}
