package handlers

import (
	"delivery-booking-service/internal/api/dto"
	"delivery-booking-service/internal/domain"
	"net/http"
)

type VehicleHandler struct {
	// Rate overrides loaded from storage; nil serves the built-in catalog.
	Rates map[domain.VehicleType]domain.RateTuple
}

// List returns the vehicle catalog, smallest capacity first.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.FromVehicles(domain.Vehicles(), h.Rates))
}
