package handlers

import (
	"delivery-booking-service/internal/api/dto"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/services"
	"fmt"
	"net/http"
)

func (h *SessionHandler) NextStep(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.NextStepRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	payload, err := decodePayload(s.Wizard.State().Step, req.Payload)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.Wizard.NextStep(r.Context(), payload); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeState(w, r, http.StatusOK, s)
}

// decodePayload turns the raw payload into the type the step commits.
func decodePayload(step int, raw []byte) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	switch step {
	case services.StepStops:
		var stops []dto.StopDTO
		if err := decodeStrict(raw, &stops); err != nil {
			return nil, fmt.Errorf("stops payload: %w", err)
		}
		return dto.ToStops(stops), nil

	case services.StepVehicle:
		var v string
		if err := decodeStrict(raw, &v); err != nil {
			return nil, fmt.Errorf("vehicle payload: %w", err)
		}
		return domain.VehicleType(v), nil

	case services.StepTiming:
		var t dto.TimingDTO
		if err := decodeStrict(raw, &t); err != nil {
			return nil, fmt.Errorf("timing payload: %w", err)
		}
		return t.ToDomain(), nil

	case services.StepOrders:
		var orders []dto.OrderDTO
		if err := decodeStrict(raw, &orders); err != nil {
			return nil, fmt.Errorf("orders payload: %w", err)
		}
		return dto.ToOrders(orders), nil

	case services.StepContacts:
		var contacts map[string]dto.ContactDTO
		if err := decodeStrict(raw, &contacts); err != nil {
			return nil, fmt.Errorf("contacts payload: %w", err)
		}
		c, err := dto.ToContacts(contacts)
		if err != nil {
			return nil, fmt.Errorf("contacts payload: keys must be stop numbers")
		}
		return c, nil
	}

	return nil, nil
}

func (h *SessionHandler) PrevStep(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Wizard.PrevStep()
	writeState(w, r, http.StatusOK, s)
}

// GoToStep jumps to a step; out-of-range steps are clamped.
func (h *SessionHandler) GoToStep(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req dto.GoToStepRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	s.Wizard.GoToStep(req.Step)
	writeState(w, r, http.StatusOK, s)
}
