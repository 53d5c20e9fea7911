package services

import (
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/platform/apperr"
	"fmt"
	"sync"
)

const (
	StepStops = iota + 1
	StepVehicle
	StepTiming
	StepOrders
	StepContacts
	StepReview

	FirstStep = StepStops
	LastStep  = StepReview
)

// Header text shown above a step.
type StepHeader struct {
	Title       string
	Description string
}

var stepHeaders = map[int]StepHeader{
	StepStops:    {"Where are we going?", "Add your pickup, drop-off and any stops along the way."},
	StepVehicle:  {"Choose a vehicle", "Pick the vehicle that fits your shipment."},
	StepTiming:   {"When should we deliver?", "Rush, same-day or scheduled delivery."},
	StepOrders:   {"What are we moving?", "Add reference numbers and items for each order."},
	StepContacts: {"Who do we contact?", "Contact details for every stop."},
	StepReview:   {"Review and book", "Check the details and confirm your delivery."},
}

func HeaderFor(step int) StepHeader {
	return stepHeaders[clampStep(step)]
}

func clampStep(n int) int {
	return max(FirstStep, min(LastStep, n))
}

type commitFunc func(store *FormStore, data any) error

// Which store setter receives the payload of each completed step.
var stepCommits = map[int]commitFunc{
	StepStops: func(store *FormStore, data any) error {
		stops, ok := data.([]domain.Stop)
		if !ok {
			return payloadError(StepStops, data)
		}
		store.SetStops(stops)
		return nil
	},
	StepVehicle: func(store *FormStore, data any) error {
		v, ok := data.(domain.VehicleType)
		if !ok {
			return payloadError(StepVehicle, data)
		}
		store.SetVehicleType(v)
		return nil
	},
	StepTiming: func(store *FormStore, data any) error {
		t, ok := data.(domain.DeliveryTiming)
		if !ok {
			return payloadError(StepTiming, data)
		}
		store.SetTiming(t)
		return nil
	},
	StepOrders: func(store *FormStore, data any) error {
		orders, ok := data.([]domain.Order)
		if !ok {
			return payloadError(StepOrders, data)
		}
		store.SetOrders(orders)
		return nil
	},
	StepContacts: func(store *FormStore, data any) error {
		contacts, ok := data.(map[int]domain.ContactInfo)
		if !ok {
			return payloadError(StepContacts, data)
		}
		for ordinal, c := range contacts {
			store.SetContactInfo(ordinal, c)
		}
		return nil
	},
}

func payloadError(step int, data any) error {
	return apperr.Validation(fmt.Sprintf("step %d does not accept a %T payload", step, data)).WithOp("next step")
}

// StepNavigator tracks the active wizard step. It never validates content;
// each step's view decides when advancing is allowed.
type StepNavigator struct {
	mu    sync.Mutex
	step  int
	store *FormStore
}

func NewStepNavigator(store *FormStore) *StepNavigator {
	return &StepNavigator{step: FirstStep, store: store}
}

func (n *StepNavigator) Current() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.step
}

func (n *StepNavigator) Header() StepHeader {
	return HeaderFor(n.Current())
}

// NextStep commits data for the step being left, then advances (capped at
// LastStep). A nil payload only advances. On a mismatched payload nothing is
// committed and the step does not move.
func (n *StepNavigator) NextStep(data any) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if data != nil {
		commit, ok := stepCommits[n.step]
		if !ok {
			return payloadError(n.step, data)
		}
		if err := commit(n.store, data); err != nil {
			return err
		}
	}

	n.step = clampStep(n.step + 1)
	return nil
}

func (n *StepNavigator) PrevStep() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.step = clampStep(n.step - 1)
}

// GoToStep jumps to step after clamping it into range and returns the result.
func (n *StepNavigator) GoToStep(step int) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.step = clampStep(step)
	return n.step
}
