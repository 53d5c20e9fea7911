package api

import (
	"delivery-booking-service/internal/api/handlers"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/platform/ratelimit"
	"delivery-booking-service/internal/ports"
	"delivery-booking-service/internal/services"
	"net/http"

	"github.com/rs/cors"
)

// Dependencies of the HTTP API. Bookings and Rates may be nil.
type RouterDeps struct {
	Sessions    *services.SessionManager
	Bookings    ports.BookingRepository
	Rates       map[domain.VehicleType]domain.RateTuple
	Limiter     *ratelimit.IPRateLimiter
	CORSOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	vehicles := &handlers.VehicleHandler{Rates: deps.Rates}
	sessions := &handlers.SessionHandler{Sessions: deps.Sessions}
	bookings := &handlers.BookingHandler{Repo: deps.Bookings}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("GET /vehicles", vehicles.List)
	mux.HandleFunc("GET /bookings/{id}", bookings.Get)

	mux.HandleFunc("POST /sessions", sessions.Create)
	mux.HandleFunc("GET /sessions/{id}", sessions.Get)
	mux.HandleFunc("DELETE /sessions/{id}", sessions.Delete)

	mux.HandleFunc("POST /sessions/{id}/steps/next", sessions.NextStep)
	mux.HandleFunc("POST /sessions/{id}/steps/prev", sessions.PrevStep)
	mux.HandleFunc("POST /sessions/{id}/steps/goto", sessions.GoToStep)

	mux.HandleFunc("POST /sessions/{id}/stops", sessions.AddStop)
	mux.HandleFunc("POST /sessions/{id}/stops/optimize", sessions.OptimizeStops)
	mux.HandleFunc("DELETE /sessions/{id}/stops/{ordinal}", sessions.RemoveStop)
	mux.HandleFunc("PUT /sessions/{id}/stops/{ordinal}/address", sessions.AssignAddress)
	mux.HandleFunc("POST /sessions/{id}/route", sessions.RetryRoute)

	mux.HandleFunc("POST /sessions/{id}/search", sessions.Search)
	mux.HandleFunc("GET /sessions/{id}/suggestions", sessions.Suggestions)
	mux.HandleFunc("POST /sessions/{id}/suggestions/{index}/select", sessions.SelectSuggestion)

	mux.HandleFunc("POST /sessions/{id}/picking", sessions.StartPicking)
	mux.HandleFunc("DELETE /sessions/{id}/picking", sessions.StopPicking)
	mux.HandleFunc("POST /sessions/{id}/map/click", sessions.MapClick)
	mux.HandleFunc("POST /sessions/{id}/map/fly", sessions.FlyTo)
	mux.HandleFunc("GET /sessions/{id}/map", sessions.Map)

	mux.HandleFunc("PUT /sessions/{id}/timing", sessions.SetTiming)
	mux.HandleFunc("GET /sessions/{id}/quote", sessions.Quote)
	mux.HandleFunc("POST /sessions/{id}/reset", sessions.Reset)
	mux.HandleFunc("POST /sessions/{id}/submit", sessions.Submit)

	var h http.Handler = mux
	if deps.Limiter != nil {
		h = deps.Limiter.Middleware(h)
	}
	if len(deps.CORSOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: deps.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         600,
		}).Handler(h)
	}

	return requestIDMiddleware(loggingMiddleware(h))
}
