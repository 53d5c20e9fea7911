package ports

import (
	"context"
	"delivery-booking-service/internal/domain"
)

// Port: a boundary for persisting submitted bookings.
type BookingRepository interface {
	SaveBooking(ctx context.Context, b domain.Booking) error
	GetBooking(ctx context.Context, id string) (domain.Booking, error)
}
