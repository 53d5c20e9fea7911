package repositories

import (
	"context"
	"database/sql"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/platform/apperr"
	"delivery-booking-service/internal/platform/obs"
	"delivery-booking-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the BookingRepository port. Stops,
// contacts, orders and timing are stored as JSONB documents.
type PostgresBookingRepository struct{ DB *sql.DB }

var _ ports.BookingRepository = (*PostgresBookingRepository)(nil)

func NewPostgresBookingRepository(db *sql.DB) *PostgresBookingRepository {
	return &PostgresBookingRepository{DB: db}
}

type bookingDocs struct {
	timing, stops, contacts, orders []byte
}

func encodeBooking(b domain.Booking) (bookingDocs, error) {
	var d bookingDocs
	var err error
	if d.timing, err = json.Marshal(b.Timing); err != nil {
		return d, fmt.Errorf("encode timing: %w", err)
	}
	if d.stops, err = json.Marshal(b.Stops); err != nil {
		return d, fmt.Errorf("encode stops: %w", err)
	}
	if d.contacts, err = json.Marshal(b.Contacts); err != nil {
		return d, fmt.Errorf("encode contacts: %w", err)
	}
	if d.orders, err = json.Marshal(b.Orders); err != nil {
		return d, fmt.Errorf("encode orders: %w", err)
	}
	return d, nil
}

func (p *PostgresBookingRepository) SaveBooking(ctx context.Context, b domain.Booking) (err error) {
	defer obs.Time(ctx, "bookings.Save")(&err)

	if p.DB == nil {
		return errors.New("postgres booking repository: DB is nil")
	}

	docs, err := encodeBooking(b)
	if err != nil {
		return fmt.Errorf("save booking %s: %w", b.ID, err)
	}

	query := `
	INSERT INTO bookings (
		booking_id,
		session_id,
		vehicle_type,
		timing,
		stops,
		contacts,
		orders,
		distance_meters,
		price,
		created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = p.DB.ExecContext(ctx, query,
		b.ID, b.SessionID, string(b.Vehicle),
		docs.timing, docs.stops, docs.contacts, docs.orders,
		b.RouteDistance.Meters, b.Price, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save booking %s: insert: %w", b.ID, err)
	}
	return nil
}

func (p *PostgresBookingRepository) GetBooking(ctx context.Context, id string) (_ domain.Booking, err error) {
	defer obs.Time(ctx, "bookings.Get")(&err)

	if p.DB == nil {
		return domain.Booking{}, errors.New("postgres booking repository: DB is nil")
	}

	query := `
	SELECT
		booking_id,
		session_id,
		vehicle_type,
		timing,
		stops,
		contacts,
		orders,
		distance_meters,
		price,
		created_at
	FROM bookings
	WHERE booking_id = $1;
	`

	var (
		b       domain.Booking
		vehicle string
		docs    bookingDocs
		meters  float64
	)
	err = p.DB.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.SessionID, &vehicle,
		&docs.timing, &docs.stops, &docs.contacts, &docs.orders,
		&meters, &b.Price, &b.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, apperr.NotFound("booking not found").WithOp("get booking")
	}
	if err != nil {
		return domain.Booking{}, fmt.Errorf("get booking %s: query: %w", id, err)
	}

	b.Vehicle = domain.VehicleType(vehicle)
	b.RouteDistance = domain.NewRouteDistance(meters)

	if err := json.Unmarshal(docs.timing, &b.Timing); err != nil {
		return domain.Booking{}, fmt.Errorf("get booking %s: decode timing: %w", id, err)
	}
	if err := json.Unmarshal(docs.stops, &b.Stops); err != nil {
		return domain.Booking{}, fmt.Errorf("get booking %s: decode stops: %w", id, err)
	}
	if err := json.Unmarshal(docs.contacts, &b.Contacts); err != nil {
		return domain.Booking{}, fmt.Errorf("get booking %s: decode contacts: %w", id, err)
	}
	if err := json.Unmarshal(docs.orders, &b.Orders); err != nil {
		return domain.Booking{}, fmt.Errorf("get booking %s: decode orders: %w", id, err)
	}

	return b, nil
}
