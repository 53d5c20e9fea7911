package repositories

import (
	"context"
	"database/sql"
	"delivery-booking-service/internal/domain"
	"errors"
	"fmt"
)

// Postgres-backed store of per-vehicle pricing.
type PostgresVehicleRepository struct{ DB *sql.DB }

func NewPostgresVehicleRepository(db *sql.DB) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{DB: db}
}

// Return the rate tuple stored for every vehicle type.
func (p *PostgresVehicleRepository) ListRates(ctx context.Context) (map[domain.VehicleType]domain.RateTuple, error) {
	if p.DB == nil {
		return nil, errors.New("postgres vehicle repository: DB is nil")
	}

	query := `
	SELECT
		vehicle_type,
		base_rate,
		vehicle_fee,
		multiplier
	FROM vehicles
	ORDER BY capacity_lbs;
	`
	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicle rates: query vehicles table: %w", err)
	}
	defer rows.Close()

	rates := make(map[domain.VehicleType]domain.RateTuple)
	for rows.Next() {
		var t string
		var r domain.RateTuple
		if err := rows.Scan(&t, &r.BaseRate, &r.VehicleFee, &r.Multiplier); err != nil {
			return nil, fmt.Errorf("list vehicle rates: scan row: %w", err)
		}
		rates[domain.VehicleType(t)] = r
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicle rates: row iteration: %w", err)
	}

	return rates, nil
}
