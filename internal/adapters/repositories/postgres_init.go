package repositories

import (
	"database/sql"
	"delivery-booking-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		vehicle_type TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		capacity_lbs DOUBLE PRECISION NOT NULL,
		base_rate DOUBLE PRECISION NOT NULL,
		vehicle_fee DOUBLE PRECISION NOT NULL,
		multiplier DOUBLE PRECISION NOT NULL
	);
	`

	createBookingsQuery := `
	CREATE TABLE IF NOT EXISTS bookings (
		booking_id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		vehicle_type TEXT NOT NULL,
		timing JSONB NOT NULL,
		stops JSONB NOT NULL,
		contacts JSONB NOT NULL,
		orders JSONB NOT NULL,
		distance_meters DOUBLE PRECISION NOT NULL,
		price NUMERIC(12, 2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
        route_key TEXT PRIMARY KEY,
        distance_meters DOUBLE PRECISION NOT NULL,
        duration_seconds DOUBLE PRECISION NOT NULL,
        geometry JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`

	createSuggestionCacheQuery := `
	CREATE TABLE IF NOT EXISTS suggestion_cache (
        query_key TEXT PRIMARY KEY,
        addresses JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_bookings_created_at
    ON bookings(created_at);
	`

	statements := []string{
		createVehiclesQuery,
		createBookingsQuery,
		createRouteCacheQuery,
		createSuggestionCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type VehicleSeed struct {
	VehicleType string  `json:"vehicle_type"`
	Name        string  `json:"name"`
	CapacityLbs float64 `json:"capacity_lbs"`
	BaseRate    float64 `json:"base_rate"`
	VehicleFee  float64 `json:"vehicle_fee"`
	Multiplier  float64 `json:"multiplier"`
}

// Load vehicle seeds from a JSON file.
func LoadVehicleSeeds(jsonPath string) ([]VehicleSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed vehicles: read %q: %w", jsonPath, err)
	}

	var data []VehicleSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed vehicles: parse json: %w", err)
	}
	return data, nil
}

// Seeds for the built-in vehicle catalog.
func CatalogSeeds() []VehicleSeed {
	vehicles := domain.Vehicles()
	out := make([]VehicleSeed, len(vehicles))
	for i, v := range vehicles {
		out[i] = VehicleSeed{
			VehicleType: string(v.Type),
			Name:        v.Name,
			CapacityLbs: v.CapacityLbs,
			BaseRate:    v.Rate.BaseRate,
			VehicleFee:  v.Rate.VehicleFee,
			Multiplier:  v.Rate.Multiplier,
		}
	}
	return out
}

// Upsert vehicle rows.
func SeedVehicles(db *sql.DB, data []VehicleSeed) error {
	if db == nil {
		return errors.New("seed vehicles: DB is nil")
	}

	rows := make([]VehicleSeed, 0, len(data))
	for i, item := range data {
		item.VehicleType = strings.TrimSpace(item.VehicleType)
		if item.VehicleType == "" {
			return fmt.Errorf("seed vehicles: item at index %d: vehicle_type cannot be empty", i+1)
		}
		if item.CapacityLbs <= 0 || item.BaseRate < 0 || item.VehicleFee < 0 || item.Multiplier <= 0 {
			return fmt.Errorf("seed vehicles: item %q: capacity, rate, fee and multiplier must be positive", item.VehicleType)
		}
		rows = append(rows, item)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed vehicles: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO vehicles (
		vehicle_type,
		name,
		capacity_lbs,
		base_rate,
		vehicle_fee,
		multiplier
	)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (vehicle_type) DO UPDATE
	SET name = EXCLUDED.name,
		capacity_lbs = EXCLUDED.capacity_lbs,
		base_rate = EXCLUDED.base_rate,
		vehicle_fee = EXCLUDED.vehicle_fee,
		multiplier = EXCLUDED.multiplier;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed vehicles: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range rows {
		if _, err := stmt.Exec(v.VehicleType, v.Name, v.CapacityLbs, v.BaseRate, v.VehicleFee, v.Multiplier); err != nil {
			return fmt.Errorf("seed vehicles: insert vehicle_type=%s: %w", v.VehicleType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed vehicles: commit tx: %w", err)
	}

	return nil
}
