package main

import (
	"database/sql"
	"delivery-booking-service/internal/adapters/repositories"
	"delivery-booking-service/internal/config"
	"delivery-booking-service/internal/platform/db"
	"log"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/vehicles.json")
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(db *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(db); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Printf("Seeding vehicles from %s...", seedPath)
	seeds, err := repositories.LoadVehicleSeeds(seedPath)
	if err != nil {
		log.Fatalf("loading seeds failed: %v", err)
	}
	if err := repositories.SeedVehicles(db, seeds); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}
