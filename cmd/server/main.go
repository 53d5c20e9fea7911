package main

import (
	"context"
	"database/sql"
	"delivery-booking-service/internal/adapters/cache"
	"delivery-booking-service/internal/adapters/mapbox"
	"delivery-booking-service/internal/adapters/repositories"
	"delivery-booking-service/internal/api"
	"delivery-booking-service/internal/config"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/platform/db"
	"delivery-booking-service/internal/platform/ratelimit"
	"delivery-booking-service/internal/platform/validator"
	"delivery-booking-service/internal/ports"
	"delivery-booking-service/internal/services"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, Mapbox) behind ports and starts the HTTP server.
func main() {
	cfg := config.Load()
	if cfg.MapboxToken == "" {
		log.Fatal("MAPBOX_ACCESS_TOKEN is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		bookings    ports.BookingRepository
		routeCache  ports.RouteCache
		suggestions ports.SuggestionCache
		rates       map[domain.VehicleType]domain.RateTuple
	)

	// Postgres is optional: without it bookings are rejected and nothing is cached on disk.
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		if err := initDB(conn, cfg.SeedVehiclesOnRun); err != nil {
			log.Fatal(err)
		}

		rates, err = repositories.NewPostgresVehicleRepository(conn).ListRates(ctx)
		if err != nil {
			log.Fatal(err)
		}

		bookings = repositories.NewPostgresBookingRepository(conn)
		routeCache = cache.NewSQLRouteCache(conn)
		suggestions = cache.NewSQLSuggestionCache(conn, cfg.SuggestionTTL)
	} else {
		log.Println("DATABASE_URL not set: bookings disabled, route cache off")
	}

	// Redis, when configured, takes over suggestion caching.
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping addr=%s: %v", cfg.RedisAddr, err)
		}
		suggestions = cache.NewRedisSuggestionCache(rdb, cfg.SuggestionTTL)
	}

	provider, err := mapbox.NewClient(
		cfg.MapboxToken,
		mapbox.WithBaseURL(cfg.MapboxBaseURL),
		mapbox.WithCaches(suggestions, routeCache),
	)
	if err != nil {
		log.Fatal(err)
	}

	sessions := services.NewSessionManager(services.WizardDeps{
		Geocoder:       provider,
		Directions:     provider,
		Bookings:       bookings,
		Pricing:        services.PricingCalculator{Rates: rates},
		Validator:      validator.New(),
		SearchDebounce: cfg.SearchDebounce,
	}, cfg.SessionTTL, cfg.MaxSessions)
	go sessions.Run(ctx, time.Minute)

	limiter := ratelimit.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	go pruneLimiter(ctx, limiter)

	router := api.NewRouter(api.RouterDeps{
		Sessions:    sessions,
		Bookings:    bookings,
		Rates:       rates,
		Limiter:     limiter,
		CORSOrigins: cfg.CORSOrigins,
	})

	// Write timeout covers a route redraw with retries against Mapbox.
	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

func initDB(conn *sql.DB, seed bool) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	if !seed {
		return nil
	}
	if err := repositories.SeedVehicles(conn, repositories.CatalogSeeds()); err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	return nil
}

func pruneLimiter(ctx context.Context, l *ratelimit.IPRateLimiter) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune(10 * time.Minute)
		}
	}
}
