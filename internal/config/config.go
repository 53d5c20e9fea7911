// Package config reads service settings from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	RedisAddr         string
	MapboxToken       string
	MapboxBaseURL     string
	SearchDebounce    time.Duration
	SuggestionTTL     time.Duration
	SessionTTL        time.Duration
	MaxSessions       int
	CORSOrigins       []string
	RateLimitRPS      float64
	RateLimitBurst    int
	SeedVehiclesOnRun bool
}

// Load reads .env when present, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	return Config{
		Port:              Get("PORT", "8080"),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		MapboxToken:       strings.TrimSpace(os.Getenv("MAPBOX_ACCESS_TOKEN")),
		MapboxBaseURL:     Get("MAPBOX_BASE_URL", "https://api.mapbox.com"),
		SearchDebounce:    GetDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		SuggestionTTL:     GetDuration("SUGGESTION_CACHE_TTL", 24*time.Hour),
		SessionTTL:        GetDuration("SESSION_TTL", 2*time.Hour),
		MaxSessions:       GetInt("MAX_SESSIONS", 10000),
		CORSOrigins:       GetList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		RateLimitRPS:      GetFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:    GetInt("RATE_LIMIT_BURST", 40),
		SeedVehiclesOnRun: GetBool("SEED_VEHICLES", true),
	}
}

// Get returns the value of key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: invalid duration %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid int %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func GetFloat(key string, fallback float64) float64 {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: invalid float %s=%q, using %g", key, v, fallback)
		return fallback
	}
	return f
}

func GetBool(key string, fallback bool) bool {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("config: invalid bool %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}

// GetList splits a comma-separated value, dropping empty entries.
func GetList(key string, fallback []string) []string {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
