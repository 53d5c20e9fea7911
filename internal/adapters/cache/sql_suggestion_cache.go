package cache

import (
	"context"
	"database/sql"
	"delivery-booking-service/internal/domain"
	"delivery-booking-service/internal/platform/obs"
	"delivery-booking-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLSuggestionCache keeps forward geocode results in Postgres. It serves as
// the suggestion cache when no Redis is configured. Entries older than TTL
// count as misses.
type SQLSuggestionCache struct {
	DB  *sql.DB
	TTL time.Duration
}

var _ ports.SuggestionCache = (*SQLSuggestionCache)(nil)

func NewSQLSuggestionCache(db *sql.DB, ttl time.Duration) *SQLSuggestionCache {
	return &SQLSuggestionCache{DB: db, TTL: ttl}
}

func (s *SQLSuggestionCache) Get(ctx context.Context, key string) (_ []domain.Address, ok bool, err error) {
	defer obs.Time(ctx, "suggestion.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("suggestion cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, nil
	}

	q := `
	SELECT addresses
    FROM suggestion_cache
    WHERE query_key = $1
        AND updated_at > $2;
	`

	var raw []byte
	err = s.DB.QueryRowContext(ctx, q, key, time.Now().Add(-s.TTL)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get suggestion cache: query suggestion_cache table: %w", err)
	}

	var entries []addressEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("get suggestion cache: decode: %w", err)
	}

	return fromEntries(entries), true, nil
}

func (s *SQLSuggestionCache) Put(ctx context.Context, key string, addresses []domain.Address) (err error) {
	defer obs.Time(ctx, "suggestion.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("suggestion cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert suggestion cache: key must not be empty")
	}

	raw, err := json.Marshal(toEntries(addresses))
	if err != nil {
		return fmt.Errorf("insert suggestion cache: encode: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO suggestion_cache (query_key, addresses, updated_at)
    VALUES ($1, $2, now())
	ON CONFLICT (query_key) DO UPDATE
	SET addresses = EXCLUDED.addresses,
		updated_at = EXCLUDED.updated_at;
	`, key, raw)
	if err != nil {
		return fmt.Errorf("insert suggestion cache key=%q: %w", key, err)
	}

	return nil
}
