package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/placement-dashboard/internal/model"
)

// BaselineLoader is anything that can produce the baseline table.
type BaselineLoader interface {
	LoadBaseline(ctx context.Context) (model.RegionBaseline, error)
}

// CachedRegionRepository is a Redis read-through cache in front of a BaselineLoader.
type CachedRegionRepository struct {
	origin BaselineLoader
	rdb    *redis.Client
	key    string
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCachedRegionRepository creates a new CachedRegionRepository.
func NewCachedRegionRepository(origin BaselineLoader, rdb *redis.Client, key string, ttl time.Duration, log zerolog.Logger) *CachedRegionRepository {
	return &CachedRegionRepository{
		origin: origin,
		rdb:    rdb,
		key:    key,
		ttl:    ttl,
		log:    log.With().Str("component", "region_cache").Logger(),
	}
}

// LoadBaseline serves the cached table, falling back to the origin on a miss
// or a Redis failure.
func (r *CachedRegionRepository) LoadBaseline(ctx context.Context) (model.RegionBaseline, error) {
	raw, err := r.rdb.Get(ctx, r.key).Bytes()
	switch {
	case err == nil:
		baseline, decodeErr := decodeBaseline(raw)
		if decodeErr == nil {
			return baseline, nil
		}
		r.log.Warn().Err(decodeErr).Str("key", r.key).Msg("Corrupt baseline cache entry, reloading")
	case errors.Is(err, redis.Nil):
	default:
		r.log.Warn().Err(err).Str("key", r.key).Msg("Baseline cache read failed")
	}

	return r.Refresh(ctx)
}

// Refresh reloads the table from the origin and rewrites the cache entry.
// A failed cache write is logged and the fresh table is still returned.
func (r *CachedRegionRepository) Refresh(ctx context.Context) (model.RegionBaseline, error) {
	baseline, err := r.origin.LoadBaseline(ctx)
	if err != nil {
		return nil, fmt.Errorf("load baseline: %w", err)
	}

	raw, err := json.Marshal(baseline)
	if err != nil {
		return nil, fmt.Errorf("marshal baseline: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key, raw, r.ttl).Err(); err != nil {
		r.log.Warn().Err(err).Str("key", r.key).Msg("Baseline cache write failed")
	}
	return baseline, nil
}

func decodeBaseline(raw []byte) (model.RegionBaseline, error) {
	var baseline model.RegionBaseline
	if err := json.Unmarshal(raw, &baseline); err != nil {
		return nil, err
	}
	if baseline == nil {
		return nil, errors.New("empty baseline")
	}
	return baseline, nil
}
