// Package cache provides a read-through cache for training plan aggregates.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"alcyxob/marathon-trainer/internal/domain"
	"alcyxob/marathon-trainer/internal/metrics"
)

const (
	keyPrefix  = "plan:"
	DefaultTTL = 10 * time.Minute
)

// ErrMiss is returned by a Store for absent keys.
var ErrMiss = errors.New("cache miss")

// Store is the byte-level backend of a PlanCache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Loader fetches a plan from the source of truth.
type Loader func(ctx context.Context) (*domain.TrainingPlan, error)

// PlanCache caches serialized plans by ID. Concurrent misses for the same
// plan share one load. Every caller gets its own decoded copy.
type PlanCache struct {
	store Store // nil disables caching
	ttl   time.Duration
	group singleflight.Group
}

// NewPlanCache returns a PlanCache over an arbitrary Store.
func NewPlanCache(s Store, ttl time.Duration) *PlanCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PlanCache{store: s, ttl: ttl}
}

// NewRedisPlanCache returns a PlanCache backed by Redis.
func NewRedisPlanCache(rdb *redis.Client, ttl time.Duration) *PlanCache {
	return NewPlanCache(redisStore{rdb: rdb}, ttl)
}

// NewNoopPlanCache returns a PlanCache that always loads from the source but
// still coalesces concurrent loads.
func NewNoopPlanCache() *PlanCache {
	return &PlanCache{}
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

func planKey(id string) string { return keyPrefix + id }

// GetOrLoad returns the cached plan or loads, caches and returns it. Cache
// failures degrade to a direct load.
func (c *PlanCache) GetOrLoad(ctx context.Context, planID string, load Loader) (*domain.TrainingPlan, error) {
	key := planKey(planID)

	if c.store != nil {
		raw, err := c.store.Get(ctx, key)
		switch {
		case err == nil:
			if plan, decodeErr := decode(raw); decodeErr == nil {
				metrics.CacheRequests.WithLabelValues("hit").Inc()
				return plan, nil
			}
			log.Printf("WARN: Dropping undecodable cache entry %s", key)
			_ = c.store.Del(ctx, key)
		case errors.Is(err, ErrMiss):
			metrics.CacheRequests.WithLabelValues("miss").Inc()
		default:
			metrics.CacheRequests.WithLabelValues("error").Inc()
			log.Printf("WARN: Plan cache read failed for %s: %v", key, err)
		}
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		plan, err := load(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(plan)
		if err != nil {
			return nil, fmt.Errorf("encode plan %s: %w", planID, err)
		}
		if c.store != nil {
			if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
				log.Printf("WARN: Plan cache write failed for %s: %v", key, err)
			}
		}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return decode(v.([]byte))
}

// Invalidate drops the given plans from the cache.
func (c *PlanCache) Invalidate(ctx context.Context, planIDs ...string) {
	if c.store == nil || len(planIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(planIDs))
	for _, id := range planIDs {
		keys = append(keys, planKey(id))
	}
	if err := c.store.Del(ctx, keys...); err != nil {
		log.Printf("WARN: Plan cache invalidation failed for %v: %v", planIDs, err)
	}
}

func decode(raw []byte) (*domain.TrainingPlan, error) {
	var plan domain.TrainingPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

type redisStore struct {
	rdb *redis.Client
}

func (s redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return val, err
}

func (s redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s redisStore) Del(ctx context.Context, keys ...string) error {
	return s.rdb.Del(ctx, keys...).Err()
}
