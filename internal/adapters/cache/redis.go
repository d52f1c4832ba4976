package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matchforge/sportadmin/internal/ports"
)

const redisKeyPrefix = "sportadmin:cache:"

// Connect dials Redis from either a redis:// URL or a bare host:port.
func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// redisEntry is the serialized form of one cache entry. Values survive as
// raw JSON and are decoded by the query layer, since Redis cannot hold the
// typed value an in-process store can.
type redisEntry struct {
	Value     json.RawMessage `json:"value"`
	FetchedAt time.Time       `json:"fetched_at"`
	Stale     bool            `json:"stale"`
}

var _ ports.CacheStore = (*Redis)(nil)

// Redis is a CacheStore backed by a shared Redis instance, for deployments
// where several admin processes should see one cache. Key TTLs double as the
// idle-eviction window: every touch refreshes the TTL.
type Redis struct {
	client     *redis.Client
	freshFor   time.Duration
	evictAfter time.Duration
	nowFn      func() time.Time
}

func NewRedis(client *redis.Client, freshFor, evictAfter time.Duration) *Redis {
	return &Redis{
		client:     client,
		freshFor:   freshFor,
		evictAfter: evictAfter,
		nowFn:      time.Now,
	}
}

func redisKey(key ports.Key) string {
	return redisKeyPrefix + key.String()
}

func (r *Redis) Get(ctx context.Context, key ports.Key) (*ports.Entry, error) {
	raw, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var e redisEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode cache entry: %w", err)
	}
	// Touch: a read keeps the entry alive for another idle window.
	_ = r.client.Expire(ctx, redisKey(key), r.evictAfter).Err()

	return &ports.Entry{
		Value:     e.Value,
		FetchedAt: e.FetchedAt,
		Stale:     e.Stale || r.nowFn().Sub(e.FetchedAt) > r.freshFor,
	}, nil
}

func (r *Redis) Set(ctx context.Context, key ports.Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}
	payload, err := json.Marshal(redisEntry{Value: raw, FetchedAt: r.nowFn().UTC()})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKey(key), payload, r.evictAfter).Err()
}

func (r *Redis) MarkStale(ctx context.Context, key ports.Key) error {
	return r.markStale(ctx, redisKey(key))
}

func (r *Redis) InvalidateScope(ctx context.Context, resource, kind string) error {
	pattern := redisKeyPrefix + resource + ":" + kind + ":*"
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.markStale(ctx, iter.Val()); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *Redis) Remove(ctx context.Context, key ports.Key) error {
	return r.client.Del(ctx, redisKey(key)).Err()
}

func (r *Redis) markStale(ctx context.Context, rawKey string) error {
	raw, err := r.client.Get(ctx, rawKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	var e redisEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		// An undecodable entry is useless as placeholder data; drop it.
		return r.client.Del(ctx, rawKey).Err()
	}
	if e.Stale {
		return nil
	}
	e.Stale = true
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, rawKey, payload, redis.KeepTTL).Err()
}
