// Package cache provides the Redis-backed store for public destination listings.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the Redis connection settings.
type Config struct {
	Addr     string
	Password string // optional
	DB       int    // optional
}

// NewClient connects to Redis and verifies the connection with PING.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache.NewClient: ping redis: %w", err)
	}
	return client, nil
}

// Listing stores JSON-encoded listings under a namespaced key with a fixed TTL.
// It satisfies service.ListingCache.
type Listing struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewListing returns a Listing writing keys as "<namespace><key>".
func NewListing(client *redis.Client, namespace string, ttl time.Duration) *Listing {
	return &Listing{client: client, namespace: namespace, ttl: ttl}
}

// Get decodes the value stored under key into dest.
// A missing key is reported as (false, nil).
func (l *Listing) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := l.client.Get(ctx, l.namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache.Listing.Get: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache.Listing.Get: decode %s: %w", key, err)
	}
	return true, nil
}

func (l *Listing) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache.Listing.Set: encode %s: %w", key, err)
	}
	if err := l.client.Set(ctx, l.namespace+key, raw, l.ttl).Err(); err != nil {
		return fmt.Errorf("cache.Listing.Set: %w", err)
	}
	return nil
}

// Invalidate deletes every key beginning with prefix. SCAN is used instead of
// KEYS so a large keyspace never blocks the server.
func (l *Listing) Invalidate(ctx context.Context, prefix string) error {
	iter := l.client.Scan(ctx, 0, l.namespace+prefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache.Listing.Invalidate: scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := l.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache.Listing.Invalidate: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (l *Listing) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
