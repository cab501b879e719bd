package service

import (
	"context"
	"log/slog"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/metrics"
)

// ListingCache stores serialized public listings. A cache failure must never
// fail the request, so services treat errors as misses and log them.
type ListingCache interface {
	// Get decodes the value stored under key into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores v under key.
	Set(ctx context.Context, key string, v any) error
	// Invalidate removes every key starting with prefix.
	Invalidate(ctx context.Context, prefix string) error
}

// noopCache is used when no cache is configured.
type noopCache struct{}

func (noopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noopCache) Set(context.Context, string, any) error         { return nil }
func (noopCache) Invalidate(context.Context, string) error       { return nil }

func orNoop(c ListingCache) ListingCache {
	if c == nil {
		return noopCache{}
	}
	return c
}

// cachedList returns the listing stored under key, or calls load and stores its result.
func cachedList[T any](ctx context.Context, c ListingCache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var cached []T
	hit, err := c.Get(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "listing cache read failed", "key", key, "error", err)
	case hit:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		if cached == nil {
			cached = []T{}
		}
		return cached, nil
	default:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	fresh, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, fresh); err != nil {
		slog.WarnContext(ctx, "listing cache write failed", "key", key, "error", err)
	}
	return fresh, nil
}

// invalidate drops cached listings under prefix after a successful write.
func invalidate(ctx context.Context, c ListingCache, prefix string) {
	if err := c.Invalidate(ctx, prefix); err != nil {
		slog.WarnContext(ctx, "listing cache invalidation failed", "prefix", prefix, "error", err)
	}
}
