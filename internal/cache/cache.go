// Package cache stores upstream responses to save request quota.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/logging"
	"github.com/preston-bernstein/better-bets-service/internal/metrics"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Loader wraps a cache with logging and hit/miss accounting.
type Loader struct {
	Cache   Cache
	Name    string
	TTL     time.Duration
	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

// GetOrLoad returns the cached value for key or calls load and caches its result.
// Cache failures are logged and never fail the call. A nil cache or non-positive TTL always loads.
func GetOrLoad[T any](ctx context.Context, l Loader, key string, load func(context.Context) (T, error)) (T, error) {
	if l.Cache == nil || l.TTL <= 0 {
		return load(ctx)
	}
	logger := logging.FromContext(ctx, l.Logger)

	raw, ok, err := l.Cache.Get(ctx, key)
	if err != nil {
		logging.Warn(logger, "cache get failed", slog.String(logging.FieldKey, key), slog.Any("err", err))
	}
	if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			l.Metrics.RecordCache(l.Name, true)
			return cached, nil
		}
		logging.Warn(logger, "cache entry undecodable", slog.String(logging.FieldKey, key))
	}
	l.Metrics.RecordCache(l.Name, false)

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		logging.Warn(logger, "cache encode failed", slog.String(logging.FieldKey, key), slog.Any("err", err))
		return value, nil
	}
	if err := l.Cache.Set(ctx, key, encoded, l.TTL); err != nil {
		logging.Warn(logger, "cache set failed", slog.String(logging.FieldKey, key), slog.Any("err", err))
	}
	return value, nil
}
