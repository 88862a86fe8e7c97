package server

import (
	"context"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/better-bets-service/internal/cache"
	"github.com/preston-bernstein/better-bets-service/internal/config"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
)

// newRedisCache is swapped in tests.
var newRedisCache = func(ctx context.Context, url string) (cache.Cache, func() error, error) {
	rc, err := cache.NewRedisCache(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return rc, rc.Close, nil
}

// buildCache picks the response cache backend. The returned closer may be nil.
// A redis backend that cannot be reached degrades to the in-memory cache.
func buildCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (cache.Cache, func() error) {
	switch strings.ToLower(cfg.Backend) {
	case config.CacheNone:
		return nil, nil
	case config.CacheRedis:
		c, closer, err := newRedisCache(ctx, cfg.RedisURL)
		if err == nil {
			logging.Info(logger, "redis cache connected")
			return c, closer
		}
		logging.Error(logger, "redis cache unavailable, using memory cache", err)
	}
	return cache.NewMemoryCache(), nil
}
