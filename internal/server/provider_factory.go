package server

import (
	"log/slog"
	"strings"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/config"
	"github.com/preston-bernstein/better-bets-service/internal/metrics"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
)

// providerSet is one provider per upstream concern.
type providerSet struct {
	Odds   providers.OddsProvider
	NBA    providers.NBAProvider
	Prices providers.PriceProvider
}

// providerFactory assembles providers with shared wrappers (rate limit + retry).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config) providerSet {
	fx := &fixtureSource{}
	return f.wrap(cfg, providerSet{
		Odds:   selectOddsProvider(cfg, fx, f.logger, f.metrics),
		NBA:    selectNBAProvider(cfg, fx, f.logger),
		Prices: selectPriceProvider(cfg, fx, f.logger),
	})
}

// wrap decorates each provider with its own limiter and a shared retrier.
func (f providerFactory) wrap(cfg config.Config, set providerSet) providerSet {
	retrier := providers.NewRetrier(f.logger, f.metrics, 0, 0)
	return providerSet{
		Odds: providers.NewResilientOddsProvider(set.Odds,
			normalizeProviderName(cfg.OddsAPI.Provider, set.Odds), retrier, limiterFor(cfg.OddsAPI.Provider, cfg.OddsAPI.MinInterval)),
		NBA: providers.NewResilientNBAProvider(set.NBA,
			normalizeProviderName(cfg.NBA.Provider, set.NBA), retrier, limiterFor(cfg.NBA.Provider, cfg.NBA.MinInterval)),
		Prices: providers.NewResilientPriceProvider(set.Prices,
			normalizeProviderName(cfg.Prices.Provider, set.Prices), retrier, nil),
	}
}

// limiterFor spaces calls only for real upstreams; the fixture has no rate limit.
func limiterFor(provider string, interval time.Duration) *providers.Limiter {
	switch strings.ToLower(provider) {
	case "", config.ProviderFixture:
		return nil
	}
	return providers.NewLimiter(interval)
}

// Providers builds the same rate-limited, retrying providers the server uses, for batch commands.
func Providers(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (providers.OddsProvider, providers.NBAProvider, providers.PriceProvider) {
	set := newProviderFactory(logger, recorder).build(cfg)
	return set.Odds, set.NBA, set.Prices
}
