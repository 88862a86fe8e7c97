package server

import (
	"log/slog"
	"strings"

	"github.com/preston-bernstein/better-bets-service/internal/config"
	"github.com/preston-bernstein/better-bets-service/internal/logging"
	"github.com/preston-bernstein/better-bets-service/internal/metrics"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
	"github.com/preston-bernstein/better-bets-service/internal/providers/balldontlie"
	"github.com/preston-bernstein/better-bets-service/internal/providers/fixture"
	"github.com/preston-bernstein/better-bets-service/internal/providers/oddsapi"
	"github.com/preston-bernstein/better-bets-service/internal/providers/stooq"
)

// fixtureSource hands out one shared fixture so odds calls and quota reads agree.
type fixtureSource struct {
	p *fixture.Provider
}

func (f *fixtureSource) get() *fixture.Provider {
	if f.p == nil {
		f.p = fixture.New()
	}
	return f.p
}

func selectOddsProvider(cfg config.Config, fx *fixtureSource, logger *slog.Logger, recorder *metrics.Recorder) providers.OddsProvider {
	switch strings.ToLower(cfg.OddsAPI.Provider) {
	case config.ProviderFixture, "":
		return fx.get()
	case config.ProviderOddsAPI:
		return oddsapi.NewClient(oddsapi.Config{
			BaseURL:    cfg.OddsAPI.BaseURL,
			APIKey:     cfg.OddsAPI.APIKey,
			OddsFormat: cfg.OddsAPI.OddsFormat,
			DateFormat: cfg.OddsAPI.DateFormat,
			Logger:     logger,
			Metrics:    recorder,
		})
	default:
		warnUnknownProvider(logger, "odds", cfg.OddsAPI.Provider)
		return fx.get()
	}
}

func selectNBAProvider(cfg config.Config, fx *fixtureSource, logger *slog.Logger) providers.NBAProvider {
	switch strings.ToLower(cfg.NBA.Provider) {
	case config.ProviderFixture, "":
		return fx.get()
	case config.ProviderBalldontlie:
		return balldontlie.NewClient(balldontlie.Config{
			BaseURL:  cfg.NBA.BaseURL,
			APIKey:   cfg.NBA.APIKey,
			MaxPages: cfg.NBA.MaxPages,
			Logger:   logger,
		})
	default:
		warnUnknownProvider(logger, "nba", cfg.NBA.Provider)
		return fx.get()
	}
}

func selectPriceProvider(cfg config.Config, fx *fixtureSource, logger *slog.Logger) providers.PriceProvider {
	switch strings.ToLower(cfg.Prices.Provider) {
	case config.ProviderFixture, "":
		return fx.get()
	case config.ProviderStooq:
		return stooq.NewClient(stooq.Config{BaseURL: cfg.Prices.BaseURL})
	default:
		warnUnknownProvider(logger, "prices", cfg.Prices.Provider)
		return fx.get()
	}
}

func warnUnknownProvider(logger *slog.Logger, concern, name string) {
	logging.Warn(logger, "unknown provider, falling back to fixture",
		slog.String("concern", concern),
		slog.String(logging.FieldProvider, name),
	)
}
