package providers

import (
	"context"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/domain/games"
	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/domain/players"
	"github.com/preston-bernstein/better-bets-service/internal/domain/prices"
	"github.com/preston-bernstein/better-bets-service/internal/domain/teams"
)

// guard pairs the limiter and retrier applied to every upstream call.
type guard struct {
	name    string
	retrier *Retrier
	limiter *Limiter
}

func guarded[T any](ctx context.Context, g guard, fn func(context.Context) (T, error)) (T, error) {
	return Retry(ctx, g.retrier, g.name, func(ctx context.Context) (T, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			var zero T
			return zero, err
		}
		return fn(ctx)
	})
}

// guardedOnce waits on the limiter and makes one attempt.
func guardedOnce[T any](ctx context.Context, g guard, fn func(context.Context) (T, error)) (T, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		var zero T
		return zero, err
	}
	return Once(ctx, g.retrier, g.name, fn)
}

type resilientOdds struct {
	next OddsProvider
	g    guard
}

// NewResilientOddsProvider wraps next with rate limiting and retries.
func NewResilientOddsProvider(next OddsProvider, name string, retrier *Retrier, limiter *Limiter) OddsProvider {
	return &resilientOdds{next: next, g: guard{name: name, retrier: retrier, limiter: limiter}}
}

func (p *resilientOdds) Sports(ctx context.Context, all bool) ([]odds.Sport, error) {
	if p.next == nil {
		return nil, ErrProviderUnavailable
	}
	return guarded(ctx, p.g, func(ctx context.Context) ([]odds.Sport, error) {
		return p.next.Sports(ctx, all)
	})
}

func (p *resilientOdds) Scores(ctx context.Context, sport string, daysFrom int) ([]odds.ScoreEvent, error) {
	if p.next == nil {
		return nil, ErrProviderUnavailable
	}
	return guarded(ctx, p.g, func(ctx context.Context) ([]odds.ScoreEvent, error) {
		return p.next.Scores(ctx, sport, daysFrom)
	})
}

func (p *resilientOdds) Odds(ctx context.Context, q odds.OddsQuery) ([]odds.Event, error) {
	if p.next == nil {
		return nil, ErrProviderUnavailable
	}
	return guarded(ctx, p.g, func(ctx context.Context) ([]odds.Event, error) {
		return p.next.Odds(ctx, q)
	})
}

// HistoricalOdds is not retried: each call costs ten quota credits.
func (p *resilientOdds) HistoricalOdds(ctx context.Context, q odds.OddsQuery, at time.Time) (odds.HistoricalOdds, error) {
	if p.next == nil {
		return odds.HistoricalOdds{}, ErrProviderUnavailable
	}
	return guardedOnce(ctx, p.g, func(ctx context.Context) (odds.HistoricalOdds, error) {
		return p.next.HistoricalOdds(ctx, q, at)
	})
}

func (p *resilientOdds) Quota(ctx context.Context) (odds.Quota, error) {
	if p.next == nil {
		return odds.Quota{}, ErrProviderUnavailable
	}
	return guarded(ctx, p.g, p.next.Quota)
}

type resilientNBA struct {
	next NBAProvider
	g    guard
}

// NewResilientNBAProvider wraps next with rate limiting and retries.
func NewResilientNBAProvider(next NBAProvider, name string, retrier *Retrier, limiter *Limiter) NBAProvider {
	return &resilientNBA{next: next, g: guard{name: name, retrier: retrier, limiter: limiter}}
}

func (p *resilientNBA) FetchTeams(ctx context.Context) ([]teams.Team, error) {
	if p.next == nil {
		return nil, ErrProviderUnavailable
	}
	return guarded(ctx, p.g, p.next.FetchTeams)
}

func (p *resilientNBA) FetchPlayers(ctx context.Context) ([]players.Player, error) {
	if p.next == nil {
		return nil, ErrProviderUnavailable
	}
	return guarded(ctx, p.g, p.next.FetchPlayers)
}

func (p *resilientNBA) FetchTeamGames(ctx context.Context, team teams.Team, season int) ([]games.Game, error) {
	if p.next == nil {
		return nil, ErrProviderUnavailable
	}
	return guarded(ctx, p.g, func(ctx context.Context) ([]games.Game, error) {
		return p.next.FetchTeamGames(ctx, team, season)
	})
}

type resilientPrices struct {
	next PriceProvider
	g    guard
}

// NewResilientPriceProvider wraps next with rate limiting and retries.
func NewResilientPriceProvider(next PriceProvider, name string, retrier *Retrier, limiter *Limiter) PriceProvider {
	return &resilientPrices{next: next, g: guard{name: name, retrier: retrier, limiter: limiter}}
}

func (p *resilientPrices) FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]prices.Bar, error) {
	if p.next == nil {
		return nil, ErrProviderUnavailable
	}
	return guarded(ctx, p.g, func(ctx context.Context) ([]prices.Bar, error) {
		return p.next.FetchDaily(ctx, symbol, from, to)
	})
}
