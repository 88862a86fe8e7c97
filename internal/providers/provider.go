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

// OddsProvider fetches sports, scores, and odds from a betting data feed.
type OddsProvider interface {
	Sports(ctx context.Context, all bool) ([]odds.Sport, error)
	Scores(ctx context.Context, sport string, daysFrom int) ([]odds.ScoreEvent, error)
	Odds(ctx context.Context, q odds.OddsQuery) ([]odds.Event, error)
	// HistoricalOdds returns the snapshot closest to and not after at for q.Sport.
	HistoricalOdds(ctx context.Context, q odds.OddsQuery, at time.Time) (odds.HistoricalOdds, error)
	// Quota returns the last observed usage counters, fetching them if none are known.
	Quota(ctx context.Context) (odds.Quota, error)
}

// TeamProvider fetches normalized teams.
type TeamProvider interface {
	FetchTeams(ctx context.Context) ([]teams.Team, error)
}

// PlayerProvider fetches normalized players.
type PlayerProvider interface {
	FetchPlayers(ctx context.Context) ([]players.Player, error)
}

// GameProvider fetches a team's games for a season start year.
type GameProvider interface {
	FetchTeamGames(ctx context.Context, team teams.Team, season int) ([]games.Game, error)
}

// NBAProvider combines all NBA capabilities.
type NBAProvider interface {
	TeamProvider
	PlayerProvider
	GameProvider
}

// PriceProvider fetches daily bars for a symbol within [from, to]. Zero bounds are open.
type PriceProvider interface {
	FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]prices.Bar, error)
}
