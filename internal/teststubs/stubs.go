// Package teststubs holds provider doubles shared by package tests.
package teststubs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/domain/games"
	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/domain/players"
	"github.com/preston-bernstein/better-bets-service/internal/domain/prices"
	"github.com/preston-bernstein/better-bets-service/internal/domain/teams"
)

// notify closes ch on first use so tests can wait for the first call.
func notify(ch chan struct{}, once *sync.Once) {
	if ch != nil {
		once.Do(func() { close(ch) })
	}
}

// StubNBAProvider is a test double for providers.NBAProvider.
type StubNBAProvider struct {
	Teams     []teams.Team
	Players   []players.Player
	Games     []games.Game
	Err       error
	PlayerErr error
	Calls     atomic.Int32
	Notify    chan struct{}

	once sync.Once
}

func (s *StubNBAProvider) FetchTeams(ctx context.Context) ([]teams.Team, error) {
	_ = ctx
	notify(s.Notify, &s.once)
	s.Calls.Add(1)
	return s.Teams, s.Err
}

func (s *StubNBAProvider) FetchPlayers(ctx context.Context) ([]players.Player, error) {
	_ = ctx
	s.Calls.Add(1)
	if s.PlayerErr != nil {
		return nil, s.PlayerErr
	}
	return s.Players, s.Err
}

func (s *StubNBAProvider) FetchTeamGames(ctx context.Context, team teams.Team, season int) ([]games.Game, error) {
	_ = ctx
	s.Calls.Add(1)
	var out []games.Game
	for _, g := range s.Games {
		if g.Involves(team.ID) && g.Meta.Season == season {
			out = append(out, g)
		}
	}
	return out, s.Err
}

// StubOddsProvider is a test double for providers.OddsProvider.
type StubOddsProvider struct {
	SportList  []odds.Sport
	ScoreList  []odds.ScoreEvent
	Events     []odds.Event
	Historical odds.HistoricalOdds
	Usage      odds.Quota
	Err        error
	QuotaErr   error

	mu        sync.Mutex
	calls     map[string]int
	LastQuery odds.OddsQuery
}

func (s *StubOddsProvider) record(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[method]++
}

// Calls returns how often method was invoked.
func (s *StubOddsProvider) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *StubOddsProvider) Sports(ctx context.Context, all bool) ([]odds.Sport, error) {
	_ = ctx
	s.record("Sports")
	if all {
		return s.SportList, s.Err
	}
	var active []odds.Sport
	for _, sp := range s.SportList {
		if sp.Active {
			active = append(active, sp)
		}
	}
	return active, s.Err
}

func (s *StubOddsProvider) Scores(ctx context.Context, sport string, daysFrom int) ([]odds.ScoreEvent, error) {
	_, _, _ = ctx, sport, daysFrom
	s.record("Scores")
	return s.ScoreList, s.Err
}

func (s *StubOddsProvider) Odds(ctx context.Context, q odds.OddsQuery) ([]odds.Event, error) {
	_ = ctx
	s.record("Odds")
	s.mu.Lock()
	s.LastQuery = q
	s.mu.Unlock()
	return s.Events, s.Err
}

func (s *StubOddsProvider) HistoricalOdds(ctx context.Context, q odds.OddsQuery, at time.Time) (odds.HistoricalOdds, error) {
	_, _, _ = ctx, q, at
	s.record("HistoricalOdds")
	return s.Historical, s.Err
}

func (s *StubOddsProvider) Quota(ctx context.Context) (odds.Quota, error) {
	_ = ctx
	s.record("Quota")
	return s.Usage, s.QuotaErr
}

// StubPriceProvider is a test double for providers.PriceProvider.
type StubPriceProvider struct {
	Bars  map[string][]prices.Bar
	Err   error
	Calls atomic.Int32
}

func (s *StubPriceProvider) FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]prices.Bar, error) {
	_, _, _ = ctx, from, to
	s.Calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Bars[symbol], nil
}

// StubPruner records archive prune requests.
type StubPruner struct {
	mu       sync.Mutex
	Prefixes []string
	Err      error
}

func (p *StubPruner) Prune(prefix string, retentionDays int) ([]string, error) {
	_ = retentionDays
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Prefixes = append(p.Prefixes, prefix)
	return nil, p.Err
}
