// Package fixture serves deterministic offline data for every provider contract.
package fixture

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/preston-bernstein/better-bets-service/internal/domain/games"
	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/domain/players"
	"github.com/preston-bernstein/better-bets-service/internal/domain/prices"
	"github.com/preston-bernstein/better-bets-service/internal/domain/teams"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
	"github.com/preston-bernstein/better-bets-service/internal/timeutil"
)

const (
	name          = "fixture"
	startingQuota = 500
	historicCost  = 10
	nbaSportKey   = "basketball_nba"
)

// Provider returns static data useful for local runs and tests.
type Provider struct {
	now func() time.Time

	mu    sync.Mutex
	quota odds.Quota
}

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{now: time.Now}
}

// NewWithClock creates a fixture provider pinned to now.
func NewWithClock(now func() time.Time) *Provider {
	return &Provider{now: now}
}

var fixtureTeams = []teams.Team{
	{ID: "bos", Name: "Celtics", FullName: "Boston Celtics", Abbreviation: "BOS", City: "Boston", Conference: "East", Division: "Atlantic", UpstreamID: 2},
	{ID: "lal", Name: "Lakers", FullName: "Los Angeles Lakers", Abbreviation: "LAL", City: "Los Angeles", Conference: "West", Division: "Pacific", UpstreamID: 14},
	{ID: "gsw", Name: "Warriors", FullName: "Golden State Warriors", Abbreviation: "GSW", City: "San Francisco", Conference: "West", Division: "Pacific", UpstreamID: 10},
	{ID: "mia", Name: "Heat", FullName: "Miami Heat", Abbreviation: "MIA", City: "Miami", Conference: "East", Division: "Southeast", UpstreamID: 16},
}

// Sports lists a small catalogue. all adds an out-of-season league.
func (p *Provider) Sports(ctx context.Context, all bool) ([]odds.Sport, error) {
	_ = ctx
	p.charge(0)
	out := []odds.Sport{
		{Key: nbaSportKey, Group: "Basketball", Title: "NBA", Description: "US Basketball", Active: true},
		{Key: "americanfootball_nfl", Group: "American Football", Title: "NFL", Description: "US Football", Active: true},
	}
	if all {
		out = append(out, odds.Sport{Key: "baseball_mlb_world_series_winner", Group: "Baseball", Title: "MLB World Series Winner", Description: "World Series Winner 2025", HasOutrights: true})
	}
	return out, nil
}

// Scores returns one upcoming game, plus a completed one when daysFrom is set.
func (p *Provider) Scores(ctx context.Context, sport string, daysFrom int) ([]odds.ScoreEvent, error) {
	_ = ctx
	if sport == "" {
		return nil, odds.ErrSportRequired
	}
	cost := 1
	if daysFrom > 0 {
		cost = 2
	}
	p.charge(cost)

	now := p.now().UTC().Truncate(time.Hour)
	out := []odds.ScoreEvent{{
		ID: "fixture-upcoming", SportKey: sport, SportTitle: titleFor(sport),
		CommenceTime: now.Add(3 * time.Hour), HomeTeam: fixtureTeams[0].FullName, AwayTeam: fixtureTeams[1].FullName,
	}}
	if daysFrom > 0 {
		updated := now.Add(-20 * time.Hour)
		out = append(out, odds.ScoreEvent{
			ID: "fixture-final", SportKey: sport, SportTitle: titleFor(sport),
			CommenceTime: now.Add(-23 * time.Hour), Completed: true,
			HomeTeam: fixtureTeams[2].FullName, AwayTeam: fixtureTeams[3].FullName,
			Scores:     []odds.Score{{Name: fixtureTeams[2].FullName, Score: "112"}, {Name: fixtureTeams[3].FullName, Score: "104"}},
			LastUpdate: &updated,
		})
	}
	return out, nil
}

// Odds returns two events priced by two bookmakers, filtered by the query.
func (p *Provider) Odds(ctx context.Context, q odds.OddsQuery) ([]odds.Event, error) {
	_ = ctx
	q = q.WithDefaults(odds.FormatDecimal, odds.DateISO)
	if err := q.Validate(); err != nil {
		return nil, err
	}
	p.charge(len(q.Regions) * len(q.Markets))
	events := p.events(q.Sport, p.now().UTC().Truncate(time.Hour), q.Markets)
	return filterEvents(events, q, q.OddsFormat)
}

// HistoricalOdds returns the fixture events as they stood at at.
func (p *Provider) HistoricalOdds(ctx context.Context, q odds.OddsQuery, at time.Time) (odds.HistoricalOdds, error) {
	_ = ctx
	if q.Sport == "" {
		return odds.HistoricalOdds{}, odds.ErrSportRequired
	}
	p.charge(historicCost)
	ts := at.UTC().Add(-5 * time.Minute)
	prev := ts.Add(-10 * time.Minute)
	next := ts.Add(10 * time.Minute)
	return odds.HistoricalOdds{
		Timestamp:         ts,
		PreviousTimestamp: &prev,
		NextTimestamp:     &next,
		Data:              p.events(q.Sport, timeutil.TruncateDay(at).Add(24*time.Hour), []string{odds.MarketH2H, odds.MarketH2HLay}),
	}, nil
}

// Quota returns usage accumulated by this provider.
func (p *Provider) Quota(ctx context.Context) (odds.Quota, error) {
	_ = ctx
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.quota.Known() {
		p.quota = odds.Quota{Remaining: startingQuota, ObservedAt: p.now().UTC()}
	}
	return p.quota, nil
}

// FetchTeams returns a deterministic set of teams.
func (p *Provider) FetchTeams(ctx context.Context) ([]teams.Team, error) {
	_ = ctx
	return append([]teams.Team(nil), fixtureTeams...), nil
}

// FetchPlayers returns a deterministic set of active and inactive players.
func (p *Provider) FetchPlayers(ctx context.Context) ([]players.Player, error) {
	_ = ctx
	return []players.Player{
		{
			ID: "player-1", FirstName: "Jane", LastName: "Doe", Position: "G", Height: "6-2", WeightPounds: 180, Active: true,
			Team: fixtureTeams[0],
			Meta: players.PlayerMeta{UpstreamPlayerID: 101, College: "College A", Country: "USA", JerseyNumber: "1", DraftYear: 2019},
		},
		{
			ID: "player-2", FirstName: "John", LastName: "Smith", Position: "F", Height: "6-8", WeightPounds: 230, Active: true,
			Team: fixtureTeams[1],
			Meta: players.PlayerMeta{UpstreamPlayerID: 102, College: "College B", Country: "USA", JerseyNumber: "23", DraftYear: 2016},
		},
		{
			ID: "player-3", FirstName: "Old", LastName: "Timer", Position: "C", Height: "7-0", WeightPounds: 250, Active: false,
			Team: fixtureTeams[2],
			Meta: players.PlayerMeta{UpstreamPlayerID: 103, Country: "Canada", JerseyNumber: "50", DraftYear: 2001},
		},
	}, nil
}

// FetchTeamGames returns a home and an away game for the team inside the season window, and one preseason game outside it.
func (p *Provider) FetchTeamGames(ctx context.Context, team teams.Team, season int) ([]games.Game, error) {
	_ = ctx
	opp := fixtureTeams[0]
	if opp.ID == team.ID {
		opp = fixtureTeams[1]
	}
	window := games.SeasonWindow{StartYear: season}
	mk := func(n int, day time.Time, home, away teams.Team, hs, as int) games.Game {
		return games.Game{
			ID:       fmt.Sprintf("fixture-%s-%d-%d", team.ID, season, n),
			Provider: name,
			Date:     timeutil.FormatDate(day),
			HomeTeam: home,
			AwayTeam: away,
			Status:   games.StatusFinal,
			Score:    games.Score{Home: hs, Away: as},
			Meta:     games.GameMeta{Season: season, UpstreamGameID: season*1000 + n},
		}
	}
	return []games.Game{
		mk(1, window.Start().AddDate(0, 0, 7), team, opp, 110, 101),
		mk(2, window.Start().AddDate(0, 1, 0), opp, team, 99, 104),
		mk(3, window.Start().AddDate(0, 0, -10), team, opp, 90, 88),
	}, nil
}

// FetchDaily walks a deterministic business-day price path for symbol.
func (p *Provider) FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]prices.Bar, error) {
	_ = ctx
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, providers.ErrNotFound
	}
	if to.IsZero() {
		to = timeutil.TruncateDay(p.now())
	}
	if from.IsZero() {
		from = to.AddDate(-1, 0, 0)
	}
	days, err := timeutil.DaysBetween(from, to)
	if err != nil {
		return nil, err
	}

	seed := 0
	for _, r := range symbol {
		seed += int(r)
	}
	bars := make([]prices.Bar, 0, len(days))
	for _, d := range days {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		n := float64(d.Unix()/86400 + int64(seed))
		// bounded oscillation keeps the path positive and repeatable
		level := 100 + float64(seed%50) + 8*math.Sin(n/9) + 3*math.Sin(n/2.3) + 1.5*math.Cos(n*1.7)
		closePx := decimal.NewFromFloat(level).Round(2)
		bars = append(bars, prices.Bar{
			Symbol:   symbol,
			Date:     d,
			Open:     closePx.Sub(decimal.NewFromFloat(0.35)),
			High:     closePx.Add(decimal.NewFromFloat(1.10)),
			Low:      closePx.Sub(decimal.NewFromFloat(1.25)),
			Close:    closePx,
			AdjClose: closePx,
			Volume:   1_000_000 + int64(seed)*1000,
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: no trading days for %s: %w", name, symbol, providers.ErrNotFound)
	}
	return bars, nil
}

func (p *Provider) charge(cost int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.quota.Known() {
		p.quota = odds.Quota{Remaining: startingQuota}
	}
	p.quota.Remaining -= cost
	if p.quota.Remaining < 0 {
		p.quota.Remaining = 0
	}
	p.quota.Used += cost
	p.quota.Last = cost
	p.quota.ObservedAt = p.now().UTC()
}

func (p *Provider) events(sport string, commence time.Time, markets []string) []odds.Event {
	update := commence.Add(-6 * time.Hour)
	matchups := [][2]teams.Team{{fixtureTeams[0], fixtureTeams[1]}, {fixtureTeams[2], fixtureTeams[3]}}
	books := []struct {
		key, title string
		shade      float64
	}{
		{"draftkings", "DraftKings", 0},
		{"fanduel", "FanDuel", 0.05},
	}

	out := make([]odds.Event, 0, len(matchups))
	for i, m := range matchups {
		home, away := m[0].FullName, m[1].FullName
		ev := odds.Event{
			ID:           fmt.Sprintf("fixture-event-%d", i+1),
			SportKey:     sport,
			SportTitle:   titleFor(sport),
			CommenceTime: commence.Add(time.Duration(i) * 2 * time.Hour),
			HomeTeam:     home,
			AwayTeam:     away,
		}
		for _, b := range books {
			bk := odds.Bookmaker{Key: b.key, Title: b.title, LastUpdate: update}
			for _, mk := range markets {
				homePx, awayPx := 1.65+b.shade+float64(i)*0.2, 2.30-b.shade-float64(i)*0.2
				if mk == odds.MarketH2HLay {
					homePx, awayPx = homePx+0.02, awayPx+0.02
				}
				// away listed first to mirror upstream ordering
				bk.Markets = append(bk.Markets, odds.Market{
					Key:        mk,
					LastUpdate: update,
					Outcomes: []odds.Outcome{
						{Name: away, Price: round2(awayPx)},
						{Name: home, Price: round2(homePx)},
					},
				})
			}
			ev.Bookmakers = append(ev.Bookmakers, bk)
		}
		out = append(out, ev)
	}
	return out
}

func filterEvents(events []odds.Event, q odds.OddsQuery, format string) ([]odds.Event, error) {
	wantEvent := toSet(q.EventIDs)
	wantBook := toSet(q.Bookmakers)
	out := make([]odds.Event, 0, len(events))
	for _, ev := range events {
		if len(wantEvent) > 0 && !wantEvent[ev.ID] {
			continue
		}
		books := ev.Bookmakers[:0]
		for _, b := range ev.Bookmakers {
			if len(wantBook) > 0 && !wantBook[b.Key] {
				continue
			}
			if format == odds.FormatAmerican {
				for mi := range b.Markets {
					for oi, o := range b.Markets[mi].Outcomes {
						american, err := odds.DecimalToAmerican(o.Price)
						if err != nil {
							return nil, err
						}
						b.Markets[mi].Outcomes[oi].Price = float64(american)
					}
				}
			}
			books = append(books, b)
		}
		ev.Bookmakers = books
		out = append(out, ev)
	}
	return out, nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, i := range items {
		set[i] = true
	}
	return set
}

func titleFor(sport string) string {
	if sport == nbaSportKey {
		return "NBA"
	}
	return sport
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
