package fixture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/preston-bernstein/better-bets-service/internal/domain/games"
	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
)

var fixed = time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)

func TestProviderSatisfiesContracts(t *testing.T) {
	var _ providers.OddsProvider = (*Provider)(nil)
	var _ providers.NBAProvider = (*Provider)(nil)
	var _ providers.PriceProvider = (*Provider)(nil)
}

func TestSportsAllAddsOutrights(t *testing.T) {
	p := NewWithClock(func() time.Time { return fixed })
	in, _ := p.Sports(context.Background(), false)
	all, _ := p.Sports(context.Background(), true)
	if len(all) != len(in)+1 || !all[len(all)-1].HasOutrights {
		t.Fatalf("expected all=true to add an outright market, got %d vs %d", len(all), len(in))
	}
}

func TestScoresIncludeCompletedWithDaysFrom(t *testing.T) {
	p := NewWithClock(func() time.Time { return fixed })
	upcoming, _ := p.Scores(context.Background(), "basketball_nba", 0)
	withDays, _ := p.Scores(context.Background(), "basketball_nba", 3)
	if len(upcoming) != 1 || len(withDays) != 2 || !withDays[1].Completed {
		t.Fatalf("unexpected scores %d/%d", len(upcoming), len(withDays))
	}
	if _, err := p.Scores(context.Background(), "", 0); !errors.Is(err, odds.ErrSportRequired) {
		t.Fatalf("expected sport required, got %v", err)
	}
}

func TestOddsFiltersAndConverts(t *testing.T) {
	p := NewWithClock(func() time.Time { return fixed })
	q := odds.OddsQuery{Sport: "basketball_nba", Regions: []string{"us"}, Bookmakers: []string{"fanduel"}, EventIDs: []string{"fixture-event-1"}, OddsFormat: odds.FormatAmerican}

	events, err := p.Odds(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(events) != 1 || len(events[0].Bookmakers) != 1 || events[0].Bookmakers[0].Key != "fanduel" {
		t.Fatalf("unexpected filter result %+v", events)
	}
	for _, o := range events[0].Bookmakers[0].Markets[0].Outcomes {
		if o.Price > -100 && o.Price < 100 {
			t.Fatalf("expected american price, got %v", o.Price)
		}
	}

	if _, err := p.Odds(context.Background(), odds.OddsQuery{Sport: "basketball_nba"}); !errors.Is(err, odds.ErrRegionsRequired) {
		t.Fatalf("expected regions error, got %v", err)
	}
}

func TestQuotaTracksUsage(t *testing.T) {
	p := NewWithClock(func() time.Time { return fixed })
	q, _ := p.Quota(context.Background())
	if q.Remaining != startingQuota {
		t.Fatalf("expected starting quota, got %+v", q)
	}
	if _, err := p.HistoricalOdds(context.Background(), odds.OddsQuery{Sport: "basketball_nba"}, fixed); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	q, _ = p.Quota(context.Background())
	if q.Remaining != startingQuota-historicCost || q.Last != historicCost {
		t.Fatalf("unexpected quota after historical call %+v", q)
	}
}

func TestHistoricalOddsIncludesLayMarket(t *testing.T) {
	p := NewWithClock(func() time.Time { return fixed })
	snap, err := p.HistoricalOdds(context.Background(), odds.OddsQuery{Sport: "basketball_nba"}, fixed)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	markets := snap.Data[0].Bookmakers[0].Markets
	if len(markets) != 2 || markets[1].Key != odds.MarketH2HLay {
		t.Fatalf("expected h2h and h2h_lay markets, got %+v", markets)
	}
	if !snap.Timestamp.Before(fixed) {
		t.Fatalf("expected snapshot timestamp before request time")
	}
}

func TestPlayersMixActivity(t *testing.T) {
	items, _ := New().FetchPlayers(context.Background())
	active := 0
	for _, p := range items {
		if p.Active {
			active++
		}
	}
	if active == 0 || active == len(items) {
		t.Fatalf("expected a mix of active and inactive players, got %d/%d", active, len(items))
	}
}

func TestTeamGamesStraddleSeasonStart(t *testing.T) {
	teamsList, _ := New().FetchTeams(context.Background())
	got, _ := New().FetchTeamGames(context.Background(), teamsList[2], 2022)
	filtered := games.FilterSeason(got, games.SeasonWindow{StartYear: 2022})
	if len(got) != 3 || len(filtered) != 2 {
		t.Fatalf("expected 2 of 3 games inside the season, got %d of %d", len(filtered), len(got))
	}
	for _, g := range got {
		if !g.Involves(teamsList[2].ID) {
			t.Fatalf("game %s does not involve the team", g.ID)
		}
	}
}

func TestFetchDailyIsDeterministicAndSkipsWeekends(t *testing.T) {
	p := NewWithClock(func() time.Time { return fixed })
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)

	a, err := p.FetchDaily(context.Background(), "aapl", from, to)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	b, _ := p.FetchDaily(context.Background(), "AAPL", from, to)
	if len(a) != 10 {
		t.Fatalf("expected 10 business days, got %d", len(a))
	}
	for i := range a {
		if !a[i].Close.Equal(b[i].Close) {
			t.Fatalf("expected deterministic closes")
		}
		if !a[i].Close.IsPositive() {
			t.Fatalf("expected positive closes")
		}
	}
	if _, err := p.FetchDaily(context.Background(), "", from, to); !errors.Is(err, providers.ErrNotFound) {
		t.Fatalf("expected not found for blank symbol, got %v", err)
	}
}
