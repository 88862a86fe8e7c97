package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/domain/players"
	"github.com/preston-bernstein/better-bets-service/internal/domain/prices"
	"github.com/preston-bernstein/better-bets-service/internal/domain/teams"
)

// SampleTeam returns a minimal team fixture with the provided id.
func SampleTeam(id string) teams.Team {
	return teams.Team{
		ID:           id,
		Name:         "Team " + id,
		FullName:     "Sample Team " + id,
		Abbreviation: "SMP",
		City:         "Sample City",
		Conference:   "East",
		Division:     "Atlantic",
	}
}

// SamplePlayer returns a player on SampleTeam("bos").
func SamplePlayer(id string, active bool) players.Player {
	return players.Player{
		ID:        id,
		FirstName: "Sample",
		LastName:  "Player " + id,
		Position:  "F",
		Active:    active,
		Team:      SampleTeam("bos"),
	}
}

// SampleEvent returns an NBA event with one h2h market, outcomes listed away first.
func SampleEvent(id string, commence time.Time) odds.Event {
	return odds.Event{
		ID:           id,
		SportKey:     "basketball_nba",
		SportTitle:   "NBA",
		CommenceTime: commence,
		HomeTeam:     "Boston Celtics",
		AwayTeam:     "Los Angeles Lakers",
		Bookmakers: []odds.Bookmaker{{
			Key:        "draftkings",
			Title:      "DraftKings",
			LastUpdate: commence.Add(-time.Hour),
			Markets: []odds.Market{{
				Key:        odds.MarketH2H,
				LastUpdate: commence.Add(-time.Hour),
				Outcomes: []odds.Outcome{
					{Name: "Los Angeles Lakers", Price: 2.6},
					{Name: "Boston Celtics", Price: 1.52},
				},
			}},
		}},
	}
}

// SampleBars returns one daily bar per close starting at start.
func SampleBars(symbol string, start time.Time, closes ...float64) []prices.Bar {
	bars := make([]prices.Bar, 0, len(closes))
	for i, c := range closes {
		px := decimal.NewFromFloat(c)
		bars = append(bars, prices.Bar{
			Symbol:   symbol,
			Date:     start.AddDate(0, 0, i),
			Open:     px,
			High:     px,
			Low:      px,
			Close:    px,
			AdjClose: px,
			Volume:   1000,
		})
	}
	return bars
}
