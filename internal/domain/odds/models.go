// Package odds holds the sports betting shapes served by the API. JSON tags follow the
// upstream odds feed so archived payloads round-trip without translation.
package odds

import "time"

// Sport is a sport or league offered by the odds feed.
type Sport struct {
	Key          string `json:"key"`
	Group        string `json:"group"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Active       bool   `json:"active"`
	HasOutrights bool   `json:"has_outrights"`
}

// Score is one team's score in a ScoreEvent. Upstream sends the score as a string.
type Score struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// ScoreEvent is an upcoming, live, or recently completed game.
type ScoreEvent struct {
	ID           string     `json:"id"`
	SportKey     string     `json:"sport_key"`
	SportTitle   string     `json:"sport_title"`
	CommenceTime time.Time  `json:"commence_time"`
	Completed    bool       `json:"completed"`
	HomeTeam     string     `json:"home_team"`
	AwayTeam     string     `json:"away_team"`
	Scores       []Score    `json:"scores"`
	LastUpdate   *time.Time `json:"last_update"`
}

// Outcome is a priced selection within a market.
type Outcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// Market is a bet type (h2h, spreads, totals) offered by a bookmaker.
type Market struct {
	Key        string    `json:"key"`
	LastUpdate time.Time `json:"last_update"`
	Outcomes   []Outcome `json:"outcomes"`
}

// Bookmaker groups the markets a single book offers for an event.
type Bookmaker struct {
	Key        string    `json:"key"`
	Title      string    `json:"title"`
	LastUpdate time.Time `json:"last_update"`
	Markets    []Market  `json:"markets"`
}

// Event is a game with bookmaker odds.
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// HistoricalOdds is an odds snapshot as of Timestamp.
type HistoricalOdds struct {
	Timestamp         time.Time  `json:"timestamp"`
	PreviousTimestamp *time.Time `json:"previous_timestamp,omitempty"`
	NextTimestamp     *time.Time `json:"next_timestamp,omitempty"`
	Data              []Event    `json:"data"`
}

// Quota reports the usage counters returned by the odds feed on every response.
type Quota struct {
	Remaining  int       `json:"remaining"`
	Used       int       `json:"used"`
	Last       int       `json:"last"`
	ObservedAt time.Time `json:"observedAt"`
}

// Known reports whether the quota has been observed from an upstream response.
func (q Quota) Known() bool {
	return !q.ObservedAt.IsZero()
}

// Line is one flattened (event, bookmaker, market) row derived from a historical snapshot.
type Line struct {
	EventID        string    `json:"eventId"`
	SportKey       string    `json:"sportKey"`
	SportTitle     string    `json:"sportTitle"`
	CommenceTime   time.Time `json:"commenceTime"`
	HomeTeam       string    `json:"homeTeam"`
	AwayTeam       string    `json:"awayTeam"`
	BookmakerKey   string    `json:"bookmakerKey"`
	BookmakerTitle string    `json:"bookmakerTitle"`
	MarketKey      string    `json:"marketKey"`
	HomePrice      float64   `json:"homePrice"`
	AwayPrice      float64   `json:"awayPrice"`
	DrawPrice      *float64  `json:"drawPrice,omitempty"`
	// Overround is the summed implied probability of the market's outcomes.
	Overround      *float64  `json:"overround,omitempty"`
	SnapshotAt     time.Time `json:"snapshotAt"`
}
