package players

import (
	"strings"

	"github.com/preston-bernstein/better-bets-service/internal/domain/teams"
)

// Player represents the normalized player shape (balldontlie-aligned).
type Player struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Position     string     `json:"position"`
	Height       string     `json:"height,omitempty"`
	WeightPounds int        `json:"weightPounds,omitempty"`
	Active       bool       `json:"active"`
	Team         teams.Team `json:"team"`
	Meta         PlayerMeta `json:"meta"`
}

// PlayerMeta holds upstream metadata.
type PlayerMeta struct {
	UpstreamPlayerID int    `json:"upstreamPlayerId"`
	College          string `json:"college,omitempty"`
	Country          string `json:"country,omitempty"`
	JerseyNumber     string `json:"jerseyNumber,omitempty"`
	DraftYear        int    `json:"draftYear,omitempty"`
}

// FullName joins first and last name.
func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// PlayersResponse is the payload returned by /sports/nba/players.
type PlayersResponse struct {
	Count    int      `json:"count"`
	Active   int      `json:"active"`
	Inactive int      `json:"inactive"`
	Players  []Player `json:"players"`
}

// NewPlayersResponse counts active and inactive players.
func NewPlayersResponse(items []Player) PlayersResponse {
	resp := PlayersResponse{Count: len(items), Players: items}
	for _, p := range items {
		if p.Active {
			resp.Active++
		} else {
			resp.Inactive++
		}
	}
	return resp
}

// FilterActive returns players whose Active flag matches active.
func FilterActive(items []Player, active bool) []Player {
	out := make([]Player, 0, len(items))
	for _, p := range items {
		if p.Active == active {
			out = append(out, p)
		}
	}
	return out
}
