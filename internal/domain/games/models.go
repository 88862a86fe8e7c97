package games

import "github.com/preston-bernstein/better-bets-service/internal/domain/teams"

// GameStatus mirrors the shared contract for game lifecycle states.
type GameStatus string

const (
	StatusScheduled  GameStatus = "SCHEDULED"
	StatusInProgress GameStatus = "IN_PROGRESS"
	StatusFinal      GameStatus = "FINAL"
	StatusPostponed  GameStatus = "POSTPONED"
	StatusCanceled   GameStatus = "CANCELED"
)

// Score captures home and away points.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// GameMeta stores provider metadata for a game.
type GameMeta struct {
	Season         int  `json:"season"`
	UpstreamGameID int  `json:"upstreamGameId"`
	Period         int  `json:"period,omitempty"`
	Postseason     bool `json:"postseason,omitempty"`
}

// Game is the canonical game shape.
type Game struct {
	ID       string     `json:"id"`
	Provider string     `json:"provider"`
	Date     string     `json:"date"`
	HomeTeam teams.Team `json:"homeTeam"`
	AwayTeam teams.Team `json:"awayTeam"`
	Status   GameStatus `json:"status"`
	Score    Score      `json:"score"`
	Meta     GameMeta   `json:"meta"`
}

// Involves reports whether the team with the given ID played in the game.
func (g Game) Involves(teamID string) bool {
	return g.HomeTeam.ID == teamID || g.AwayTeam.ID == teamID
}
