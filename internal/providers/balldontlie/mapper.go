package balldontlie

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/preston-bernstein/better-bets-service/internal/domain/games"
	"github.com/preston-bernstein/better-bets-service/internal/domain/players"
	"github.com/preston-bernstein/better-bets-service/internal/domain/teams"
)

func mapGame(g gameResponse) games.Game {
	return games.Game{
		ID:       fmt.Sprintf("%s-%d", providerName, g.ID),
		Provider: providerName,
		Date:     g.Date,
		HomeTeam: mapTeam(g.HomeTeam),
		AwayTeam: mapTeam(g.VisitorTeam),
		Status:   mapStatus(g.Status),
		Score: games.Score{
			Home: g.HomeTeamScore,
			Away: g.VisitorTeamScore,
		},
		Meta: games.GameMeta{
			Season:         g.Season,
			UpstreamGameID: g.ID,
			Period:         g.Period,
			Postseason:     g.Postseason,
		},
	}
}

func mapTeam(t teamResponse) teams.Team {
	return teams.Team{
		ID:           teamID(t.ID),
		Name:         t.Name,
		FullName:     t.FullName,
		Abbreviation: t.Abbreviation,
		City:         t.City,
		Conference:   t.Conference,
		Division:     t.Division,
		UpstreamID:   t.ID,
	}
}

func mapPlayer(p playerResponse, active bool) players.Player {
	weight, _ := strconv.Atoi(strings.TrimSpace(p.Weight))
	draftYear := 0
	if p.DraftYear != nil {
		draftYear = *p.DraftYear
	}
	return players.Player{
		ID:           fmt.Sprintf("player-%d", p.ID),
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Position:     p.Position,
		Height:       p.Height,
		WeightPounds: weight,
		Active:       active,
		Team:         mapTeam(p.Team),
		Meta: players.PlayerMeta{
			UpstreamPlayerID: p.ID,
			College:          p.College,
			Country:          p.Country,
			JerseyNumber:     p.JerseyNumber,
			DraftYear:        draftYear,
		},
	}
}

func teamID(upstream int) string {
	return fmt.Sprintf("team-%d", upstream)
}

func mapStatus(status string) games.GameStatus {
	switch strings.ToLower(status) {
	case "final", "ended":
		return games.StatusFinal
	case "in progress", "halftime", "end of period":
		return games.StatusInProgress
	case "postponed":
		return games.StatusPostponed
	case "canceled", "cancelled":
		return games.StatusCanceled
	default:
		return games.StatusScheduled
	}
}
