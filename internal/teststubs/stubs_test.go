package teststubs

import (
	"context"
	"errors"
	"testing"

	"github.com/preston-bernstein/better-bets-service/internal/domain/games"
	"github.com/preston-bernstein/better-bets-service/internal/domain/odds"
	"github.com/preston-bernstein/better-bets-service/internal/domain/teams"
)

func TestStubNBAProviderTracksCalls(t *testing.T) {
	err := errors.New("boom")
	notify := make(chan struct{})
	p := &StubNBAProvider{Teams: []teams.Team{{ID: "bos"}}, Err: err, Notify: notify}
	if _, got := p.FetchTeams(context.Background()); !errors.Is(got, err) {
		t.Fatalf("expected error passthrough, got %v", got)
	}
	_, _ = p.FetchTeams(context.Background())
	if p.Calls.Load() != 2 {
		t.Fatalf("expected call count 2, got %d", p.Calls.Load())
	}
	select {
	case <-notify:
	default:
		t.Fatal("expected notify channel closed")
	}
}

func TestStubNBAProviderFiltersTeamGames(t *testing.T) {
	bos := teams.Team{ID: "bos"}
	p := &StubNBAProvider{Games: []games.Game{
		{ID: "g1", HomeTeam: bos, Meta: games.GameMeta{Season: 2022}},
		{ID: "g2", AwayTeam: bos, Meta: games.GameMeta{Season: 2021}},
		{ID: "g3", HomeTeam: teams.Team{ID: "lal"}, Meta: games.GameMeta{Season: 2022}},
	}}
	got, _ := p.FetchTeamGames(context.Background(), bos, 2022)
	if len(got) != 1 || got[0].ID != "g1" {
		t.Fatalf("unexpected games %+v", got)
	}
}

func TestStubOddsProviderFiltersActiveSports(t *testing.T) {
	p := &StubOddsProvider{SportList: []odds.Sport{{Key: "a", Active: true}, {Key: "b"}}}
	active, _ := p.Sports(context.Background(), false)
	all, _ := p.Sports(context.Background(), true)
	if len(active) != 1 || len(all) != 2 {
		t.Fatalf("expected 1 active and 2 total, got %d/%d", len(active), len(all))
	}
	if p.Calls("Sports") != 2 {
		t.Fatalf("expected 2 sports calls, got %d", p.Calls("Sports"))
	}
}

func TestStubPruner(t *testing.T) {
	p := &StubPruner{}
	_, _ = p.Prune("odds/raw/nba", 30)
	if len(p.Prefixes) != 1 || p.Prefixes[0] != "odds/raw/nba" {
		t.Fatalf("unexpected prefixes %v", p.Prefixes)
	}
}
