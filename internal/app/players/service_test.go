package players

import (
	"context"
	"errors"
	"testing"

	"github.com/preston-bernstein/better-bets-service/internal/domain/players"
	"github.com/preston-bernstein/better-bets-service/internal/store"
	"github.com/preston-bernstein/better-bets-service/internal/teststubs"
)

func samplePlayers() []players.Player {
	return []players.Player{
		{ID: "player-1", LastName: "Tatum", Active: true},
		{ID: "player-2", LastName: "Bird", Active: false},
		{ID: "player-3", LastName: "James", Active: true},
	}
}

func TestPlayersActiveFilter(t *testing.T) {
	s := store.NewMemoryStore()
	s.SetPlayers(samplePlayers())
	svc := NewService(s, nil)

	all, err := svc.Players(context.Background(), nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected all players, got %d %v", len(all), err)
	}
	active := true
	got, _ := svc.Players(context.Background(), &active)
	if len(got) != 2 {
		t.Fatalf("expected 2 active players, got %d", len(got))
	}
	active = false
	got, _ = svc.Players(context.Background(), &active)
	if len(got) != 1 || got[0].ID != "player-2" {
		t.Fatalf("expected the retired player, got %v", got)
	}
}

func TestPlayerByIDLoadsFromProvider(t *testing.T) {
	s := store.NewMemoryStore()
	provider := &teststubs.StubNBAProvider{Players: samplePlayers()}
	svc := NewService(s, provider)

	p, ok, err := svc.PlayerByID(context.Background(), "player-3")
	if err != nil || !ok || p.LastName != "James" {
		t.Fatalf("expected player-3, got %+v ok=%v err=%v", p, ok, err)
	}
	if _, ok, _ := svc.PlayerByID(context.Background(), "missing"); ok {
		t.Fatal("expected missing player")
	}
	if provider.Calls.Load() != 1 {
		t.Fatalf("expected one provider load, got %d", provider.Calls.Load())
	}
}

func TestPlayersProviderError(t *testing.T) {
	provider := &teststubs.StubNBAProvider{PlayerErr: errors.New("down")}
	svc := NewService(store.NewMemoryStore(), provider)
	if _, err := svc.Players(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
	if _, _, err := svc.PlayerByID(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
}
