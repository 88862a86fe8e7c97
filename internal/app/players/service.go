package players

import (
	"context"

	"github.com/preston-bernstein/better-bets-service/internal/domain/players"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
)

// Store defines the contract for persisting and retrieving players.
type Store interface {
	ListPlayers() []players.Player
	GetPlayer(id string) (players.Player, bool)
	SetPlayers([]players.Player)
}

// Service serves players from the store, loading from the provider when the store is empty.
type Service struct {
	store    Store
	provider providers.PlayerProvider
}

// NewService constructs a Service. provider may be nil to serve the store only.
func NewService(store Store, provider providers.PlayerProvider) *Service {
	return &Service{store: store, provider: provider}
}

// Players returns every player, or only those matching active when it is non-nil.
func (s *Service) Players(ctx context.Context, active *bool) ([]players.Player, error) {
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return items, nil
	}
	return players.FilterActive(items, *active), nil
}

// PlayerByID returns a single player if present.
func (s *Service) PlayerByID(ctx context.Context, id string) (players.Player, bool, error) {
	if _, err := s.load(ctx); err != nil {
		return players.Player{}, false, err
	}
	p, ok := s.store.GetPlayer(id)
	return p, ok, nil
}

func (s *Service) load(ctx context.Context) ([]players.Player, error) {
	if items := s.store.ListPlayers(); len(items) > 0 || s.provider == nil {
		return items, nil
	}
	items, err := s.provider.FetchPlayers(ctx)
	if err != nil {
		return nil, err
	}
	s.store.SetPlayers(items)
	return s.store.ListPlayers(), nil
}
