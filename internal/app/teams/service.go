package teams

import (
	"context"

	"github.com/preston-bernstein/better-bets-service/internal/domain/teams"
	"github.com/preston-bernstein/better-bets-service/internal/providers"
)

// Store defines the contract for persisting and retrieving teams.
type Store interface {
	ListTeams() []teams.Team
	SetTeams([]teams.Team)
}

// Service serves teams from the store, loading from the provider when the store is empty.
type Service struct {
	store    Store
	provider providers.TeamProvider
}

// NewService constructs a Service. provider may be nil to serve the store only.
func NewService(store Store, provider providers.TeamProvider) *Service {
	return &Service{store: store, provider: provider}
}

// Teams returns the current set of teams.
func (s *Service) Teams(ctx context.Context) ([]teams.Team, error) {
	if items := s.store.ListTeams(); len(items) > 0 || s.provider == nil {
		return items, nil
	}
	items, err := s.provider.FetchTeams(ctx)
	if err != nil {
		return nil, err
	}
	s.store.SetTeams(items)
	return s.store.ListTeams(), nil
}
