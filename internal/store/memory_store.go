package store

import (
	"sort"
	"sync"

	"github.com/preston-bernstein/better-bets-service/internal/domain/players"
	"github.com/preston-bernstein/better-bets-service/internal/domain/teams"
)

// MemoryStore keeps a thread-safe snapshot of the NBA roster in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	teams   map[string]teams.Team
	players map[string]players.Player
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		teams:   make(map[string]teams.Team),
		players: make(map[string]players.Player),
	}
}

// ListTeams returns a copy of the current teams sorted by ID.
func (s *MemoryStore) ListTeams() []teams.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]teams.Team, 0, len(s.teams))
	for _, t := range s.teams {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// ListPlayers returns a copy of the current players sorted by ID.
func (s *MemoryStore) ListPlayers() []players.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]players.Player, 0, len(s.players))
	for _, p := range s.players {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// GetPlayer retrieves a player by ID.
func (s *MemoryStore) GetPlayer(id string) (players.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[id]
	return p, ok
}

// SetTeams replaces the existing teams with a new snapshot.
func (s *MemoryStore) SetTeams(items []teams.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teams = make(map[string]teams.Team, len(items))
	for _, t := range items {
		s.teams[t.ID] = t
	}
}

// SetPlayers replaces the existing players with a new snapshot.
func (s *MemoryStore) SetPlayers(items []players.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = make(map[string]players.Player, len(items))
	for _, p := range items {
		s.players[p.ID] = p
	}
}
