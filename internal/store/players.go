package store

import (
	"sync"

	"dixit/internal/domain"
)

// Players is the player registry: id -> Player, independent of room
// membership. Callers validate a looked-up player's RoomID against the
// room they expect.
type Players interface {
	Get(id string) (*domain.Player, error)
	Put(player *domain.Player)
	Delete(id string)
	Len() int
}

// MemoryPlayers is the in-process Players implementation.
type MemoryPlayers struct {
	mu      sync.RWMutex
	players map[string]*domain.Player
}

// NewMemoryPlayers creates an empty player registry.
func NewMemoryPlayers() *MemoryPlayers {
	return &MemoryPlayers{players: make(map[string]*domain.Player)}
}

// Get returns the player with the given id.
func (s *MemoryPlayers) Get(id string) (*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, ok := s.players[id]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	return player, nil
}

// Put stores the player under their id.
func (s *MemoryPlayers) Put(player *domain.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
}

// Delete removes the player with the given id.
func (s *MemoryPlayers) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
}

// Len returns the number of stored players.
func (s *MemoryPlayers) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}
