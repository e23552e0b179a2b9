// Package store holds the room, player, and connection registries. They
// are the only shared mutable resources in the process and are injected
// into the engine rather than accessed as globals.
package store

import (
	"sync"

	"dixit/internal/domain"
)

// Rooms is the room registry: id -> Room with atomic get/put. An
// in-memory map is the canonical implementation; anything offering the
// same contract can replace it.
type Rooms interface {
	Get(id string) (*domain.Room, error)
	Put(room *domain.Room)
	Delete(id string)
	Has(id string) bool
	Len() int
	ForEach(fn func(room *domain.Room))
}

// MemoryRooms is the in-process Rooms implementation.
type MemoryRooms struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
}

// NewMemoryRooms creates an empty room registry.
func NewMemoryRooms() *MemoryRooms {
	return &MemoryRooms{rooms: make(map[string]*domain.Room)}
}

// Get returns the room with the given id.
func (s *MemoryRooms) Get(id string) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

// Put stores the room under its id.
func (s *MemoryRooms) Put(room *domain.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room
}

// Delete removes the room with the given id.
func (s *MemoryRooms) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// Has reports whether a room with the given id exists.
func (s *MemoryRooms) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[id]
	return ok
}

// Len returns the number of stored rooms.
func (s *MemoryRooms) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// ForEach calls fn for every stored room.
func (s *MemoryRooms) ForEach(fn func(room *domain.Room)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, room := range s.rooms {
		fn(room)
	}
}
