package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dixit/internal/deck"
	"dixit/internal/domain"
	"dixit/internal/store"
)

const (
	// StaleRoomTimeout is how long a room with no live connections
	// survives before the reaper removes it.
	StaleRoomTimeout = 2 * time.Hour

	// reapInterval is how often the reaper scans for stale rooms.
	reapInterval = 10 * time.Minute
)

// Hub owns the process-wide registries and one session per room.
type Hub struct {
	rooms   store.Rooms
	players store.Players
	conns   *store.Connections

	provider   deck.Provider
	settings   domain.Settings
	codeLength int

	sessions map[string]*RoomSession
	mu       sync.RWMutex

	logger *slog.Logger
	done   chan struct{}
	once   sync.Once
}

// NewHub creates a hub over the given registries and starts the stale
// room reaper.
func NewHub(rooms store.Rooms, players store.Players, conns *store.Connections,
	provider deck.Provider, settings domain.Settings, codeLength int, logger *slog.Logger) *Hub {

	h := &Hub{
		rooms:      rooms,
		players:    players,
		conns:      conns,
		provider:   provider,
		settings:   settings,
		codeLength: codeLength,
		sessions:   make(map[string]*RoomSession),
		logger:     logger,
		done:       make(chan struct{}),
	}

	go h.reapLoop()

	return h
}

// Connections exposes the shared connection registry to the transport.
func (h *Hub) Connections() *store.Connections {
	return h.conns
}

// CreateRoom fetches a deck from the provider, creates the room under a
// fresh code, and returns its session.
func (h *Hub) CreateRoom(ctx context.Context) (*RoomSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	code, err := store.NewRoomCode(h.rooms, h.codeLength)
	if err != nil {
		return nil, err
	}

	cards, err := h.provider.GetDeck(ctx, deck.DefaultDeckID)
	if err != nil {
		return nil, err
	}

	room := domain.NewRoom(code, cards, h.settings)
	h.rooms.Put(room)

	session := NewRoomSession(room, h.conns, h.players, h.logger)
	h.sessions[code] = session

	h.logger.Info("room created", "roomId", code, "deckSize", len(cards))

	return session, nil
}

// Session returns the session for a room code.
func (h *Hub) Session(roomID string) (*RoomSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[roomID]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return session, nil
}

// Player looks a player up in the process-wide registry. Callers
// validate the returned player's RoomID against the room they expect.
func (h *Hub) Player(playerID string) (*domain.Player, error) {
	return h.players.Get(playerID)
}

// SessionCount returns the number of active rooms.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// PlayerCount returns the number of registered players.
func (h *Hub) PlayerCount() int {
	return h.players.Len()
}

// ConnectionCount returns the number of live connections.
func (h *Hub) ConnectionCount() int {
	return h.conns.Len()
}

// DeleteRoom tears down a room, its session, and its players.
func (h *Hub) DeleteRoom(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deleteRoomLocked(roomID)
}

func (h *Hub) deleteRoomLocked(roomID string) {
	session, ok := h.sessions[roomID]
	if !ok {
		return
	}

	session.Close()
	delete(h.sessions, roomID)

	if room, err := h.rooms.Get(roomID); err == nil {
		for _, p := range room.Players {
			h.players.Delete(p.ID)
		}
	}
	h.rooms.Delete(roomID)

	h.logger.Info("room deleted", "roomId", roomID)
}

// reapLoop periodically removes abandoned rooms.
func (h *Hub) reapLoop() {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.reapStaleRooms()
		}
	}
}

// reapStaleRooms removes rooms that have had no live connections for
// longer than StaleRoomTimeout.
func (h *Hub) reapStaleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	for roomID, session := range h.sessions {
		if session.ConnectedCount() == 0 && now.Sub(session.CreatedAt()) > StaleRoomTimeout {
			h.logger.Info("reaping stale room", "roomId", roomID)
			h.deleteRoomLocked(roomID)
		}
	}
}

// Close shuts down the hub and all sessions.
func (h *Hub) Close() {
	h.once.Do(func() {
		close(h.done)
	})

	h.mu.Lock()
	defer h.mu.Unlock()

	for roomID, session := range h.sessions {
		session.Close()
		delete(h.sessions, roomID)
	}
}
