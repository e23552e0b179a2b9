package store

import "sync"

// Conn is a live transport to one player.
type Conn interface {
	Send(message any) error
	Close() error
}

// Connections is the bidirectional player <-> transport map. Registering
// a connection for a player that already has one replaces the old entry;
// this single mechanism serves both first join and reconnect.
type Connections struct {
	mu     sync.RWMutex
	byID   map[string]Conn
	byConn map[Conn]string
}

// NewConnections creates an empty connection registry.
func NewConnections() *Connections {
	return &Connections{
		byID:   make(map[string]Conn),
		byConn: make(map[Conn]string),
	}
}

// Register binds the connection to the player, replacing and returning
// any previous connection for that player. The replaced connection, if
// different, is no longer registered.
func (c *Connections) Register(playerID string, conn Conn) (replaced Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.byID[playerID]; ok && old != conn {
		delete(c.byConn, old)
		replaced = old
	}
	c.byID[playerID] = conn
	c.byConn[conn] = playerID
	return replaced
}

// Unregister removes the binding only if the player is still mapped to
// this exact connection. A stale close after a reconnect replaced the
// entry must not evict the new connection.
func (c *Connections) Unregister(playerID string, conn Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.byID[playerID]
	if !ok || current != conn {
		return false
	}
	delete(c.byID, playerID)
	delete(c.byConn, conn)
	return true
}

// Get returns the live connection for a player.
func (c *Connections) Get(playerID string) (Conn, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	conn, ok := c.byID[playerID]
	return conn, ok
}

// PlayerID returns the player bound to a connection.
func (c *Connections) PlayerID(conn Conn) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byConn[conn]
	return id, ok
}

// Len returns the number of live connections.
func (c *Connections) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}
