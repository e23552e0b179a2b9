package domain

import "time"

// PlayerStatus represents a player's connection and readiness state.
type PlayerStatus string

const (
	StatusOnline  PlayerStatus = "online"
	StatusOffline PlayerStatus = "offline"
	StatusReady   PlayerStatus = "ready"
)

// Player represents one participant of a room. A player belongs to exactly
// one room and lives as long as the room does.
type Player struct {
	ID       string       `json:"id"`
	Username string       `json:"username"`
	Score    int          `json:"score"`
	Status   PlayerStatus `json:"status"`
	RoomID   string       `json:"roomId"`
	JoinedAt time.Time    `json:"joinedAt"`
}

// NewPlayer creates a player joined to the given room.
func NewPlayer(id, username, roomID string) *Player {
	return &Player{
		ID:       id,
		Username: username,
		Score:    0,
		Status:   StatusOnline,
		RoomID:   roomID,
		JoinedAt: time.Now(),
	}
}

// IsActive reports whether the player counts toward submission and vote
// quorums. Offline players are skipped by auto-transitions.
func (p *Player) IsActive() bool {
	return p.Status == StatusOnline || p.Status == StatusReady
}

// IsReady reports whether the player has marked themselves ready.
func (p *Player) IsReady() bool {
	return p.Status == StatusReady
}

// Disconnect marks the player offline. It never unwinds game state.
func (p *Player) Disconnect() {
	p.Status = StatusOffline
}

// Reconnect marks the player online again.
func (p *Player) Reconnect() {
	p.Status = StatusOnline
}

// AddPoints increases the player's score. Scores never go below zero.
func (p *Player) AddPoints(points int) {
	p.Score += points
	if p.Score < 0 {
		p.Score = 0
	}
}
