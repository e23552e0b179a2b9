package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"dixit/internal/app"
	"dixit/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client is one WebSocket connection. It starts unbound; the first
// CREATE_ROOM, JOIN_ROOM, or RECONNECT message binds it to a room
// session and a player identity.
type Client struct {
	conn *websocket.Conn
	hub  *app.Hub

	session  *app.RoomSession
	playerID string

	send   chan []byte
	done   chan struct{}
	logger *slog.Logger
	mu     sync.Mutex
	closed bool
}

// NewClient wraps an upgraded connection.
func NewClient(conn *websocket.Conn, hub *app.Hub, logger *slog.Logger) *Client {
	return &Client{
		conn:   conn,
		hub:    hub,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Send implements store.Conn. Messages are queued to a per-connection
// buffer; a full buffer drops the message rather than stalling the
// room-wide broadcast behind one slow client.
func (c *Client) Send(message any) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, message dropped", "playerId", c.playerID)
		return nil
	}
}

// Close implements store.Conn.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection. On exit the
// player is marked offline, but only if this connection is still the
// registered one: a close racing a reconnect must not evict the
// replacement.
func (c *Client) readPump() {
	defer func() {
		if c.session != nil && c.playerID != "" {
			if c.hub.Connections().Unregister(c.playerID, c) {
				c.session.Disconnect(c.playerID)
			}
		}
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage decodes one wire envelope and dispatches it. Every
// message type is matched here; an unrecognized type yields a unicast
// ERROR and the connection stays open.
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "invalid message format")
		return
	}

	switch msg.Type {
	case MsgCreateRoom:
		c.handleCreateRoom(msg.Payload)
	case MsgJoinRoom:
		c.handleJoinRoom(msg.Payload)
	case MsgReady:
		c.handleReady()
	case MsgStartGame:
		c.handleStartGame()
	case MsgLeaderSubmitCard:
		c.handleLeaderSubmitCard(msg.Payload)
	case MsgSubmitCard:
		c.handleSubmitCard(msg.Payload)
	case MsgVote:
		c.handleVote(msg.Payload)
	case MsgNextRound:
		c.handleNextRound()
	case MsgReconnect:
		c.handleReconnect(msg.Payload)
	default:
		c.sendError(ErrCodeInvalidMessage, "unknown message type")
	}
}

func (c *Client) handleCreateRoom(payload json.RawMessage) {
	var p CreateRoomPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Username == "" {
		c.sendError(ErrCodeInvalidMessage, "username is required")
		return
	}
	if c.session != nil {
		c.sendError(ErrCodeInvalidMessage, "already in a room")
		return
	}

	session, err := c.hub.CreateRoom(context.Background())
	if err != nil {
		c.sendDomainError(err)
		return
	}

	player, err := session.Join("", p.Username, c)
	if err != nil {
		c.hub.DeleteRoom(session.RoomID())
		c.sendDomainError(err)
		return
	}

	c.session = session
	c.playerID = player.ID

	view, err := session.PlayerView(player.ID)
	if err != nil {
		c.sendDomainError(err)
		return
	}
	c.Send(domain.NewEvent(domain.EventRoomCreated, domain.RoomCreatedPayload{
		RoomID: session.RoomID(),
		Player: view,
	}))
}

func (c *Client) handleJoinRoom(payload json.RawMessage) {
	var p JoinRoomPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.Username == "" || p.RoomID == "" {
		c.sendError(ErrCodeInvalidMessage, "username and roomId are required")
		return
	}
	if c.session != nil {
		c.sendError(ErrCodeInvalidMessage, "already in a room")
		return
	}

	session, err := c.hub.Session(strings.ToLower(p.RoomID))
	if err != nil {
		c.sendDomainError(err)
		return
	}

	player, err := session.Join("", p.Username, c)
	if err != nil {
		c.sendDomainError(err)
		return
	}

	c.session = session
	c.playerID = player.ID
}

func (c *Client) handleReady() {
	if c.session == nil {
		c.sendError(ErrCodeInvalidMessage, "not in a room")
		return
	}
	if err := c.session.Ready(c.playerID); err != nil {
		c.sendDomainError(err)
	}
}

func (c *Client) handleStartGame() {
	if c.session == nil {
		c.sendError(ErrCodeInvalidMessage, "not in a room")
		return
	}
	if err := c.session.StartGame(c.playerID); err != nil {
		c.sendDomainError(err)
	}
}

func (c *Client) handleLeaderSubmitCard(payload json.RawMessage) {
	var p LeaderSubmitCardPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.CardID == "" {
		c.sendError(ErrCodeInvalidMessage, "cardId is required")
		return
	}
	if c.session == nil {
		c.sendError(ErrCodeInvalidMessage, "not in a room")
		return
	}
	if err := c.session.LeaderSubmitCard(c.playerID, p.CardID, p.Description); err != nil {
		c.sendDomainError(err)
	}
}

func (c *Client) handleSubmitCard(payload json.RawMessage) {
	var p SubmitCardPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.CardID == "" {
		c.sendError(ErrCodeInvalidMessage, "cardId is required")
		return
	}
	if c.session == nil {
		c.sendError(ErrCodeInvalidMessage, "not in a room")
		return
	}
	if err := c.session.SubmitCard(c.playerID, p.CardID); err != nil {
		c.sendDomainError(err)
	}
}

func (c *Client) handleVote(payload json.RawMessage) {
	var p VotePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.CardID == "" {
		c.sendError(ErrCodeInvalidMessage, "cardId is required")
		return
	}
	if c.session == nil {
		c.sendError(ErrCodeInvalidMessage, "not in a room")
		return
	}
	if err := c.session.Vote(c.playerID, p.CardID); err != nil {
		c.sendDomainError(err)
	}
}

func (c *Client) handleNextRound() {
	if c.session == nil {
		c.sendError(ErrCodeInvalidMessage, "not in a room")
		return
	}
	if err := c.session.NextRound(c.playerID); err != nil {
		c.sendDomainError(err)
	}
}

// handleReconnect resumes a prior session. Any failure yields
// RECONNECT_FAILED with a reason and leaves the prior session, including
// any still-live connection, untouched.
func (c *Client) handleReconnect(payload json.RawMessage) {
	var p ReconnectPayload
	if err := json.Unmarshal(payload, &p); err != nil || p.PlayerID == "" || p.RoomID == "" {
		c.sendReconnectFailed("playerId and roomId are required")
		return
	}

	session, err := c.hub.Session(strings.ToLower(p.RoomID))
	if err != nil {
		c.sendReconnectFailed("room not found")
		return
	}

	if _, err := session.Reconnect(p.PlayerID, p.Username, c); err != nil {
		c.sendReconnectFailed(err.Error())
		return
	}

	c.session = session
	c.playerID = p.PlayerID
}

// sendError unicasts an ERROR to this connection only.
func (c *Client) sendError(code, message string) {
	c.Send(domain.NewEvent(domain.EventError, domain.ErrorPayload{
		Code:    code,
		Message: message,
	}))
}

// sendDomainError maps an engine error onto the wire taxonomy.
func (c *Client) sendDomainError(err error) {
	c.sendError(errorCode(err), err.Error())
}

func (c *Client) sendReconnectFailed(reason string) {
	c.Send(domain.NewEvent(domain.EventReconnectFailed, domain.ReconnectFailedPayload{
		Reason: reason,
	}))
}
