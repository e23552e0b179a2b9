package app

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"dixit/internal/domain"
	"dixit/internal/store"
)

// eventBufferSize bounds the per-room broadcast queue.
const eventBufferSize = 100

// RoomSession is the single-writer engine for one room. Every
// state-mutating operation runs under the session mutex, so any
// check-then-transition sequence is atomic relative to other operations
// on the same room. Operations on different rooms proceed in parallel.
//
// Server messages are queued to a buffered channel under the lock and
// fanned out by a dedicated goroutine, so the broadcast happens only
// after the authoritative mutation has committed and never blocks it.
type RoomSession struct {
	room    *domain.Room
	mu      sync.Mutex
	conns   *store.Connections
	players store.Players
	rng     *rand.Rand

	logger *slog.Logger
	events chan *domain.Event
	done   chan struct{}
	once   sync.Once
}

// NewRoomSession wraps a room with its event broadcaster.
func NewRoomSession(room *domain.Room, conns *store.Connections, players store.Players, logger *slog.Logger) *RoomSession {
	s := &RoomSession{
		room:    room,
		conns:   conns,
		players: players,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  logger,
		events:  make(chan *domain.Event, eventBufferSize),
		done:    make(chan struct{}),
	}

	go s.eventLoop()

	return s
}

// RoomID returns the room's code.
func (s *RoomSession) RoomID() string {
	return s.room.ID
}

// CreatedAt returns when the room was created.
func (s *RoomSession) CreatedAt() time.Time {
	return s.room.CreatedAt
}

// Phase returns the room's current phase.
func (s *RoomSession) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Phase
}

// PlayerCount returns the number of room members.
func (s *RoomSession) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.room.Players)
}

// ConnectedCount returns the number of members with a live connection.
func (s *RoomSession) ConnectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, p := range s.room.Players {
		if _, ok := s.conns.Get(p.ID); ok {
			count++
		}
	}
	return count
}

// View returns the redacted public state of the room.
func (s *RoomSession) View() domain.RoomView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.View()
}

// PlayerView returns the public shape of one room member.
func (s *RoomSession) PlayerView(playerID string) (domain.PlayerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.room.GetPlayer(playerID)
	if err != nil {
		return domain.PlayerView{}, err
	}
	return s.room.PlayerView(player), nil
}

// Join adds a new player under the given id and binds their connection.
// The connection is registered only after the join is validated.
func (s *RoomSession) Join(playerID, username string, conn store.Conn) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if playerID == "" {
		playerID = uuid.New().String()
	}

	player := domain.NewPlayer(playerID, username, s.room.ID)
	if err := s.room.AddPlayer(player); err != nil {
		return nil, err
	}
	s.players.Put(player)

	if replaced := s.conns.Register(player.ID, conn); replaced != nil {
		replaced.Close()
	}

	s.queueEvent(domain.NewEvent(domain.EventPlayerJoined, domain.PlayerJoinedPayload{
		RoomID: s.room.ID,
		Player: s.room.PlayerView(player),
	}))
	s.queueStateFor(player.ID)

	s.logger.Info("player joined", "roomId", s.room.ID, "playerId", player.ID, "username", username)

	return player, nil
}

// Ready marks a player ready and announces it.
func (s *RoomSession) Ready(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.SetReady(playerID); err != nil {
		return err
	}

	s.queueEvent(domain.NewEvent(domain.EventPlayerReady, domain.PlayerReadyPayload{PlayerID: playerID}))

	return nil
}

// StartGame deals hands and opens the first round. Any room member may
// trigger it once everyone is ready.
func (s *RoomSession) StartGame(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.room.GetPlayer(playerID); err != nil {
		return err
	}
	if err := s.room.StartGame(s.rng); err != nil {
		return err
	}

	s.queueRoundStart()

	s.logger.Info("game started",
		"roomId", s.room.ID,
		"players", len(s.room.Players),
		"leaderId", s.room.LeaderID,
	)

	return nil
}

// LeaderSubmitCard records the leader's card and description and tells
// everyone else to choose.
func (s *RoomSession) LeaderSubmitCard(playerID, cardID, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.LeaderSubmit(playerID, cardID, description); err != nil {
		return err
	}

	s.queueEvent(domain.NewEvent(domain.EventPhaseChooseCard, domain.PhaseChooseCardPayload{
		LeaderID:    s.room.LeaderID,
		Description: description,
	}))

	return nil
}

// SubmitCard records a non-leader's face-down card. Once every online
// non-leader has submitted, voting opens with the cards shuffled.
func (s *RoomSession) SubmitCard(playerID, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.PlayerSubmit(playerID, cardID); err != nil {
		return err
	}

	s.queueEvent(domain.NewEvent(domain.EventPlayerSubmitCard, domain.PlayerSubmitCardPayload{PlayerID: playerID}))

	if s.room.AllSubmitted() {
		s.beginVoting()
	}

	return nil
}

// Vote records a non-leader's guess. Once every online non-leader has
// voted, the round resolves.
func (s *RoomSession) Vote(playerID, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.CastVote(playerID, cardID); err != nil {
		return err
	}

	s.queueEvent(domain.NewEvent(domain.EventPlayerVoted, domain.PlayerVotedPayload{PlayerID: playerID}))

	if s.room.AllVoted() {
		if err := s.finishVoting(); err != nil {
			return err
		}
	}

	return nil
}

// NextRound rotates the leader and opens the next round, or ends the
// game once a player has reached the winning score.
func (s *RoomSession) NextRound(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.room.GetPlayer(playerID); err != nil {
		return err
	}

	finished, err := s.room.StartNextRound()
	if err != nil {
		return err
	}

	if finished {
		winner, err := s.room.Winner()
		if err != nil {
			return err
		}
		s.queueEvent(domain.NewEvent(domain.EventEndGame, domain.EndGamePayload{
			WinnerID: winner.ID,
			Username: winner.Username,
			Scores:   s.room.Scores(),
		}))
		s.logger.Info("game finished", "roomId", s.room.ID, "winnerId", winner.ID, "score", winner.Score)
		return nil
	}

	s.queueRoundStart()

	return nil
}

// Reconnect restores a returning player's session: the player must be a
// room member and the username must match the original join. Only after
// validation does the new connection replace any previous one, so a
// failed reconnect leaves a live session untouched.
func (s *RoomSession) Reconnect(playerID, username string, conn store.Conn) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.room.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if player.Username != username {
		return nil, domain.ErrUsernameMismatch
	}

	if replaced := s.conns.Register(playerID, conn); replaced != nil {
		replaced.Close()
	}

	player.Reconnect()

	s.queueEvent(domain.NewPlayerEvent(domain.EventReconnectSuccess, playerID, domain.ReconnectSuccessPayload{
		Player: s.room.PlayerView(player),
		Hand:   domain.NewCardViews(s.room.Hand(playerID)),
		Room:   s.room.View(),
	}))
	s.queueEvent(domain.NewEvent(domain.EventPlayerConnected, domain.PlayerConnectedPayload{
		Player: s.room.PlayerView(player),
	}))

	s.logger.Info("player reconnected", "roomId", s.room.ID, "playerId", playerID)

	return player, nil
}

// Disconnect marks a player offline. It never unwinds a committed
// transition, but a quorum that is now complete without the dropped
// player advances the phase just like a player action would.
func (s *RoomSession) Disconnect(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.room.GetPlayer(playerID)
	if err != nil {
		return
	}

	player.Disconnect()

	s.queueEvent(domain.NewEvent(domain.EventPlayerDisconnected, domain.PlayerDisconnectedPayload{PlayerID: playerID}))

	s.logger.Info("player disconnected", "roomId", s.room.ID, "playerId", playerID)

	switch s.room.Phase {
	case domain.PhasePlayersSubmitting:
		if s.room.AllSubmitted() {
			s.beginVoting()
		}
	case domain.PhaseVoting:
		if s.room.AllVoted() {
			if err := s.finishVoting(); err != nil {
				s.logger.Error("failed to resolve round after disconnect", "roomId", s.room.ID, "error", err)
			}
		}
	}
}

// SendState unicasts the room state, with their own hand, to one player.
func (s *RoomSession) SendState(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queueStateFor(playerID)
}

// beginVoting opens voting with the face-down cards shuffled. Caller
// holds the lock.
func (s *RoomSession) beginVoting() {
	if err := s.room.BeginVoting(s.rng); err != nil {
		s.logger.Error("failed to begin voting", "roomId", s.room.ID, "error", err)
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventPhaseBeginVote, domain.PhaseBeginVotePayload{
		Cards: domain.NewCardViews(s.room.Submissions.Cards()),
	}))
}

// finishVoting resolves scores and reveals authorship. Caller holds the
// lock.
func (s *RoomSession) finishVoting() error {
	leaderSub, err := s.room.LeaderSubmission()
	if err != nil {
		return err
	}

	deltas, err := s.room.FinishVoting()
	if err != nil {
		return err
	}

	owners := make(map[string]string, len(s.room.Submissions))
	for _, sub := range s.room.Submissions {
		owners[sub.Card.ID] = sub.PlayerID
	}

	s.queueEvent(domain.NewEvent(domain.EventPhaseEndVote, domain.PhaseEndVotePayload{
		Votes:        s.room.Votes.AsMap(),
		Owners:       owners,
		LeaderCardID: leaderSub.Card.ID,
		Deltas:       deltas,
		Scores:       s.room.Scores(),
	}))

	return nil
}

// queueRoundStart unicasts each player their hand for the new round.
// Caller holds the lock.
func (s *RoomSession) queueRoundStart() {
	for _, p := range s.room.Players {
		s.queueEvent(domain.NewPlayerEvent(domain.EventStartRound, p.ID, domain.StartRoundPayload{
			RoundNumber: s.room.RoundNumber,
			LeaderID:    s.room.LeaderID,
			Hand:        domain.NewCardViews(s.room.Hand(p.ID)),
		}))
	}
}

// queueStateFor unicasts the redacted room plus the receiver's own hand.
// Caller holds the lock.
func (s *RoomSession) queueStateFor(playerID string) {
	s.queueEvent(domain.NewPlayerEvent(domain.EventRoomState, playerID, domain.RoomStatePayload{
		Room: s.room.View(),
		Hand: domain.NewCardViews(s.room.Hand(playerID)),
	}))
}

// queueEvent adds an event to the broadcast queue.
func (s *RoomSession) queueEvent(event *domain.Event) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "roomId", s.room.ID, "type", event.Type)
	}
}

// eventLoop fans queued events out to connections.
func (s *RoomSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.deliver(event)
		}
	}
}

// deliver unicasts or broadcasts one event. A player without a live
// connection is skipped; a slow client only ever drops its own messages.
func (s *RoomSession) deliver(event *domain.Event) {
	if event.To != "" {
		if conn, ok := s.conns.Get(event.To); ok {
			if err := conn.Send(event); err != nil {
				s.logger.Debug("failed to send to player", "playerId", event.To, "error", err)
			}
		}
		return
	}

	s.mu.Lock()
	players := make([]string, 0, len(s.room.Players))
	for _, p := range s.room.Players {
		players = append(players, p.ID)
	}
	s.mu.Unlock()

	for _, playerID := range players {
		if conn, ok := s.conns.Get(playerID); ok {
			if err := conn.Send(event); err != nil {
				s.logger.Debug("failed to send to player", "playerId", playerID, "error", err)
			}
		}
	}
}

// Close stops the broadcaster. Connections are owned by the transport
// and closed by the hub.
func (s *RoomSession) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}
