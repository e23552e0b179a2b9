package domain

// EventType tags a server-to-client wire message.
type EventType string

const (
	EventRoomCreated        EventType = "ROOM_CREATED"
	EventPlayerJoined       EventType = "PLAYER_JOINED"
	EventRoomState          EventType = "ROOM_STATE"
	EventPlayerReady        EventType = "PLAYER_READY"
	EventStartRound         EventType = "START_ROUND"
	EventPhaseChooseCard    EventType = "PHASE_CHOOSE_CARD"
	EventPlayerSubmitCard   EventType = "PLAYER_SUBMIT_CARD"
	EventPhaseBeginVote     EventType = "PHASE_BEGIN_VOTE"
	EventPlayerVoted        EventType = "PLAYER_VOTED"
	EventPhaseEndVote       EventType = "PHASE_END_VOTE"
	EventEndGame            EventType = "END_GAME"
	EventPlayerConnected    EventType = "PLAYER_CONNECTED"
	EventPlayerDisconnected EventType = "PLAYER_DISCONNECTED"
	EventReconnectSuccess   EventType = "RECONNECT_SUCCESS"
	EventReconnectFailed    EventType = "RECONNECT_FAILED"
	EventError              EventType = "ERROR"
)

// Event is one server-to-client message. To routes a unicast to a single
// player; an empty To means broadcast to the whole room.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
	To      string    `json:"-"`
}

// NewEvent creates an event broadcast to the whole room.
func NewEvent(eventType EventType, payload any) *Event {
	return &Event{Type: eventType, Payload: payload}
}

// NewPlayerEvent creates an event unicast to one player.
func NewPlayerEvent(eventType EventType, playerID string, payload any) *Event {
	return &Event{Type: eventType, Payload: payload, To: playerID}
}

// cardImagePath is where the HTTP layer serves card images from.
const cardImagePath = "/cards/"

// CardView is the public shape of a card on the wire.
type CardView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

// NewCardView builds the wire view of a card, including its image URL.
func NewCardView(c Card) CardView {
	return CardView{
		ID:       c.ID,
		Title:    c.Title,
		ImageURL: cardImagePath + c.ID + ".png",
	}
}

// NewCardViews builds wire views preserving card order.
func NewCardViews(cards []Card) []CardView {
	views := make([]CardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, NewCardView(c))
	}
	return views
}

// PlayerView is the public shape of a player: no hand contents, only the
// card count.
type PlayerView struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	Score     int          `json:"score"`
	Status    PlayerStatus `json:"status"`
	HandCount int          `json:"handCount"`
}

// View returns the public shape of the player within the room.
func (r *Room) PlayerView(p *Player) PlayerView {
	return PlayerView{
		ID:        p.ID,
		Username:  p.Username,
		Score:     p.Score,
		Status:    p.Status,
		HandCount: len(r.Hands[p.ID]),
	}
}

// RoomView is the redacted room state every member may see: hands appear
// only as counts, and submissions only as a tally until reveal.
type RoomView struct {
	ID                 string       `json:"id"`
	Players            []PlayerView `json:"players"`
	RoundNumber        int          `json:"roundNumber"`
	LeaderID           string       `json:"leaderId"`
	CurrentDescription string       `json:"currentDescription"`
	Phase              Phase        `json:"phase"`
	SubmittedCount     int          `json:"submittedCount"`
	VotedCount         int          `json:"votedCount"`
}

// View returns the redacted public state of the room.
func (r *Room) View() RoomView {
	players := make([]PlayerView, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, r.PlayerView(p))
	}
	return RoomView{
		ID:                 r.ID,
		Players:            players,
		RoundNumber:        r.RoundNumber,
		LeaderID:           r.LeaderID,
		CurrentDescription: r.CurrentDescription,
		Phase:              r.Phase,
		SubmittedCount:     len(r.Submissions),
		VotedCount:         len(r.Votes),
	}
}

// Event payloads

// RoomCreatedPayload confirms room creation to the creator.
type RoomCreatedPayload struct {
	RoomID string     `json:"roomId"`
	Player PlayerView `json:"player"`
}

// PlayerJoinedPayload announces a new room member.
type PlayerJoinedPayload struct {
	RoomID string     `json:"roomId"`
	Player PlayerView `json:"player"`
}

// RoomStatePayload carries the redacted room plus, for the receiving
// player only, their own hand.
type RoomStatePayload struct {
	Room RoomView   `json:"room"`
	Hand []CardView `json:"hand,omitempty"`
}

// PlayerReadyPayload announces a player readied up.
type PlayerReadyPayload struct {
	PlayerID string `json:"playerId"`
}

// StartRoundPayload opens a round for one player with their hand.
type StartRoundPayload struct {
	RoundNumber int        `json:"roundNumber"`
	LeaderID    string     `json:"leaderId"`
	Hand        []CardView `json:"hand"`
}

// PhaseChooseCardPayload tells non-leaders to pick a matching card.
type PhaseChooseCardPayload struct {
	LeaderID    string `json:"leaderId"`
	Description string `json:"description"`
}

// PlayerSubmitCardPayload announces that a player submitted, not what.
type PlayerSubmitCardPayload struct {
	PlayerID string `json:"playerId"`
}

// PhaseBeginVotePayload exposes the face-down cards in shuffled order.
type PhaseBeginVotePayload struct {
	Cards []CardView `json:"cards"`
}

// PlayerVotedPayload announces that a player voted, not for whom.
type PlayerVotedPayload struct {
	PlayerID string `json:"playerId"`
}

// PhaseEndVotePayload reveals authorship, votes, and point deltas.
type PhaseEndVotePayload struct {
	Votes        map[string]string `json:"votes"`  // voter id -> card id
	Owners       map[string]string `json:"owners"` // card id -> player id
	LeaderCardID string            `json:"leaderCardId"`
	Deltas       map[string]int    `json:"deltas"`
	Scores       map[string]int    `json:"scores"`
}

// EndGamePayload announces the winner and final scores.
type EndGamePayload struct {
	WinnerID string         `json:"winnerId"`
	Username string         `json:"username"`
	Scores   map[string]int `json:"scores"`
}

// PlayerConnectedPayload announces a reconnected player.
type PlayerConnectedPayload struct {
	Player PlayerView `json:"player"`
}

// PlayerDisconnectedPayload announces a dropped player.
type PlayerDisconnectedPayload struct {
	PlayerID string `json:"playerId"`
}

// ReconnectSuccessPayload restores a returning player's session.
type ReconnectSuccessPayload struct {
	Player PlayerView `json:"player"`
	Hand   []CardView `json:"hand,omitempty"`
	Room   RoomView   `json:"room"`
}

// ReconnectFailedPayload carries the reason a reconnect was refused.
type ReconnectFailedPayload struct {
	Reason string `json:"reason"`
}

// ErrorPayload is unicast to the originating connection only.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
