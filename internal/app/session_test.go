package app

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dixit/internal/domain"
	"dixit/internal/store"
)

// fakeConn captures delivered events for assertions.
type fakeConn struct {
	mu     sync.Mutex
	events []*domain.Event
	closed bool
}

func (f *fakeConn) Send(message any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event, ok := message.(*domain.Event); ok {
		f.events = append(f.events, event)
	}
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// lastOfType returns the most recent delivered event of the given type.
func (f *fakeConn) lastOfType(eventType domain.EventType) *domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.events) - 1; i >= 0; i-- {
		if f.events[i].Type == eventType {
			return f.events[i]
		}
	}
	return nil
}

// waitForEvent blocks until the connection has received an event of the
// given type. Delivery is asynchronous relative to the mutating call.
func waitForEvent(t *testing.T, conn *fakeConn, eventType domain.EventType) *domain.Event {
	t.Helper()
	var event *domain.Event
	require.Eventually(t, func() bool {
		event = conn.lastOfType(eventType)
		return event != nil
	}, 2*time.Second, 5*time.Millisecond, "no %s event delivered", eventType)
	return event
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCards(n int) []domain.Card {
	cards := make([]domain.Card, n)
	for i := range cards {
		cards[i] = domain.Card{ID: fmt.Sprintf("%d", i+1), Title: fmt.Sprintf("Card %d", i+1)}
	}
	return cards
}

// testSession builds a session and joins the given usernames in order,
// returning one fake connection per username.
func testSession(t *testing.T, usernames ...string) (*RoomSession, []*domain.Player, []*fakeConn) {
	t.Helper()

	room := domain.NewRoom("abcd", testCards(52), domain.DefaultSettings())
	session := NewRoomSession(room, store.NewConnections(), store.NewMemoryPlayers(), testLogger())
	t.Cleanup(session.Close)

	players := make([]*domain.Player, 0, len(usernames))
	conns := make([]*fakeConn, 0, len(usernames))
	for _, name := range usernames {
		conn := &fakeConn{}
		player, err := session.Join("", name, conn)
		require.NoError(t, err)
		players = append(players, player)
		conns = append(conns, conn)
	}
	return session, players, conns
}

func startGame(t *testing.T, session *RoomSession, players []*domain.Player) {
	t.Helper()
	for _, p := range players {
		require.NoError(t, session.Ready(p.ID))
	}
	require.NoError(t, session.StartGame(players[0].ID))
}

// roundStart blocks until the connection has the START_ROUND message for
// the given round; earlier rounds' messages are skipped over.
func roundStart(t *testing.T, conn *fakeConn, round int) domain.StartRoundPayload {
	t.Helper()
	var payload domain.StartRoundPayload
	require.Eventually(t, func() bool {
		event := conn.lastOfType(domain.EventStartRound)
		if event == nil {
			return false
		}
		p, ok := event.Payload.(domain.StartRoundPayload)
		if !ok || p.RoundNumber != round {
			return false
		}
		payload = p
		return true
	}, 2*time.Second, 5*time.Millisecond, "no round %d start delivered", round)
	return payload
}

func TestJoinDeliversStateAndAnnouncement(t *testing.T) {
	_, players, conns := testSession(t, "alice", "bob", "carol")

	state := waitForEvent(t, conns[2], domain.EventRoomState)
	payload, ok := state.Payload.(domain.RoomStatePayload)
	require.True(t, ok)
	assert.Equal(t, "abcd", payload.Room.ID)
	assert.Len(t, payload.Room.Players, 3)
	assert.Equal(t, domain.PhaseJoining, payload.Room.Phase)

	// Earlier members see the later joins announced.
	joined := waitForEvent(t, conns[0], domain.EventPlayerJoined)
	joinedPayload, ok := joined.Payload.(domain.PlayerJoinedPayload)
	require.True(t, ok)
	assert.Equal(t, players[2].ID, joinedPayload.Player.ID)
	assert.Equal(t, "carol", joinedPayload.Player.Username)
}

func TestJoinRejectsDuplicateUsername(t *testing.T) {
	session, _, _ := testSession(t, "alice", "bob", "carol")

	conn := &fakeConn{}
	_, err := session.Join("", "alice", conn)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.Equal(t, 3, session.PlayerCount())
}

func TestFullGameRound(t *testing.T) {
	session, players, conns := testSession(t, "alice", "bob", "carol")
	startGame(t, session, players)

	leader, p2, p3 := players[0], players[1], players[2]

	// Everyone is dealt a full hand; the first joiner leads.
	leaderHand := roundStart(t, conns[0], 1).Hand
	p2Hand := roundStart(t, conns[1], 1).Hand
	p3Hand := roundStart(t, conns[2], 1).Hand
	assert.Len(t, leaderHand, 6)
	assert.Len(t, p2Hand, 6)
	assert.Len(t, p3Hand, 6)
	assert.Equal(t, domain.PhaseLeaderSubmitting, session.Phase())

	require.NoError(t, session.LeaderSubmitCard(leader.ID, leaderHand[0].ID, "a winter morning"))
	choose := waitForEvent(t, conns[1], domain.EventPhaseChooseCard)
	choosePayload, ok := choose.Payload.(domain.PhaseChooseCardPayload)
	require.True(t, ok)
	assert.Equal(t, leader.ID, choosePayload.LeaderID)
	assert.Equal(t, "a winter morning", choosePayload.Description)

	require.NoError(t, session.SubmitCard(p2.ID, p2Hand[0].ID))
	assert.Equal(t, domain.PhasePlayersSubmitting, session.Phase())

	// The last submission opens voting automatically.
	require.NoError(t, session.SubmitCard(p3.ID, p3Hand[0].ID))
	beginVote := waitForEvent(t, conns[1], domain.EventPhaseBeginVote)
	votePayload, ok := beginVote.Payload.(domain.PhaseBeginVotePayload)
	require.True(t, ok)
	assert.Len(t, votePayload.Cards, 3)
	assert.Equal(t, domain.PhaseVoting, session.Phase())

	// The presented cards are anonymous; find the leader's by
	// eliminating the voters' own submissions.
	leaderCardID := ""
	for _, c := range votePayload.Cards {
		if c.ID != p2Hand[0].ID && c.ID != p3Hand[0].ID {
			leaderCardID = c.ID
		}
	}
	require.NotEmpty(t, leaderCardID)

	require.NoError(t, session.Vote(p2.ID, leaderCardID))

	// The last vote resolves the round automatically.
	require.NoError(t, session.Vote(p3.ID, leaderCardID))
	endVote := waitForEvent(t, conns[0], domain.EventPhaseEndVote)
	endPayload, ok := endVote.Payload.(domain.PhaseEndVotePayload)
	require.True(t, ok)
	assert.Equal(t, leaderCardID, endPayload.LeaderCardID)
	assert.Equal(t, leader.ID, endPayload.Owners[leaderCardID])
	assert.Equal(t, 0, endPayload.Deltas[leader.ID], "everyone guessed, leader scores nothing")
	assert.Equal(t, 3, endPayload.Deltas[p2.ID])
	assert.Equal(t, 3, endPayload.Deltas[p3.ID])
	assert.Equal(t, domain.PhaseResults, session.Phase())

	// Leadership rotates in join order for round two.
	require.NoError(t, session.NextRound(leader.ID))
	round2 := roundStart(t, conns[1], 2)
	assert.Len(t, round2.Hand, 5, "one card was spent in round one")
	assert.Equal(t, p2.ID, round2.LeaderID)
	assert.Equal(t, domain.PhaseLeaderSubmitting, session.Phase())
}

func TestNextRoundEndsGameOnWinningScore(t *testing.T) {
	session, players, conns := testSession(t, "alice", "bob", "carol")
	startGame(t, session, players)

	leader, p2, p3 := players[0], players[1], players[2]
	p2Hand := roundStart(t, conns[1], 1).Hand
	p3Hand := roundStart(t, conns[2], 1).Hand
	leaderHand := roundStart(t, conns[0], 1).Hand

	require.NoError(t, session.LeaderSubmitCard(leader.ID, leaderHand[0].ID, "dusk"))
	require.NoError(t, session.SubmitCard(p2.ID, p2Hand[0].ID))
	require.NoError(t, session.SubmitCard(p3.ID, p3Hand[0].ID))

	beginVote := waitForEvent(t, conns[1], domain.EventPhaseBeginVote)
	votePayload := beginVote.Payload.(domain.PhaseBeginVotePayload)
	leaderCardID := ""
	for _, c := range votePayload.Cards {
		if c.ID != p2Hand[0].ID && c.ID != p3Hand[0].ID {
			leaderCardID = c.ID
		}
	}
	require.NotEmpty(t, leaderCardID)
	require.NoError(t, session.Vote(p2.ID, leaderCardID))
	require.NoError(t, session.Vote(p3.ID, leaderCardID))
	waitForEvent(t, conns[0], domain.EventPhaseEndVote)

	// Push bob over the winning score before the next round opens.
	session.mu.Lock()
	p2.Score = session.room.Settings.WinningScore
	session.mu.Unlock()

	require.NoError(t, session.NextRound(leader.ID))
	endGame := waitForEvent(t, conns[0], domain.EventEndGame)
	endPayload, ok := endGame.Payload.(domain.EndGamePayload)
	require.True(t, ok)
	assert.Equal(t, p2.ID, endPayload.WinnerID)
	assert.Equal(t, "bob", endPayload.Username)
	assert.Equal(t, domain.PhaseFinished, session.Phase())

	// Finished rooms accept no further play.
	err := session.NextRound(leader.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidPhase)
}

func TestReconnect(t *testing.T) {
	session, players, conns := testSession(t, "alice", "bob", "carol")
	startGame(t, session, players)

	p2 := players[1]
	session.Disconnect(p2.ID)
	waitForEvent(t, conns[0], domain.EventPlayerDisconnected)

	// Wrong username must not evict the old connection.
	impostor := &fakeConn{}
	_, err := session.Reconnect(p2.ID, "mallory", impostor)
	assert.ErrorIs(t, err, domain.ErrUsernameMismatch)

	_, err = session.Reconnect("nobody", "bob", impostor)
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)

	newConn := &fakeConn{}
	player, err := session.Reconnect(p2.ID, "bob", newConn)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOnline, player.Status)

	success := waitForEvent(t, newConn, domain.EventReconnectSuccess)
	payload, ok := success.Payload.(domain.ReconnectSuccessPayload)
	require.True(t, ok)
	assert.Equal(t, p2.ID, payload.Player.ID)
	assert.Len(t, payload.Hand, 6, "a reconnect restores the full hand")
	assert.Equal(t, domain.PhaseLeaderSubmitting, payload.Room.Phase)

	waitForEvent(t, conns[0], domain.EventPlayerConnected)
	assert.True(t, conns[1].isClosed(), "the replaced connection is closed")
}

func TestDisconnectCompletesSubmissionQuorum(t *testing.T) {
	session, players, conns := testSession(t, "alice", "bob", "carol", "dave")
	startGame(t, session, players)

	leader, p2, p3, p4 := players[0], players[1], players[2], players[3]
	leaderHand := roundStart(t, conns[0], 1).Hand
	p2Hand := roundStart(t, conns[1], 1).Hand
	p3Hand := roundStart(t, conns[2], 1).Hand

	require.NoError(t, session.LeaderSubmitCard(leader.ID, leaderHand[0].ID, "dusk"))
	require.NoError(t, session.SubmitCard(p2.ID, p2Hand[0].ID))
	require.NoError(t, session.SubmitCard(p3.ID, p3Hand[0].ID))
	assert.Equal(t, domain.PhasePlayersSubmitting, session.Phase())

	// The last missing submitter drops; the quorum is now complete and
	// voting opens without them.
	session.Disconnect(p4.ID)
	waitForEvent(t, conns[0], domain.EventPhaseBeginVote)
	assert.Equal(t, domain.PhaseVoting, session.Phase())
}

func TestRedactedViewHidesHands(t *testing.T) {
	session, players, _ := testSession(t, "alice", "bob", "carol")
	startGame(t, session, players)

	view := session.View()
	assert.Equal(t, domain.PhaseLeaderSubmitting, view.Phase)
	for _, p := range view.Players {
		assert.Equal(t, 6, p.HandCount)
	}

	playerView, err := session.PlayerView(players[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", playerView.Username)
	assert.Equal(t, 6, playerView.HandCount)
}
