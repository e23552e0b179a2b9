package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scoringRoom builds a room frozen mid-vote with the given submissions
// (first entry is the leader's) and votes, bypassing the deal.
func scoringRoom(t *testing.T, subs Submissions, votes Votes) *Room {
	t.Helper()
	room := NewRoom("abcd", nil, DefaultSettings())
	room.Phase = PhaseVoting
	room.RoundNumber = 1
	room.LeaderID = subs[0].PlayerID
	room.Submissions = subs
	room.Votes = votes
	for _, sub := range subs {
		room.Players = append(room.Players, &Player{ID: sub.PlayerID, Username: sub.PlayerID, Status: StatusOnline, RoomID: room.ID})
	}
	return room
}

func TestResolveScoresMixedRound(t *testing.T) {
	room := scoringRoom(t,
		Submissions{
			{PlayerID: "leader", Card: Card{ID: "L"}},
			{PlayerID: "p2", Card: Card{ID: "A"}},
			{PlayerID: "p3", Card: Card{ID: "B"}},
			{PlayerID: "p4", Card: Card{ID: "C"}},
		},
		Votes{
			{VoterID: "p2", CardID: "L"},
			{VoterID: "p3", CardID: "A"},
			{VoterID: "p4", CardID: "A"},
		},
	)

	deltas, err := ResolveScores(room)
	require.NoError(t, err)

	// Some but not all found the leader's card: leader scores.
	assert.Equal(t, 3, deltas["leader"])
	// p2 guessed right and drew both remaining votes onto their own card.
	assert.Equal(t, 3+2, deltas["p2"])
	assert.Equal(t, 0, deltas["p3"])
	assert.Equal(t, 0, deltas["p4"])
}

func TestResolveScoresEveryoneGuessed(t *testing.T) {
	room := scoringRoom(t,
		Submissions{
			{PlayerID: "leader", Card: Card{ID: "L"}},
			{PlayerID: "p2", Card: Card{ID: "A"}},
			{PlayerID: "p3", Card: Card{ID: "B"}},
		},
		Votes{
			{VoterID: "p2", CardID: "L"},
			{VoterID: "p3", CardID: "L"},
		},
	)

	deltas, err := ResolveScores(room)
	require.NoError(t, err)

	assert.Equal(t, 0, deltas["leader"], "a tell that obvious pays nothing")
	assert.Equal(t, 3, deltas["p2"])
	assert.Equal(t, 3, deltas["p3"])
}

func TestResolveScoresNobodyGuessed(t *testing.T) {
	room := scoringRoom(t,
		Submissions{
			{PlayerID: "leader", Card: Card{ID: "L"}},
			{PlayerID: "p2", Card: Card{ID: "A"}},
			{PlayerID: "p3", Card: Card{ID: "B"}},
		},
		Votes{
			{VoterID: "p2", CardID: "B"},
			{VoterID: "p3", CardID: "A"},
		},
	)

	deltas, err := ResolveScores(room)
	require.NoError(t, err)

	assert.Equal(t, 0, deltas["leader"])
	assert.Equal(t, 1, deltas["p2"], "one vote landed on p2's card")
	assert.Equal(t, 1, deltas["p3"])
}

func TestResolveScoresSplitPairOfVoters(t *testing.T) {
	room := scoringRoom(t,
		Submissions{
			{PlayerID: "leader", Card: Card{ID: "L"}},
			{PlayerID: "p2", Card: Card{ID: "A"}},
			{PlayerID: "p3", Card: Card{ID: "B"}},
		},
		Votes{
			{VoterID: "p2", CardID: "L"},
			{VoterID: "p3", CardID: "A"},
		},
	)

	deltas, err := ResolveScores(room)
	require.NoError(t, err)

	// One of two voters found it, so 0 < 1 < 2 and the leader scores.
	assert.Equal(t, 3, deltas["leader"])
	assert.Equal(t, 3+1, deltas["p2"])
	assert.Equal(t, 0, deltas["p3"])
}

func TestResolveScoresWithoutLeaderSubmission(t *testing.T) {
	room := NewRoom("abcd", nil, DefaultSettings())
	room.LeaderID = "leader"
	room.Players = []*Player{{ID: "leader", Status: StatusOnline}}

	_, err := ResolveScores(room)
	assert.ErrorIs(t, err, ErrCardNotFound)
}
