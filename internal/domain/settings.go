package domain

import "time"

// Settings holds the configurable game parameters.
type Settings struct {
	MinPlayers     int `json:"minPlayers"`
	MaxPlayers     int `json:"maxPlayers"`
	CardsPerPlayer int `json:"cardsPerPlayer"`
	WinningScore   int `json:"winningScore"`

	PointsForGuessingLeader int `json:"pointsForGuessingLeader"`
	PointsForLeaderSuccess  int `json:"pointsForLeaderSuccess"`
	PointsPerVote           int `json:"pointsPerVote"`

	// Time limits are advisory constants for clients. The engine never
	// enforces them; any future timeout must arrive as an engine-triggered
	// transition like any player action.
	RoundTimeLimit  time.Duration `json:"roundTimeLimit"`
	VotingTimeLimit time.Duration `json:"votingTimeLimit"`
}

// DefaultSettings returns the standard rule set.
func DefaultSettings() Settings {
	return Settings{
		MinPlayers:              3,
		MaxPlayers:              8,
		CardsPerPlayer:          6,
		WinningScore:            20,
		PointsForGuessingLeader: 3,
		PointsForLeaderSuccess:  3,
		PointsPerVote:           1,
		RoundTimeLimit:          120 * time.Second,
		VotingTimeLimit:         60 * time.Second,
	}
}
