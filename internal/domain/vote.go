package domain

// Vote is a non-leader player's guess at which submitted card is the
// leader's. Votes key off card identity: the presented cards are
// anonymous, so card id is the only thing a voter can point at.
type Vote struct {
	VoterID string `json:"voterId"`
	CardID  string `json:"cardId"`
}

// Votes is the per-round vote set: at most one entry per non-leader player.
type Votes []Vote

// HasVoter reports whether the player already voted this round.
func (v Votes) HasVoter(playerID string) bool {
	for _, vote := range v {
		if vote.VoterID == playerID {
			return true
		}
	}
	return false
}

// CountFor returns the number of votes cast for the given card.
func (v Votes) CountFor(cardID string) int {
	count := 0
	for _, vote := range v {
		if vote.CardID == cardID {
			count++
		}
	}
	return count
}

// AsMap returns voter id -> chosen card id, for the reveal broadcast.
func (v Votes) AsMap() map[string]string {
	m := make(map[string]string, len(v))
	for _, vote := range v {
		m[vote.VoterID] = vote.CardID
	}
	return m
}
