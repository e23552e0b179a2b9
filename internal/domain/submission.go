package domain

// Submission is a card played face-down into the current round. The owner
// is hidden from other players until reveal time.
type Submission struct {
	PlayerID string `json:"playerId"`
	Card     Card   `json:"card"`
}

// Submissions is the per-round submission set: at most one leader entry
// plus one per non-leader player, cleared atomically at round start.
type Submissions []Submission

// HasPlayer reports whether the player already submitted this round.
func (s Submissions) HasPlayer(playerID string) bool {
	for _, sub := range s {
		if sub.PlayerID == playerID {
			return true
		}
	}
	return false
}

// HasCard reports whether the card is among this round's submissions.
func (s Submissions) HasCard(cardID string) bool {
	for _, sub := range s {
		if sub.Card.ID == cardID {
			return true
		}
	}
	return false
}

// ByPlayer returns the submission made by the given player.
func (s Submissions) ByPlayer(playerID string) (Submission, bool) {
	for _, sub := range s {
		if sub.PlayerID == playerID {
			return sub, true
		}
	}
	return Submission{}, false
}

// Owner returns the id of the player who submitted the given card.
func (s Submissions) Owner(cardID string) (string, bool) {
	for _, sub := range s {
		if sub.Card.ID == cardID {
			return sub.PlayerID, true
		}
	}
	return "", false
}

// Cards returns the submitted cards in submission order.
func (s Submissions) Cards() []Card {
	cards := make([]Card, 0, len(s))
	for _, sub := range s {
		cards = append(cards, sub.Card)
	}
	return cards
}
