package domain

import "math/rand"

// Card is an opaque record produced by the deck provider.
// Identity is by ID; the title is display-only.
type Card struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Deck is the ordered card pool owned by one room. It is consumed by
// dealing and never refilled within a game.
type Deck []Card

// NewDeck copies the provider's card pool so the room owns its deck.
func NewDeck(cards []Card) Deck {
	d := make(Deck, len(cards))
	copy(d, cards)
	return d
}

// Shuffle permutes the deck in place with an unbiased Fisher-Yates pass.
func (d Deck) Shuffle(rng *rand.Rand) {
	for i := len(d) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

// Draw removes and returns the top n cards. It returns ErrNotEnoughCards
// if the deck holds fewer than n.
func (d *Deck) Draw(n int) ([]Card, error) {
	if n > len(*d) {
		return nil, ErrNotEnoughCards
	}
	drawn := make([]Card, n)
	copy(drawn, (*d)[:n])
	*d = (*d)[n:]
	return drawn, nil
}

// ShuffleCards returns a shuffled copy of cards, leaving the input intact.
func ShuffleCards(cards []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
