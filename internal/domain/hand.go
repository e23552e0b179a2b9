package domain

// Hand is the set of cards a player currently holds.
type Hand []Card

// Has reports whether the hand contains the card with the given id.
func (h Hand) Has(cardID string) bool {
	for _, c := range h {
		if c.ID == cardID {
			return true
		}
	}
	return false
}

// Get returns the card with the given id.
func (h Hand) Get(cardID string) (Card, error) {
	for _, c := range h {
		if c.ID == cardID {
			return c, nil
		}
	}
	return Card{}, ErrCardNotFound
}

// Remove takes the card with the given id out of the hand and returns it.
// The hand keeps its relative order.
func (h Hand) Remove(cardID string) (Card, Hand, error) {
	for i, c := range h {
		if c.ID == cardID {
			out := make(Hand, 0, len(h)-1)
			out = append(out, h[:i]...)
			out = append(out, h[i+1:]...)
			return c, out, nil
		}
	}
	return Card{}, h, ErrCardNotFound
}
