// Package deck is the boundary to the deck-generation pipeline. The
// engine only ever sees opaque id+title card records; how they were
// produced (AI image synthesis, blob storage) is someone else's problem.
package deck

import (
	"context"

	"dixit/internal/domain"
)

// Provider returns the ordered card pool for a deck id.
type Provider interface {
	GetDeck(ctx context.Context, deckID string) ([]domain.Card, error)
}

// DefaultDeckID selects the built-in deck when a client doesn't ask for
// a specific one.
const DefaultDeckID = "default"
