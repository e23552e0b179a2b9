package deck

import (
	"context"
	"strconv"

	"dixit/internal/domain"
)

// cardTitles is the built-in pool. Evocative single images work best for
// description-matching, so the list leans abstract.
var cardTitles = []string{
	// Dreamlike
	"floating lighthouse", "clockwork heart", "paper boat armada", "upside-down rain",
	"door in the sky", "glass forest", "sleeping giant", "moth lantern",
	"staircase to nowhere", "inkwell ocean", "whale above the city", "mirror desert",

	// Creatures
	"fox in a suit", "two-headed songbird", "origami dragon", "snail with a house of books",
	"owl librarian", "cat made of stars", "stone turtle island", "rabbit magician",

	// Places
	"abandoned carousel", "candlelit archive", "train through the clouds", "garden under ice",
	"market of masks", "tower of teacups", "bridge of umbrellas", "village on stilts",

	// Objects
	"key that winds the moon", "bottled thunderstorm", "compass pointing home", "unraveling sweater",
	"chessboard battlefield", "hourglass of leaves", "violin with wings", "map with no edges",

	// Moments
	"last dance at dawn", "letter never sent", "first snow on embers", "tide taking the sandcastle",
	"eclipse over the fair", "echo in the canyon", "harvest of stars", "parade of shadows",

	// Abstract
	"borrowed courage", "the space between words", "a promise kept too late", "quiet before applause",
	"the weight of feathers", "forgotten birthday wish", "second chances", "the middle of nowhere",
}

// StaticProvider serves the built-in deck from memory. It stands in for
// the AI pipeline in development and tests.
type StaticProvider struct {
	cards []domain.Card
}

// NewStaticProvider builds the provider's card pool once, with stable ids.
func NewStaticProvider() *StaticProvider {
	cards := make([]domain.Card, 0, len(cardTitles))
	for i, title := range cardTitles {
		cards = append(cards, domain.Card{
			ID:    strconv.Itoa(i + 1),
			Title: title,
		})
	}
	return &StaticProvider{cards: cards}
}

// GetDeck returns a copy of the pool so callers can consume it freely.
func (p *StaticProvider) GetDeck(_ context.Context, _ string) ([]domain.Card, error) {
	cards := make([]domain.Card, len(p.cards))
	copy(cards, p.cards)
	return cards, nil
}

// Size returns the number of cards in the built-in pool.
func (p *StaticProvider) Size() int {
	return len(p.cards)
}
