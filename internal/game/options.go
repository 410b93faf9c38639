package game

import "github.com/cardroom/holdem/internal/deck"

// Option customizes hand construction.
type Option func(*Hand)

// WithBlinds overrides the default 10/20 blinds.
func WithBlinds(smallBlind, bigBlind int) Option {
	return func(h *Hand) {
		h.SmallBlind = smallBlind
		h.BigBlind = bigBlind
	}
}

// WithDeck supplies a preset deck so tests can rig exact hole cards and
// community cards.
func WithDeck(d *deck.Deck) Option {
	return func(h *Hand) {
		h.deck = d
	}
}
