package deck

import (
	"errors"
	"math/rand"
	"time"
)

// ErrExhausted is returned when a draw is attempted on an empty deck.
// With at most 4 players (8 hole cards) plus 5 community cards this can
// only happen through a programming error, so callers treat it as fatal.
var ErrExhausted = errors.New("deck exhausted")

// Deck holds an ordered sequence of the 52 cards. Cards leave the deck
// through Draw and never return within a hand.
type Deck struct {
	cards []Card
}

// New creates a full 52-card deck shuffled with the given source.
// A nil rng falls back to a time-seeded source.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	d := &Deck{cards: make([]Card, 0, 52)}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	d.shuffle(rng)
	return d
}

// NewOrdered creates a deck that deals the given cards in order.
// Used by tests to rig exact boards and hole cards.
func NewOrdered(cards []Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// shuffle is a Fisher-Yates shuffle over the full deck.
func (d *Deck) shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrExhausted
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, nil
}

// DrawN draws n cards from the top of the deck.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, ErrExhausted
	}
	cards := make([]Card, n)
	for i := range cards {
		c, err := d.Draw()
		if err != nil {
			return nil, err
		}
		cards[i] = c
	}
	return cards, nil
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
