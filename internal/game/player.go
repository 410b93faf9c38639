package game

import "github.com/cardroom/holdem/internal/deck"

// Player represents a seated player within one hand. Chips are copied in
// from the room roster at hand start and copied back after settlement.
type Player struct {
	ID         string
	Name       string
	Seat       int
	Chips      int
	HoleCards  []deck.Card
	Bet        int // chips committed this street
	TotalBet   int // chips committed this hand
	Folded     bool
	AllIn      bool
	LastAction string
}

// InHand reports whether the player can still win a pot.
func (p *Player) InHand() bool {
	return !p.Folded
}

// CanAct reports whether the player may still take betting actions.
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}
