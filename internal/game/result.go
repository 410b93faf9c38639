package game

import (
	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/evaluator"
	"github.com/cardroom/holdem/internal/pot"
)

// RevealedHand is one showdown participant's holding and the five cards
// that justify their ranking.
type RevealedHand struct {
	PlayerID  string         `json:"playerId"`
	HoleCards []deck.Card    `json:"holeCards"`
	BestFive  []deck.Card    `json:"bestFive"`
	Rank      evaluator.Rank `json:"-"`
	RankName  string         `json:"rankName,omitempty"`
}

// PotResult records how one pot layer was decided.
type PotResult struct {
	Amount   int          `json:"amount"`
	Eligible []string     `json:"eligible"`
	Winners  []string     `json:"winners"`
	Payouts  []pot.Payout `json:"-"`
}

// Result is the outcome of a settled hand.
type Result struct {
	HandID   string         `json:"handId"`
	Pots     []PotResult    `json:"pots"`
	Revealed []RevealedHand `json:"revealed,omitempty"`
}

// WonBy returns the total amount the given player collected.
func (r *Result) WonBy(playerID string) int {
	total := 0
	for _, p := range r.Pots {
		for _, pay := range p.Payouts {
			if pay.PlayerID == playerID {
				total += pay.Amount
			}
		}
	}
	return total
}
