// Package pot tracks per-player chip contributions across a hand and
// derives the main pot and side pots for award at showdown.
package pot

import (
	"sort"

	"github.com/cardroom/holdem/internal/evaluator"
)

// Pot is one layer of the total pot with the players who can win it.
// Side pots arise when an all-in player's contribution caps a layer.
type Pot struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
}

// Payout records chips awarded to a player from one pot layer.
type Payout struct {
	PlayerID string
	Amount   int
}

// Ledger accumulates each player's total contribution for the hand.
// Contributions only grow; folded players' chips stay in the pot.
type Ledger struct {
	contributions map[string]int
	order         []string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{contributions: make(map[string]int)}
}

// Record adds amount to a player's running total for the hand. Called
// after every accepted betting action, including blinds.
func (l *Ledger) Record(playerID string, amount int) {
	if amount <= 0 {
		return
	}
	if _, ok := l.contributions[playerID]; !ok {
		l.order = append(l.order, playerID)
	}
	l.contributions[playerID] += amount
}

// Contribution returns a player's total contribution so far.
func (l *Ledger) Contribution(playerID string) int {
	return l.contributions[playerID]
}

// Total returns the sum of all contributions, which always equals the sum
// of all pot layers BuildPots produces.
func (l *Ledger) Total() int {
	total := 0
	for _, amount := range l.contributions {
		total += amount
	}
	return total
}

// BuildPots slices the contributions into pot layers. Distinct contribution
// levels are processed ascending; each layer holds (level - previous) chips
// from every player who contributed at least that much, and is winnable by
// those of them who have not folded.
func (l *Ledger) BuildPots(folded map[string]bool) []Pot {
	levels := make([]int, 0, len(l.contributions))
	seen := make(map[int]bool)
	for _, amount := range l.contributions {
		if amount > 0 && !seen[amount] {
			seen[amount] = true
			levels = append(levels, amount)
		}
	}
	sort.Ints(levels)

	var pots []Pot
	prev := 0
	for _, level := range levels {
		layer := Pot{}
		for _, id := range l.order {
			if l.contributions[id] < level {
				continue
			}
			layer.Amount += level - prev
			if !folded[id] {
				layer.Eligible = append(layer.Eligible, id)
			}
		}

		// A layer whose eligible set matches the previous layer's adds no
		// information; fold it into that pot to avoid degenerate side pots.
		if n := len(pots); n > 0 && sameEligible(pots[n-1].Eligible, layer.Eligible) {
			pots[n-1].Amount += layer.Amount
		} else {
			pots = append(pots, layer)
		}
		prev = level
	}
	return pots
}

func sameEligible(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Award distributes each pot independently to its best-ranked eligible
// players. Ties split evenly; remainder chips go to the first tied player
// in seatOrder, which callers build clockwise from the dealer button.
func Award(pots []Pot, ranks map[string]evaluator.Rank, seatOrder []string) []Payout {
	position := make(map[string]int, len(seatOrder))
	for i, id := range seatOrder {
		position[id] = i
	}

	var payouts []Payout
	for _, p := range pots {
		winners := potWinners(p, ranks)
		if len(winners) == 0 {
			continue
		}
		sort.Slice(winners, func(i, j int) bool {
			return position[winners[i]] < position[winners[j]]
		})

		share := p.Amount / len(winners)
		remainder := p.Amount % len(winners)
		for i, id := range winners {
			amount := share
			if i < remainder {
				amount++
			}
			if amount > 0 {
				payouts = append(payouts, Payout{PlayerID: id, Amount: amount})
			}
		}
	}
	return payouts
}

// potWinners returns the eligible players holding the strongest rank.
// A pot with a single eligible player needs no evaluation: the chips are
// theirs regardless of holding (the single-survivor case).
func potWinners(p Pot, ranks map[string]evaluator.Rank) []string {
	if len(p.Eligible) == 1 {
		return []string{p.Eligible[0]}
	}

	var (
		best    evaluator.Rank
		winners []string
	)
	for _, id := range p.Eligible {
		rank, ok := ranks[id]
		if !ok {
			continue
		}
		switch {
		case winners == nil || rank > best:
			best = rank
			winners = []string{id}
		case rank == best:
			winners = append(winners, id)
		}
	}
	return winners
}
