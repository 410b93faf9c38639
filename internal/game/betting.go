package game

// BettingRound holds the state of one street's betting: the running amount
// to call, the minimum raise increment, who reopened the action last, and
// which seats have acted since the last raise.
type BettingRound struct {
	CurrentBet    int
	MinRaise      int
	LastAggressor int
	Acted         []bool
	BBActed       bool // preflop only: the big blind gets the option
	bigBlind      int
}

// NewBettingRound creates betting state for a table of numPlayers seats.
func NewBettingRound(numPlayers, bigBlind int) *BettingRound {
	return &BettingRound{
		MinRaise:      bigBlind,
		LastAggressor: -1,
		Acted:         make([]bool, numPlayers),
		bigBlind:      bigBlind,
	}
}

// Reset prepares the state for a new street. The minimum raise reverts to
// the big blind; the preflop BB option flag is left alone because it only
// matters on the street it was set for.
func (br *BettingRound) Reset() {
	br.CurrentBet = 0
	br.MinRaise = br.bigBlind
	br.LastAggressor = -1
	for i := range br.Acted {
		br.Acted[i] = false
	}
}

// MarkActed records that a seat has acted since the last raise.
func (br *BettingRound) MarkActed(seat int) {
	if seat >= 0 && seat < len(br.Acted) {
		br.Acted[seat] = true
	}
}

// Reopen registers a full raise: everyone else must act again.
func (br *BettingRound) Reopen(seat, raiseTo int) {
	br.MinRaise = raiseTo - br.CurrentBet
	br.CurrentBet = raiseTo
	br.LastAggressor = seat
	for i := range br.Acted {
		br.Acted[i] = false
	}
	br.Acted[seat] = true
}

// Complete reports whether the street's betting is finished: every player
// still able to act has matched the current bet and has acted since the
// last raise, with the preflop big-blind option honored.
func (br *BettingRound) Complete(players []*Player, phase Phase, bbSeat int) bool {
	eligible := 0
	for _, p := range players {
		if p.CanAct() {
			eligible++
		}
	}

	if eligible == 0 {
		return true
	}

	if eligible == 1 {
		// The lone player who can still act only owes an action while a
		// bet is unmatched (all-in opponents may have them covered).
		for _, p := range players {
			if p.CanAct() {
				return p.Bet == br.CurrentBet
			}
		}
	}

	for i, p := range players {
		if !p.CanAct() {
			continue
		}
		if p.Bet != br.CurrentBet || !br.Acted[i] {
			return false
		}
	}

	// Preflop the big blind acts last on an unraised pot.
	if phase == Preflop && br.LastAggressor == -1 {
		bb := players[bbSeat]
		if bb.CanAct() && !br.BBActed {
			return false
		}
	}

	return true
}
