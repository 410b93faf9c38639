package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/evaluator"
	"github.com/cardroom/holdem/internal/pot"
)

// Seat describes one roster entry handed in by the room at hand start.
type Seat struct {
	ID    string
	Name  string
	Chips int
}

// Hand drives a single poker hand from deal to settlement. It exclusively
// owns the deck, community cards, betting state and pot ledger; all of
// them are discarded with the hand. The room serializes access.
type Hand struct {
	ID         string
	Players    []*Player
	Button     int
	SmallBlind int
	BigBlind   int
	Community  []deck.Card
	Betting    *BettingRound
	Active     int // seat due to act, -1 when none

	phase  Phase
	deck   *deck.Deck
	ledger *pot.Ledger
	result *Result
}

// NewHand deals a new hand: blinds are posted, every player receives two
// hole cards, and the preflop betting round opens at the seat after the
// big blind. The rng seeds the shuffle unless WithDeck overrides it.
func NewHand(rng *rand.Rand, roster []Seat, button int, opts ...Option) (*Hand, error) {
	if len(roster) < 2 || len(roster) > 4 {
		return nil, fmt.Errorf("hand requires 2-4 players, got %d", len(roster))
	}
	if button < 0 || button >= len(roster) {
		return nil, fmt.Errorf("button seat %d out of range", button)
	}

	h := &Hand{
		ID:         uuid.NewString(),
		Button:     button,
		SmallBlind: 10,
		BigBlind:   20,
		Active:     -1,
		phase:      Dealing,
		ledger:     pot.NewLedger(),
	}
	for i, s := range roster {
		if s.Chips <= 0 {
			return nil, fmt.Errorf("player %s has no chips", s.ID)
		}
		h.Players = append(h.Players, &Player{
			ID:    s.ID,
			Name:  s.Name,
			Seat:  i,
			Chips: s.Chips,
		})
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.deck == nil {
		h.deck = deck.New(rng)
	}

	h.Betting = NewBettingRound(len(h.Players), h.BigBlind)
	h.postBlinds()
	if err := h.dealHoleCards(); err != nil {
		return nil, err
	}

	h.phase = Preflop
	h.Active = h.nextToAct(h.bbSeat() + 1)
	if h.Active == -1 || h.Betting.Complete(h.Players, h.phase, h.bbSeat()) {
		if err := h.nextStreet(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Phase returns the current state of the hand.
func (h *Hand) Phase() Phase {
	return h.phase
}

// Done reports whether the hand has been settled.
func (h *Hand) Done() bool {
	return h.phase == Settled
}

// Result returns the settlement outcome, or nil before the hand settles.
func (h *Hand) Result() *Result {
	return h.result
}

// PotTotal returns the chips committed to the hand and not yet awarded.
// Once the hand settles the pots have been paid out, so the total is zero.
func (h *Hand) PotTotal() int {
	if h.phase == Settled {
		return 0
	}
	return h.ledger.Total()
}

func (h *Hand) sbSeat() int {
	if len(h.Players) == 2 {
		// Heads-up the button posts the small blind.
		return h.Button
	}
	return (h.Button + 1) % len(h.Players)
}

func (h *Hand) bbSeat() int {
	if len(h.Players) == 2 {
		return (h.Button + 1) % len(h.Players)
	}
	return (h.Button + 2) % len(h.Players)
}

func (h *Hand) postBlinds() {
	h.commit(h.Players[h.sbSeat()], h.SmallBlind)
	h.commit(h.Players[h.bbSeat()], h.BigBlind)
	h.Betting.CurrentBet = h.BigBlind
}

// commit moves up to amount chips from the player's stack into the current
// street's bet, capped at the stack (an all-in). Every committed chip is
// recorded in the ledger.
func (h *Hand) commit(p *Player, amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
	h.ledger.Record(p.ID, amount)
	return amount
}

// dealHoleCards gives each player two consecutive cards, starting with the
// seat after the button.
func (h *Hand) dealHoleCards() error {
	n := len(h.Players)
	for i := 1; i <= n; i++ {
		p := h.Players[(h.Button+i)%n]
		cards, err := h.deck.DrawN(2)
		if err != nil {
			return err
		}
		p.HoleCards = cards
	}
	return nil
}

func (h *Hand) seatOf(playerID string) int {
	for _, p := range h.Players {
		if p.ID == playerID {
			return p.Seat
		}
	}
	return -1
}

func (h *Hand) nextToAct(from int) int {
	n := len(h.Players)
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		if h.Players[seat].CanAct() {
			return seat
		}
	}
	return -1
}

func (h *Hand) inHandCount() int {
	count := 0
	for _, p := range h.Players {
		if p.InHand() {
			count++
		}
	}
	return count
}

// SubmitAction applies one betting action for the given player. For raises
// the amount is the total the player raises to for this street. Rejected
// actions leave every part of the hand untouched.
func (h *Hand) SubmitAction(playerID string, action Action, amount int) error {
	if !h.phase.IsStreet() {
		return ErrHandComplete
	}
	seat := h.seatOf(playerID)
	if seat == -1 {
		return ErrPlayerNotEligible
	}
	p := h.Players[seat]
	if !p.CanAct() {
		return ErrPlayerNotEligible
	}
	if seat != h.Active {
		return ErrOutOfTurn
	}

	switch action {
	case Fold:
		p.Folded = true
		p.LastAction = "fold"

	case Check:
		if p.Bet != h.Betting.CurrentBet {
			return ErrIllegalCheck
		}
		p.LastAction = "check"

	case Call:
		h.commit(p, h.Betting.CurrentBet-p.Bet)
		if p.AllIn {
			p.LastAction = "all-in"
		} else {
			p.LastAction = "call"
		}

	case Raise:
		// A player who already acted since the last full raise may only
		// call or fold; a short all-in raises the bet without reopening.
		if h.Betting.Acted[seat] {
			return ErrIllegalRaiseSize
		}
		total := p.Chips + p.Bet
		if amount > total {
			return ErrInsufficientStack
		}
		if amount <= h.Betting.CurrentBet {
			return ErrIllegalRaiseSize
		}
		// Below the full minimum raise is only legal as an all-in, and an
		// all-in under-raise does not reopen the action.
		fullRaise := amount >= h.Betting.CurrentBet+h.Betting.MinRaise
		if !fullRaise && amount < total {
			return ErrIllegalRaiseSize
		}
		h.commit(p, amount-p.Bet)
		if fullRaise {
			h.Betting.Reopen(seat, amount)
		} else {
			h.Betting.CurrentBet = amount
		}
		if p.AllIn {
			p.LastAction = "all-in"
		} else {
			p.LastAction = "raise"
		}

	default:
		return fmt.Errorf("unknown action %d", action)
	}

	h.Betting.MarkActed(seat)
	if h.phase == Preflop && seat == h.bbSeat() {
		h.Betting.BBActed = true
	}
	return h.advance()
}

// ForceFold folds the given player immediately, regardless of turn order.
// The room's timeout policy and disconnect handling call this. An all-in
// player has no action left to take away, so their hand stays live and
// their committed chips keep contesting the pot.
func (h *Hand) ForceFold(playerID string) error {
	if !h.phase.IsStreet() {
		return ErrHandComplete
	}
	seat := h.seatOf(playerID)
	if seat == -1 {
		return ErrPlayerNotEligible
	}
	p := h.Players[seat]
	if p.Folded || p.AllIn {
		return nil
	}

	p.Folded = true
	p.LastAction = "fold"
	h.Betting.MarkActed(seat)
	if h.phase == Preflop && seat == h.bbSeat() {
		h.Betting.BBActed = true
	}
	if h.Betting.LastAggressor == seat {
		h.Betting.LastAggressor = -1
	}

	if h.inHandCount() <= 1 {
		return h.finish()
	}
	if seat == h.Active {
		h.Active = h.nextToAct(seat + 1)
	}
	if h.Active == -1 || h.Betting.Complete(h.Players, h.phase, h.bbSeat()) {
		return h.nextStreet()
	}
	return nil
}

// advance moves the turn after an accepted action, completing the street
// or the whole hand when nothing is left to decide.
func (h *Hand) advance() error {
	if h.inHandCount() <= 1 {
		return h.finish()
	}
	h.Active = h.nextToAct(h.Active + 1)
	if h.Active == -1 || h.Betting.Complete(h.Players, h.phase, h.bbSeat()) {
		return h.nextStreet()
	}
	return nil
}

// nextStreet closes the current betting round, reveals the next tranche of
// community cards and opens the next round. When no players can act the
// remaining streets run out automatically to showdown.
func (h *Hand) nextStreet() error {
	for _, p := range h.Players {
		p.Bet = 0
	}
	h.Betting.Reset()

	var reveal int
	switch h.phase {
	case Preflop:
		h.phase, reveal = Flop, 3
	case Flop:
		h.phase, reveal = Turn, 1
	case Turn:
		h.phase, reveal = River, 1
	case River:
		return h.finish()
	default:
		return nil
	}

	cards, err := h.deck.DrawN(reveal)
	if err != nil {
		return err
	}
	h.Community = append(h.Community, cards...)

	h.Active = h.nextToAct(h.Button + 1)
	if h.Active == -1 || h.Betting.Complete(h.Players, h.phase, h.bbSeat()) {
		return h.nextStreet()
	}
	return nil
}

// finish runs the showdown and settles the hand. With a single surviving
// player no hands are evaluated and no further cards are revealed; the
// survivor collects every pot they are eligible for.
func (h *Hand) finish() error {
	h.Active = -1
	h.phase = Showdown

	folded := make(map[string]bool, len(h.Players))
	for _, p := range h.Players {
		if p.Folded {
			folded[p.ID] = true
		}
	}

	ranks := make(map[string]evaluator.Rank)
	var revealed []RevealedHand
	if h.inHandCount() > 1 {
		for _, p := range h.Players {
			if p.Folded {
				continue
			}
			cards := make([]deck.Card, 0, 7)
			cards = append(cards, p.HoleCards...)
			cards = append(cards, h.Community...)
			five, rank, err := evaluator.BestFive(cards)
			if err != nil {
				return fmt.Errorf("evaluating %s: %w", p.ID, err)
			}
			ranks[p.ID] = rank
			revealed = append(revealed, RevealedHand{
				PlayerID:  p.ID,
				HoleCards: p.HoleCards,
				BestFive:  five,
				Rank:      rank,
				RankName:  rank.String(),
			})
		}
	}

	order := h.clockwiseFromButton()
	var results []PotResult
	for _, pt := range h.ledger.BuildPots(folded) {
		payouts := pot.Award([]pot.Pot{pt}, ranks, order)
		pr := PotResult{Amount: pt.Amount, Eligible: pt.Eligible}
		for _, pay := range payouts {
			pr.Winners = append(pr.Winners, pay.PlayerID)
			pr.Payouts = append(pr.Payouts, pay)
			h.Players[h.seatOf(pay.PlayerID)].Chips += pay.Amount
		}
		results = append(results, pr)
	}

	h.result = &Result{
		HandID:   h.ID,
		Pots:     results,
		Revealed: revealed,
	}
	h.phase = Settled
	return nil
}

// clockwiseFromButton returns player ids ordered clockwise starting at the
// seat after the dealer button, the order used for odd-chip assignment.
func (h *Hand) clockwiseFromButton() []string {
	n := len(h.Players)
	order := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		order = append(order, h.Players[(h.Button+i)%n].ID)
	}
	return order
}
