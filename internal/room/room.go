// Package room owns the per-room roster and hand lifecycle. Exactly one
// hand is active per room, and one mutex makes the room a single writer:
// every action either fully applies or is rejected with the state intact,
// and readers only ever observe post-action snapshots.
package room

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/holdem/internal/game"
)

const maxSeats = 4

var (
	ErrNoActiveHand     = errors.New("room has no active hand")
	ErrHandInProgress   = errors.New("hand in progress")
	ErrRoomFull         = errors.New("room is full")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrNotEnoughPlayers = errors.New("not enough players with chips")
)

// Broadcaster delivers per-viewer state snapshots. Implementations must
// send each view only to its viewer; the projection is what keeps hole
// cards hidden.
type Broadcaster interface {
	BroadcastState(roomID, playerID string, view game.PublicView)
}

type rosterEntry struct {
	id      string
	name    string
	chips   int
	leaving bool
}

// Room is the authoritative state holder for one table.
type Room struct {
	ID string

	mu            sync.Mutex
	logger        *log.Logger
	clock         quartz.Clock
	rng           *rand.Rand
	broadcaster   Broadcaster
	smallBlind    int
	bigBlind      int
	actionTimeout time.Duration

	roster  []*rosterEntry
	button  int
	hand    *game.Hand
	turnSeq int
	timer   *quartz.Timer
}

// Option customizes room construction.
type Option func(*Room)

// WithClock injects a clock, letting tests drive the action timeout.
func WithClock(clock quartz.Clock) Option {
	return func(r *Room) { r.clock = clock }
}

// WithRNG injects the shuffle source for deterministic deals.
func WithRNG(rng *rand.Rand) Option {
	return func(r *Room) { r.rng = rng }
}

// WithBlinds overrides the default 10/20 blinds.
func WithBlinds(smallBlind, bigBlind int) Option {
	return func(r *Room) {
		r.smallBlind = smallBlind
		r.bigBlind = bigBlind
	}
}

// WithActionTimeout sets how long a player may sit on their turn before
// being force-folded. Zero disables the timer.
func WithActionTimeout(d time.Duration) Option {
	return func(r *Room) { r.actionTimeout = d }
}

// WithBroadcaster sets the per-viewer state sink.
func WithBroadcaster(b Broadcaster) Option {
	return func(r *Room) { r.broadcaster = b }
}

// New creates an empty room.
func New(id string, logger *log.Logger, opts ...Option) *Room {
	r := &Room{
		ID:         id,
		logger:     logger.WithPrefix("room").With("room", id),
		clock:      quartz.NewReal(),
		smallBlind: 10,
		bigBlind:   20,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return r
}

// Join seats a player. Seating changes are refused while a hand runs.
func (r *Room) Join(playerID, name string, chips int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handActive() {
		return ErrHandInProgress
	}
	if len(r.roster) >= maxSeats {
		return ErrRoomFull
	}
	for _, e := range r.roster {
		if e.id == playerID {
			return fmt.Errorf("player %s already seated", playerID)
		}
	}
	r.roster = append(r.roster, &rosterEntry{id: playerID, name: name, chips: chips})
	r.logger.Info("player joined", "player", playerID, "chips", chips)
	return nil
}

// Leave unseats a player. During a hand the player is force-folded and
// removed once the hand settles; their committed chips stay in the pot.
func (r *Room) Leave(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.entry(playerID)
	if entry == nil {
		return ErrUnknownPlayer
	}

	if r.handActive() {
		entry.leaving = true
		err := r.hand.ForceFold(playerID)
		if err != nil && !errors.Is(err, game.ErrPlayerNotEligible) {
			return err
		}
		r.afterChange()
		return nil
	}

	r.removeEntry(playerID)
	r.logger.Info("player left", "player", playerID)
	return nil
}

// StartHand deals a new hand to every seated player holding chips.
func (r *Room) StartHand() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handActive() {
		return ErrHandInProgress
	}

	// Collect eligible seats starting at the stored button position, so
	// seat 0 of the hand is the button (or the first funded seat after it).
	var seats []game.Seat
	for i := 0; i < len(r.roster); i++ {
		idx := (r.button + i) % len(r.roster)
		e := r.roster[idx]
		if e.chips <= 0 {
			continue
		}
		seats = append(seats, game.Seat{ID: e.id, Name: e.name, Chips: e.chips})
	}
	if len(seats) < 2 {
		return ErrNotEnoughPlayers
	}
	buttonSeat := 0

	hand, err := game.NewHand(r.rng, seats, buttonSeat, game.WithBlinds(r.smallBlind, r.bigBlind))
	if err != nil {
		return err
	}
	r.hand = hand
	r.logger.Info("hand started", "hand", hand.ID, "players", len(seats), "button", seats[buttonSeat].ID)
	r.afterChange()
	return nil
}

// SubmitAction applies a betting action and returns the acting player's
// view of the resulting state.
func (r *Room) SubmitAction(playerID string, action game.Action, amount int) (game.PublicView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.handActive() {
		return game.PublicView{}, ErrNoActiveHand
	}
	if err := r.hand.SubmitAction(playerID, action, amount); err != nil {
		return game.PublicView{}, err
	}
	r.logger.Debug("action applied", "player", playerID, "action", action.String(), "amount", amount)
	r.afterChange()
	return r.hand.PublicView(playerID), nil
}

// ForceFold folds a player out of turn, for timeout and disconnect policies.
func (r *Room) ForceFold(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.handActive() {
		return ErrNoActiveHand
	}
	if err := r.hand.ForceFold(playerID); err != nil {
		return err
	}
	r.logger.Info("player force-folded", "player", playerID)
	r.afterChange()
	return nil
}

// PublicView returns a consistent snapshot for the given viewer.
func (r *Room) PublicView(forPlayerID string) (game.PublicView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hand == nil {
		return game.PublicView{}, ErrNoActiveHand
	}
	return r.hand.PublicView(forPlayerID), nil
}

// Result returns the last settled hand's outcome, or nil.
func (r *Room) Result() *game.Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hand == nil {
		return nil
	}
	return r.hand.Result()
}

// Stacks returns the current roster stacks keyed by player id.
func (r *Room) Stacks() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	stacks := make(map[string]int, len(r.roster))
	for _, e := range r.roster {
		stacks[e.id] = e.chips
	}
	return stacks
}

func (r *Room) handActive() bool {
	return r.hand != nil && !r.hand.Done()
}

func (r *Room) entry(playerID string) *rosterEntry {
	for _, e := range r.roster {
		if e.id == playerID {
			return e
		}
	}
	return nil
}

func (r *Room) removeEntry(playerID string) {
	for i, e := range r.roster {
		if e.id == playerID {
			r.roster = append(r.roster[:i], r.roster[i+1:]...)
			// Keep the button on the same player when a lower seat goes.
			if i < r.button {
				r.button--
			} else if r.button >= len(r.roster) {
				r.button = 0
			}
			return
		}
	}
}

// afterChange runs with the lock held after every state mutation: it
// settles finished hands, rearms the turn timer and fans the new state
// out to every seated player.
func (r *Room) afterChange() {
	if r.hand != nil && r.hand.Done() {
		r.settle()
	} else {
		r.armTimer()
	}
	r.broadcast()
}

// settle copies final stacks back to the roster, drops leaving or seated
// players as needed and rotates the button for the next hand.
func (r *Room) settle() {
	r.stopTimer()

	for _, p := range r.hand.Players {
		if e := r.entry(p.ID); e != nil {
			e.chips = p.Chips
		}
	}

	// Pick the next dealer by id before removals shift roster indexes.
	nextButton := r.nextButtonID()

	for i := 0; i < len(r.roster); {
		if r.roster[i].leaving {
			r.roster = append(r.roster[:i], r.roster[i+1:]...)
		} else {
			i++
		}
	}

	r.button = 0
	for i, e := range r.roster {
		if e.id == nextButton {
			r.button = i
			break
		}
	}

	result := r.hand.Result()
	if result != nil {
		for _, p := range result.Pots {
			r.logger.Info("pot awarded", "hand", result.HandID, "amount", p.Amount, "winners", p.Winners)
		}
	}
}

// nextButtonID returns the id of the next hand's dealer: the first seat
// after the current button that is staying and still holds chips.
func (r *Room) nextButtonID() string {
	n := len(r.roster)
	for i := 1; i <= n; i++ {
		e := r.roster[(r.button+i)%n]
		if !e.leaving && e.chips > 0 {
			return e.id
		}
	}
	return ""
}

func (r *Room) armTimer() {
	r.stopTimer()
	if r.actionTimeout <= 0 || !r.handActive() || r.hand.Active < 0 {
		return
	}

	r.turnSeq++
	seq := r.turnSeq
	playerID := r.hand.Players[r.hand.Active].ID

	r.timer = r.clock.AfterFunc(r.actionTimeout, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		// Only fire if the same turn is still pending.
		if seq != r.turnSeq || !r.handActive() {
			return
		}
		r.logger.Warn("action timeout, folding", "player", playerID)
		if err := r.hand.ForceFold(playerID); err != nil {
			r.logger.Error("timeout fold failed", "player", playerID, "error", err)
			return
		}
		r.afterChange()
	})
}

func (r *Room) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Room) broadcast() {
	if r.broadcaster == nil || r.hand == nil {
		return
	}
	for _, e := range r.roster {
		r.broadcaster.BroadcastState(r.ID, e.id, r.hand.PublicView(e.id))
	}
}
