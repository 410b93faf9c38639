package game

import "github.com/cardroom/holdem/internal/deck"

// PlayerView is the public slice of one player's state. HoleCards is only
// populated for the viewer themselves, or for non-folded players once the
// hand reaches showdown.
type PlayerView struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Seat       int         `json:"seat"`
	Chips      int         `json:"chips"`
	Bet        int         `json:"bet"`
	TotalBet   int         `json:"totalBet"`
	InHand     bool        `json:"inHand"`
	AllIn      bool        `json:"allIn"`
	LastAction string      `json:"lastAction,omitempty"`
	HoleCards  []deck.Card `json:"holeCards,omitempty"`
}

// PublicView is a consistent snapshot of the hand for one viewer. The
// transport layer must build one per recipient; a shared snapshot would
// leak hidden hole cards.
type PublicView struct {
	HandID     string       `json:"handId"`
	Phase      string       `json:"phase"`
	Community  []deck.Card  `json:"community"`
	Pot        int          `json:"pot"`
	CurrentBet int          `json:"currentBet"`
	MinRaise   int          `json:"minRaise"`
	Button     int          `json:"button"`
	ToAct      string       `json:"toAct,omitempty"`
	Players    []PlayerView `json:"players"`
	Result     *Result      `json:"result,omitempty"`
}

// PublicView projects the hand state for the given viewer. An empty
// viewer id produces a spectator view with no hole cards before showdown.
func (h *Hand) PublicView(forPlayerID string) PublicView {
	v := PublicView{
		HandID:     h.ID,
		Phase:      h.phase.String(),
		Community:  append([]deck.Card(nil), h.Community...),
		Pot:        h.PotTotal(),
		CurrentBet: h.Betting.CurrentBet,
		MinRaise:   h.Betting.MinRaise,
		Button:     h.Button,
		Result:     h.result,
	}
	if h.Active >= 0 {
		v.ToAct = h.Players[h.Active].ID
	}

	atShowdown := h.phase >= Showdown
	for _, p := range h.Players {
		pv := PlayerView{
			ID:         p.ID,
			Name:       p.Name,
			Seat:       p.Seat,
			Chips:      p.Chips,
			Bet:        p.Bet,
			TotalBet:   p.TotalBet,
			InHand:     p.InHand(),
			AllIn:      p.AllIn,
			LastAction: p.LastAction,
		}
		if p.ID == forPlayerID || (atShowdown && !p.Folded) {
			pv.HoleCards = append([]deck.Card(nil), p.HoleCards...)
		}
		v.Players = append(v.Players, pv)
	}
	return v
}
