package game

import (
	"errors"
	"testing"
)

// assertConservation checks that chips on the table plus chips in the pot
// still add up to the buy-ins.
func assertConservation(t *testing.T, h *Hand, total int) {
	t.Helper()
	sum := h.PotTotal()
	for _, p := range h.Players {
		sum += p.Chips
	}
	if sum != total {
		t.Fatalf("chips not conserved: stacks+pot = %d, want %d", sum, total)
	}
}

func TestCheckedDownToShowdown(t *testing.T) {
	t.Parallel()

	h := threeHanded(t)
	must(t, h.SubmitAction("Alice", Call, 0))
	must(t, h.SubmitAction("Bob", Call, 0))
	must(t, h.SubmitAction("Carol", Check, 0))
	assertConservation(t, h, 3000)

	for _, street := range []Phase{Flop, Turn, River} {
		if h.Phase() != street {
			t.Fatalf("expected %s, got %s", street, h.Phase())
		}
		must(t, h.SubmitAction("Bob", Check, 0))
		must(t, h.SubmitAction("Carol", Check, 0))
		must(t, h.SubmitAction("Alice", Check, 0))
		assertConservation(t, h, 3000)
	}

	if h.Phase() != Settled {
		t.Fatalf("expected settled, got %s", h.Phase())
	}
	res := h.Result()
	if res == nil {
		t.Fatal("settled hand must carry a result")
	}
	// Bob's aces hold on the dry board.
	if got := res.WonBy("Bob"); got != 60 {
		t.Errorf("Bob should collect 60, got %d", got)
	}
	if got := h.Players[1].Chips; got != 1040 {
		t.Errorf("Bob's stack: expected 1040, got %d", got)
	}
	if len(res.Revealed) != 3 {
		t.Fatalf("expected 3 revealed hands, got %d", len(res.Revealed))
	}
	for _, r := range res.Revealed {
		if len(r.BestFive) != 5 || r.RankName == "" {
			t.Errorf("revealed hand for %s is incomplete", r.PlayerID)
		}
	}
	assertConservation(t, h, 3000)

	// The awarded chips are back in the stacks, so the pot reads empty.
	if h.PotTotal() != 0 {
		t.Errorf("settled hand should report an empty pot, got %d", h.PotTotal())
	}
	if view := h.PublicView(""); view.Pot != 0 {
		t.Errorf("settled view should report an empty pot, got %d", view.Pot)
	}

	if err := h.SubmitAction("Bob", Check, 0); !errors.Is(err, ErrHandComplete) {
		t.Errorf("expected ErrHandComplete after settlement, got %v", err)
	}
}

func TestSingleSurvivorTakesPotWithoutShowdown(t *testing.T) {
	t.Parallel()

	h := threeHanded(t)
	must(t, h.SubmitAction("Alice", Fold, 0))
	must(t, h.SubmitAction("Bob", Fold, 0))

	if h.Phase() != Settled {
		t.Fatalf("expected settled, got %s", h.Phase())
	}
	if len(h.Community) != 0 {
		t.Errorf("no community cards should be dealt, got %d", len(h.Community))
	}
	res := h.Result()
	if got := res.WonBy("Carol"); got != 30 {
		t.Errorf("Carol should collect the blinds, got %d", got)
	}
	if got := h.Players[2].Chips; got != 1010 {
		t.Errorf("Carol's stack: expected 1010, got %d", got)
	}
	if len(res.Revealed) != 0 {
		t.Errorf("uncontested pot must not reveal hole cards, got %d hands", len(res.Revealed))
	}
	assertConservation(t, h, 3000)
}

func TestAllInCreatesSidePot(t *testing.T) {
	t.Parallel()

	// Bob is short with 30: calling Alice's raise puts him all-in for a
	// 90-chip main pot, Alice and Carol contest a 140-chip side pot.
	h := threeHanded(t, 1000, 30, 1000)
	must(t, h.SubmitAction("Alice", Raise, 100))
	must(t, h.SubmitAction("Bob", Call, 0))
	if !h.Players[1].AllIn {
		t.Fatal("short call must put Bob all-in")
	}
	if got := h.Players[1].TotalBet; got != 30 {
		t.Fatalf("Bob's commitment: expected 30, got %d", got)
	}
	must(t, h.SubmitAction("Carol", Call, 0))
	assertConservation(t, h, 2030)

	// Bob has no chips left: the remaining two check it down.
	for h.Phase().IsStreet() {
		actor := h.Players[h.Active]
		if actor.ID == "Bob" {
			t.Fatal("all-in player must not be asked to act")
		}
		must(t, h.SubmitAction(actor.ID, Check, 0))
	}

	res := h.Result()
	if len(res.Pots) != 2 {
		t.Fatalf("expected main and side pot, got %d", len(res.Pots))
	}
	if res.Pots[0].Amount != 90 || res.Pots[1].Amount != 140 {
		t.Errorf("pot amounts: got %d/%d, want 90/140", res.Pots[0].Amount, res.Pots[1].Amount)
	}
	// Bob's aces win only the main pot; Carol's kings take the side pot
	// over Alice's queens.
	if got := res.WonBy("Bob"); got != 90 {
		t.Errorf("Bob should win 90, got %d", got)
	}
	if got := res.WonBy("Carol"); got != 140 {
		t.Errorf("Carol should win 140, got %d", got)
	}
	if h.Players[0].Chips != 900 || h.Players[1].Chips != 90 || h.Players[2].Chips != 1040 {
		t.Errorf("final stacks: got %d/%d/%d, want 900/90/1040",
			h.Players[0].Chips, h.Players[1].Chips, h.Players[2].Chips)
	}
	assertConservation(t, h, 2030)
}

func TestAllInUnderRaiseDoesNotReopenAction(t *testing.T) {
	t.Parallel()

	h := threeHanded(t, 1000, 55, 1000)
	must(t, h.SubmitAction("Alice", Raise, 40))
	// Bob shoves for 55: more than the current bet but below the minimum
	// re-raise of 60. Legal only because it is his whole stack.
	must(t, h.SubmitAction("Bob", Raise, 55))
	if !h.Players[1].AllIn {
		t.Fatal("expected Bob all-in")
	}
	if h.Betting.CurrentBet != 55 {
		t.Errorf("current bet should rise to 55, got %d", h.Betting.CurrentBet)
	}
	if h.Betting.MinRaise != 20 {
		t.Errorf("short shove must not change the minimum raise, got %d", h.Betting.MinRaise)
	}

	must(t, h.SubmitAction("Carol", Call, 0))
	// Alice already acted and the shove was not a full raise, so she may
	// only call or fold; her call closes the street.
	if err := h.SubmitAction("Alice", Raise, 120); !errors.Is(err, ErrIllegalRaiseSize) {
		t.Fatalf("re-raise after an un-reopened shove: expected ErrIllegalRaiseSize, got %v", err)
	}
	must(t, h.SubmitAction("Alice", Call, 0))
	if h.Phase() != Flop {
		t.Errorf("expected flop, got %s", h.Phase())
	}
	if h.PotTotal() != 165 {
		t.Errorf("expected pot 165, got %d", h.PotTotal())
	}
}

func TestHeadsUpDoubleAllInRunsOut(t *testing.T) {
	t.Parallel()

	h := riggedHand(t, testSeats(100, 100), 0,
		"As", "Ah", // Bob, left of the button
		"Ks", "Kh", // Alice
		"2c", "7d", "9h", "3s", "5c",
	)
	must(t, h.SubmitAction("Alice", Raise, 100))
	must(t, h.SubmitAction("Bob", Call, 0))

	// With nobody left to act the board runs out automatically.
	if h.Phase() != Settled {
		t.Fatalf("expected settled, got %s", h.Phase())
	}
	if len(h.Community) != 5 {
		t.Errorf("expected a full board, got %d cards", len(h.Community))
	}
	if got := h.Result().WonBy("Bob"); got != 200 {
		t.Errorf("Bob should scoop 200, got %d", got)
	}
	assertConservation(t, h, 200)
}

func TestForceFoldLeavesAllInPlayerLive(t *testing.T) {
	t.Parallel()

	h := threeHanded(t, 1000, 30, 1000)
	must(t, h.SubmitAction("Alice", Raise, 100))
	must(t, h.SubmitAction("Bob", Call, 0))
	must(t, h.SubmitAction("Carol", Call, 0))

	// Bob disconnects while all-in; his committed chips stay in play.
	must(t, h.ForceFold("Bob"))
	if h.Players[1].Folded {
		t.Fatal("all-in player must not be folded")
	}

	for h.Phase().IsStreet() {
		must(t, h.SubmitAction(h.Players[h.Active].ID, Check, 0))
	}
	if got := h.Result().WonBy("Bob"); got != 90 {
		t.Errorf("Bob's aces should still win the main pot, got %d", got)
	}
}

func TestForceFoldOutOfTurn(t *testing.T) {
	t.Parallel()

	h := threeHanded(t)
	must(t, h.ForceFold("Bob"))
	if !h.Players[1].Folded {
		t.Fatal("expected Bob folded")
	}
	if h.Active != 0 {
		t.Errorf("turn should stay with seat 0, got %d", h.Active)
	}

	must(t, h.SubmitAction("Alice", Call, 0))
	must(t, h.SubmitAction("Carol", Check, 0))
	if h.Phase() != Flop {
		t.Errorf("expected flop, got %s", h.Phase())
	}
}

func TestForceFoldActivePlayerAdvancesTurn(t *testing.T) {
	t.Parallel()

	h := threeHanded(t)
	must(t, h.ForceFold("Alice"))
	if h.Active != 1 {
		t.Errorf("expected turn to pass to seat 1, got %d", h.Active)
	}
}

func TestHoleCardVisibility(t *testing.T) {
	t.Parallel()

	h := threeHanded(t)

	own := h.PublicView("Alice")
	for _, p := range own.Players {
		if p.ID == "Alice" && len(p.HoleCards) != 2 {
			t.Error("viewer must see their own hole cards")
		}
		if p.ID != "Alice" && len(p.HoleCards) != 0 {
			t.Errorf("viewer must not see %s's hole cards", p.ID)
		}
	}

	spectator := h.PublicView("")
	for _, p := range spectator.Players {
		if len(p.HoleCards) != 0 {
			t.Errorf("spectator must not see %s's hole cards", p.ID)
		}
	}

	// Run the hand to showdown with one fold along the way.
	must(t, h.SubmitAction("Alice", Fold, 0))
	must(t, h.SubmitAction("Bob", Call, 0))
	must(t, h.SubmitAction("Carol", Check, 0))
	for h.Phase().IsStreet() {
		must(t, h.SubmitAction(h.Players[h.Active].ID, Check, 0))
	}

	final := h.PublicView("")
	for _, p := range final.Players {
		switch p.ID {
		case "Alice":
			if len(p.HoleCards) != 0 {
				t.Error("folded player's hole cards must stay hidden")
			}
		default:
			if len(p.HoleCards) != 2 {
				t.Errorf("%s's hole cards must be revealed at showdown", p.ID)
			}
		}
	}
}

func TestBlindOverrides(t *testing.T) {
	t.Parallel()

	h, err := NewHand(nil, testSeats(1000, 1000, 1000), 0, WithBlinds(25, 50))
	if err != nil {
		t.Fatal(err)
	}
	if h.Players[1].TotalBet != 25 || h.Players[2].TotalBet != 50 {
		t.Errorf("blinds not applied: got %d/%d", h.Players[1].TotalBet, h.Players[2].TotalBet)
	}
	if h.Betting.MinRaise != 50 {
		t.Errorf("minimum raise should equal the big blind, got %d", h.Betting.MinRaise)
	}
}

func TestRosterValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewHand(nil, testSeats(1000), 0); err == nil {
		t.Error("one player must be rejected")
	}
	if _, err := NewHand(nil, testSeats(1000, 1000, 1000, 1000, 1000), 0); err == nil {
		t.Error("five players must be rejected")
	}
	if _, err := NewHand(nil, testSeats(1000, 1000), 5); err == nil {
		t.Error("out-of-range button must be rejected")
	}
	if _, err := NewHand(nil, []Seat{{ID: "a", Chips: 0}, {ID: "b", Chips: 100}}, 0); err == nil {
		t.Error("zero-chip player must be rejected")
	}
}
