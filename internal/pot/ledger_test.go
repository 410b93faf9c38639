package pot

import (
	"testing"

	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/evaluator"
)

func rankOf(t *testing.T, cards ...string) evaluator.Rank {
	t.Helper()
	cs, err := deck.ParseCards(cards...)
	if err != nil {
		t.Fatal(err)
	}
	rank, err := evaluator.Evaluate(cs)
	if err != nil {
		t.Fatal(err)
	}
	return rank
}

func TestBuildPotsSingleLevel(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	l.Record("a", 100)
	l.Record("b", 100)
	l.Record("c", 100)

	pots := l.BuildPots(nil)
	if len(pots) != 1 {
		t.Fatalf("expected 1 pot, got %d", len(pots))
	}
	if pots[0].Amount != 300 {
		t.Errorf("expected 300, got %d", pots[0].Amount)
	}
	if len(pots[0].Eligible) != 3 {
		t.Errorf("expected 3 eligible, got %d", len(pots[0].Eligible))
	}
}

func TestBuildPotsAllInSidePot(t *testing.T) {
	t.Parallel()

	// a is all-in for 30, b and c continued to 100.
	l := NewLedger()
	l.Record("a", 30)
	l.Record("b", 100)
	l.Record("c", 100)

	pots := l.BuildPots(nil)
	if len(pots) != 2 {
		t.Fatalf("expected 2 pots, got %d", len(pots))
	}
	if pots[0].Amount != 90 || len(pots[0].Eligible) != 3 {
		t.Errorf("main pot: expected 90 for 3, got %d for %d", pots[0].Amount, len(pots[0].Eligible))
	}
	if pots[1].Amount != 140 || len(pots[1].Eligible) != 2 {
		t.Errorf("side pot: expected 140 for 2, got %d for %d", pots[1].Amount, len(pots[1].Eligible))
	}

	// Conservation: layers always sum to the contributions.
	if pots[0].Amount+pots[1].Amount != l.Total() {
		t.Errorf("pots sum %d != total %d", pots[0].Amount+pots[1].Amount, l.Total())
	}
}

func TestBuildPotsFoldedChipsStayCaptured(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	l.Record("a", 100)
	l.Record("b", 50)
	l.Record("c", 50)

	pots := l.BuildPots(map[string]bool{"b": true})
	total := 0
	for _, p := range pots {
		total += p.Amount
		for _, id := range p.Eligible {
			if id == "b" {
				t.Error("folded player must not be eligible")
			}
		}
	}
	if total != 200 {
		t.Errorf("folded chips lost: got %d, want 200", total)
	}
}

func TestBuildPotsNestedEligibility(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	l.Record("a", 25)
	l.Record("b", 75)
	l.Record("c", 200)
	l.Record("d", 200)

	pots := l.BuildPots(nil)
	if len(pots) != 3 {
		t.Fatalf("expected 3 pots, got %d", len(pots))
	}
	// Each layer's eligible set must be a subset of the layer below it.
	for i := 1; i < len(pots); i++ {
		prev := make(map[string]bool)
		for _, id := range pots[i-1].Eligible {
			prev[id] = true
		}
		for _, id := range pots[i].Eligible {
			if !prev[id] {
				t.Errorf("pot %d eligible %s missing from pot %d", i, id, i-1)
			}
		}
	}
	if pots[0].Amount != 100 || pots[1].Amount != 150 || pots[2].Amount != 250 {
		t.Errorf("unexpected layer amounts: %d %d %d", pots[0].Amount, pots[1].Amount, pots[2].Amount)
	}
}

func TestBuildPotsMergesEqualEligibleSets(t *testing.T) {
	t.Parallel()

	// b folded after contributing less than a and c; the layer above b's
	// level has the same eligible set and should merge.
	l := NewLedger()
	l.Record("a", 100)
	l.Record("b", 40)
	l.Record("c", 100)

	pots := l.BuildPots(map[string]bool{"b": true})
	if len(pots) != 1 {
		t.Fatalf("expected merged single pot, got %d", len(pots))
	}
	if pots[0].Amount != 240 {
		t.Errorf("expected 240, got %d", pots[0].Amount)
	}
}

func TestAwardSplitsTiesWithOddChip(t *testing.T) {
	t.Parallel()

	pots := []Pot{{Amount: 25, Eligible: []string{"a", "b"}}}
	ranks := map[string]evaluator.Rank{
		"a": rankOf(t, "As", "Kd", "9h", "6c", "2s"),
		"b": rankOf(t, "Ah", "Kc", "9s", "6d", "2h"),
	}

	// b sits first clockwise from the button, so b gets the odd chip.
	payouts := Award(pots, ranks, []string{"b", "a"})
	got := map[string]int{}
	for _, p := range payouts {
		got[p.PlayerID] += p.Amount
	}
	if got["b"] != 13 || got["a"] != 12 {
		t.Errorf("expected b=13 a=12, got %v", got)
	}
}

func TestAwardBestRankTakesPot(t *testing.T) {
	t.Parallel()

	pots := []Pot{{Amount: 300, Eligible: []string{"a", "b", "c"}}}
	ranks := map[string]evaluator.Rank{
		"a": rankOf(t, "As", "Ad", "9h", "6c", "2s"), // pair of aces
		"b": rankOf(t, "Ks", "Kd", "Kh", "6c", "2h"), // trip kings
		"c": rankOf(t, "Qs", "Jd", "9c", "6d", "2c"), // high card
	}

	payouts := Award(pots, ranks, []string{"a", "b", "c"})
	if len(payouts) != 1 || payouts[0].PlayerID != "b" || payouts[0].Amount != 300 {
		t.Errorf("expected b to win 300, got %v", payouts)
	}
}

func TestAwardPerPotIndependence(t *testing.T) {
	t.Parallel()

	// a (all-in, best hand) wins the main pot only; b beats c for the side.
	pots := []Pot{
		{Amount: 90, Eligible: []string{"a", "b", "c"}},
		{Amount: 140, Eligible: []string{"b", "c"}},
	}
	ranks := map[string]evaluator.Rank{
		"a": rankOf(t, "As", "Ad", "9h", "6c", "2s"),
		"b": rankOf(t, "Ks", "Kd", "9d", "6h", "2h"),
		"c": rankOf(t, "Qs", "Qd", "9c", "6d", "2c"),
	}

	payouts := Award(pots, ranks, []string{"a", "b", "c"})
	got := map[string]int{}
	for _, p := range payouts {
		got[p.PlayerID] += p.Amount
	}
	if got["a"] != 90 || got["b"] != 140 || got["c"] != 0 {
		t.Errorf("expected a=90 b=140, got %v", got)
	}
}

func TestAwardSingleEligibleNeedsNoRank(t *testing.T) {
	t.Parallel()

	// The single-survivor case: no rank map entries at all.
	pots := []Pot{{Amount: 60, Eligible: []string{"a"}}}
	payouts := Award(pots, nil, []string{"a"})
	if len(payouts) != 1 || payouts[0].PlayerID != "a" || payouts[0].Amount != 60 {
		t.Errorf("expected sole eligible to collect, got %v", payouts)
	}
}
