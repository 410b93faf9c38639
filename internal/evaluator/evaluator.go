// Package evaluator ranks poker hands of five to seven cards. Evaluation is
// a pure function of the card set, so identical inputs always produce the
// same rank and tied hands compare equal for split-pot detection.
package evaluator

import (
	"errors"
	"sort"

	"github.com/cardroom/holdem/internal/deck"
)

// ErrInvalidInput is returned for hands with fewer than five cards, more
// than seven, or duplicate cards.
var ErrInvalidInput = errors.New("invalid hand input")

// Category enumerates hand categories from weakest to strongest.
type Category uint8

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Rank is a totally ordered hand strength. Higher values are stronger.
// The category occupies the top bits so any hand of a stronger category
// beats any hand of a weaker one; below it sit up to five 4-bit kicker
// slots in significance order.
type Rank uint32

// Category returns the hand category encoded in the rank.
func (r Rank) Category() Category {
	return Category(r >> 20)
}

// String describes the rank by its category.
func (r Rank) String() string {
	return r.Category().String()
}

// Compare returns 1 if a is stronger, -1 if b is stronger, 0 on a tie.
func Compare(a, b Rank) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// pack encodes a category and its tiebreak ranks (card rank values,
// most significant first) into a comparable Rank.
func pack(cat Category, tiebreaks ...deck.Rank) Rank {
	r := Rank(cat) << 20
	shift := 16
	for _, t := range tiebreaks {
		r |= Rank(t-deck.Two) << shift
		shift -= 4
	}
	return r
}

// Evaluate returns the rank of the best five-card hand contained in the
// given five to seven cards.
func Evaluate(cards []deck.Card) (Rank, error) {
	_, rank, err := BestFive(cards)
	return rank, err
}

// BestFive returns the best five-card subset alongside its rank. The
// returned cards justify a pot award at showdown.
func BestFive(cards []deck.Card) ([]deck.Card, Rank, error) {
	if err := validate(cards); err != nil {
		return nil, 0, err
	}

	if len(cards) == 5 {
		five := make([]deck.Card, 5)
		copy(five, cards)
		return five, evaluateFive(five), nil
	}

	var (
		best     Rank
		bestHand []deck.Card
		subset   = make([]deck.Card, 5)
	)
	forEachFive(cards, subset, func(five []deck.Card) {
		rank := evaluateFive(five)
		if bestHand == nil || rank > best {
			best = rank
			bestHand = append(bestHand[:0], five...)
		}
	})
	return bestHand, best, nil
}

func validate(cards []deck.Card) error {
	if len(cards) < 5 || len(cards) > 7 {
		return ErrInvalidInput
	}
	var seen uint64
	for _, c := range cards {
		bit := uint64(1) << c.Index()
		if seen&bit != 0 {
			return ErrInvalidInput
		}
		seen |= bit
	}
	return nil
}

// forEachFive invokes fn for every 5-card subset of cards (6 or 7 cards in).
func forEachFive(cards, scratch []deck.Card, fn func([]deck.Card)) {
	n := len(cards)
	for i := 0; i < n-4; i++ {
		for j := i + 1; j < n-3; j++ {
			for k := j + 1; k < n-2; k++ {
				for l := k + 1; l < n-1; l++ {
					for m := l + 1; m < n; m++ {
						scratch[0] = cards[i]
						scratch[1] = cards[j]
						scratch[2] = cards[k]
						scratch[3] = cards[l]
						scratch[4] = cards[m]
						fn(scratch)
					}
				}
			}
		}
	}
}

// evaluateFive categorizes exactly five cards.
func evaluateFive(cards []deck.Card) Rank {
	ranks := make([]deck.Rank, 5)
	flush := true
	for i, c := range cards {
		ranks[i] = c.Rank
		if c.Suit != cards[0].Suit {
			flush = false
		}
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })

	straightHigh, isStraight := straightHigh(ranks)

	if flush && isStraight {
		return pack(StraightFlush, straightHigh)
	}

	// Group ranks by multiplicity, groups ordered by count then rank.
	type group struct {
		rank  deck.Rank
		count int
	}
	var groups []group
	for i := 0; i < 5; {
		j := i
		for j < 5 && ranks[j] == ranks[i] {
			j++
		}
		groups = append(groups, group{rank: ranks[i], count: j - i})
		i = j
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	switch {
	case groups[0].count == 4:
		return pack(FourOfAKind, groups[0].rank, groups[1].rank)
	case groups[0].count == 3 && groups[1].count == 2:
		return pack(FullHouse, groups[0].rank, groups[1].rank)
	case flush:
		return pack(Flush, ranks[0], ranks[1], ranks[2], ranks[3], ranks[4])
	case isStraight:
		return pack(Straight, straightHigh)
	case groups[0].count == 3:
		return pack(ThreeOfAKind, groups[0].rank, groups[1].rank, groups[2].rank)
	case groups[0].count == 2 && groups[1].count == 2:
		return pack(TwoPair, groups[0].rank, groups[1].rank, groups[2].rank)
	case groups[0].count == 2:
		return pack(Pair, groups[0].rank, groups[1].rank, groups[2].rank, groups[3].rank)
	default:
		return pack(HighCard, ranks[0], ranks[1], ranks[2], ranks[3], ranks[4])
	}
}

// straightHigh reports whether the descending-sorted ranks form a straight
// and returns its high card. The wheel (A-5-4-3-2) counts the ace as low,
// so its high card is the five.
func straightHigh(ranks []deck.Rank) (deck.Rank, bool) {
	// Wheel check first: A,5,4,3,2 sorted descending.
	if ranks[0] == deck.Ace && ranks[1] == deck.Five && ranks[2] == deck.Four &&
		ranks[3] == deck.Three && ranks[4] == deck.Two {
		return deck.Five, true
	}
	for i := 1; i < 5; i++ {
		if ranks[i] != ranks[i-1]-1 {
			return 0, false
		}
	}
	return ranks[0], true
}
