// Package hand ranks poker hands. Evaluate maps any 5- to 7-card set to
// a totally ordered Strength: category first, then the category-defining
// ranks, then kickers. Evaluation is pure; it never touches game state.
package hand

import (
	"fmt"
	"sort"

	"github.com/pokerhall/holdem/internal/deck"
)

// Category enumerates hand categories from weakest to strongest.
type Category int

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
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
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Strength is a totally ordered hand value. Tiebreaks hold the
// category-defining rank values followed by kickers, highest
// significance first. Two hands of the same category always carry the
// same number of tiebreak values.
type Strength struct {
	Category  Category
	Tiebreaks []int
}

// Compare returns a negative number if s is weaker than other, zero if
// equal, and a positive number if stronger.
func (s Strength) Compare(other Strength) int {
	if s.Category != other.Category {
		return int(s.Category) - int(other.Category)
	}
	for i := 0; i < len(s.Tiebreaks) && i < len(other.Tiebreaks); i++ {
		if s.Tiebreaks[i] != other.Tiebreaks[i] {
			return s.Tiebreaks[i] - other.Tiebreaks[i]
		}
	}
	return 0
}

// Evaluate ranks a set of 5 to 7 cards, checking categories from
// strongest to weakest so the first match wins.
func Evaluate(cards []deck.Card) (Strength, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return Strength{}, fmt.Errorf("hand: need 5 to 7 cards, got %d", len(cards))
	}

	rankCounts := make(map[int]int)
	suited := make(map[deck.Suit][]int)
	for _, c := range cards {
		rankCounts[c.Rank.Value()]++
		suited[c.Suit] = append(suited[c.Suit], c.Rank.Value())
	}

	// Straight flush / royal flush: straight test within a 5+ card suit.
	for _, values := range suited {
		if len(values) < 5 {
			continue
		}
		if high, ok := straightHigh(values); ok {
			if high == deck.Ace.Value() {
				return Strength{Category: RoyalFlush, Tiebreaks: []int{high}}, nil
			}
			return Strength{Category: StraightFlush, Tiebreaks: []int{high}}, nil
		}
	}

	if quad, ok := rankWithCount(rankCounts, 4); ok {
		kickers := topValues(rankCounts, 1, quad)
		return Strength{Category: FourOfAKind, Tiebreaks: append([]int{quad}, kickers...)}, nil
	}

	if trip, pair, ok := fullHouseRanks(rankCounts); ok {
		return Strength{Category: FullHouse, Tiebreaks: []int{trip, pair}}, nil
	}

	for _, values := range suited {
		if len(values) >= 5 {
			sort.Sort(sort.Reverse(sort.IntSlice(values)))
			return Strength{Category: Flush, Tiebreaks: values[:5]}, nil
		}
	}

	allValues := make([]int, 0, len(rankCounts))
	for v := range rankCounts {
		allValues = append(allValues, v)
	}
	if high, ok := straightHigh(allValues); ok {
		return Strength{Category: Straight, Tiebreaks: []int{high}}, nil
	}

	if trip, ok := rankWithCount(rankCounts, 3); ok {
		kickers := topValues(rankCounts, 2, trip)
		return Strength{Category: ThreeOfAKind, Tiebreaks: append([]int{trip}, kickers...)}, nil
	}

	pairs := ranksWithCount(rankCounts, 2)
	if len(pairs) >= 2 {
		kickers := topValues(rankCounts, 1, pairs[0], pairs[1])
		return Strength{Category: TwoPair, Tiebreaks: append([]int{pairs[0], pairs[1]}, kickers...)}, nil
	}
	if len(pairs) == 1 {
		kickers := topValues(rankCounts, 3, pairs[0])
		return Strength{Category: OnePair, Tiebreaks: append([]int{pairs[0]}, kickers...)}, nil
	}

	return Strength{Category: HighCard, Tiebreaks: topValues(rankCounts, 5)}, nil
}

// straightHigh reports the highest top card of any 5-run among the
// given rank values. Duplicates collapse; the wheel (A-2-3-4-5) counts
// as a 5-high straight.
func straightHigh(values []int) (int, bool) {
	unique := make(map[int]bool, len(values))
	for _, v := range values {
		unique[v] = true
	}

	best := 0
	for high := deck.Ace.Value(); high >= 6; high-- {
		run := true
		for v := high; v > high-5; v-- {
			if !unique[v] {
				run = false
				break
			}
		}
		if run {
			best = high
			break
		}
	}

	if best == 0 && unique[deck.Ace.Value()] && unique[2] && unique[3] && unique[4] && unique[5] {
		best = 5
	}

	return best, best != 0
}

// rankWithCount returns the highest rank value appearing at least n
// times.
func rankWithCount(counts map[int]int, n int) (int, bool) {
	best := 0
	for v, c := range counts {
		if c >= n && v > best {
			best = v
		}
	}
	return best, best != 0
}

// ranksWithCount returns all rank values appearing at least n times,
// highest first. A triple also qualifies as a pair here; fullHouseRanks
// runs before any caller that would care.
func ranksWithCount(counts map[int]int, n int) []int {
	var out []int
	for v, c := range counts {
		if c >= n {
			out = append(out, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// fullHouseRanks finds the best trip plus a distinct pair (which may
// itself be a second trip).
func fullHouseRanks(counts map[int]int) (trip, pair int, ok bool) {
	trips := ranksWithCount(counts, 3)
	if len(trips) == 0 {
		return 0, 0, false
	}
	trip = trips[0]

	for _, v := range ranksWithCount(counts, 2) {
		if v != trip && v > pair {
			pair = v
		}
	}
	if pair == 0 {
		return 0, 0, false
	}
	return trip, pair, true
}

// topValues returns the n highest rank values not in exclude, counting
// duplicates once per copy held.
func topValues(counts map[int]int, n int, exclude ...int) []int {
	excluded := make(map[int]bool, len(exclude))
	for _, v := range exclude {
		excluded[v] = true
	}

	var pool []int
	for v, c := range counts {
		if excluded[v] {
			continue
		}
		for i := 0; i < c; i++ {
			pool = append(pool, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(pool)))
	if len(pool) > n {
		pool = pool[:n]
	}
	return pool
}
