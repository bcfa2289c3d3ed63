// Package evaluator maps 5 to 7 cards to a totally ordered hand strength.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/pokerroom/holdem/internal/deck"
)

// Category is the coarse class of a poker hand, ordered weakest to strongest
type Category int

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
	RoyalFlush
)

// String returns a human-readable hand description
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
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

// Strength is a comparable hand strength: category first, then the
// tiebreak ranks compared element-wise. Higher wins.
type Strength struct {
	Category  Category
	Tiebreaks []int
}

// Compare returns 1 if a beats b, -1 if b beats a, 0 for a tie
func Compare(a, b Strength) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(a.Tiebreaks) && i < len(b.Tiebreaks); i++ {
		if a.Tiebreaks[i] != b.Tiebreaks[i] {
			if a.Tiebreaks[i] > b.Tiebreaks[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Evaluate returns the strength of the best 5-card hand makeable from the
// given 5 to 7 cards. The result is deterministic and independent of the
// input ordering.
func Evaluate(cards []deck.Card) Strength {
	if len(cards) < 5 || len(cards) > 7 {
		panic(fmt.Sprintf("evaluate requires 5 to 7 cards, got %d", len(cards)))
	}

	rankCounts := make(map[int]int)
	suitCounts := make(map[deck.Suit]int)
	for _, c := range cards {
		rankCounts[c.Value()]++
		suitCounts[c.Suit]++
	}

	flushSuit, isFlush := findFlushSuit(suitCounts)

	uniqueRanks := distinctRanksDescending(rankCounts)
	straightHigh, isStraight := findStraightHigh(uniqueRanks)

	// Straight flush first: the straight test restricted to the flush suit
	if isFlush {
		if sfHigh, ok := findStraightHigh(suitRanksDescending(cards, flushSuit)); ok {
			if sfHigh == 14 {
				return Strength{Category: RoyalFlush, Tiebreaks: []int{14}}
			}
			return Strength{Category: StraightFlush, Tiebreaks: []int{sfHigh}}
		}
	}

	if quad, ok := highestRankWithCount(rankCounts, 4); ok {
		kicker := highestRankExcluding(uniqueRanks, quad)
		return Strength{Category: FourOfAKind, Tiebreaks: []int{quad, kicker}}
	}

	if trips, ok := highestRankWithCount(rankCounts, 3); ok {
		// Full house pairs the trips with the highest other rank holding
		// at least two cards
		if pair, ok := highestRankWithAtLeast(rankCounts, 2, trips); ok {
			return Strength{Category: FullHouse, Tiebreaks: []int{trips, pair}}
		}
	}

	if isFlush {
		return Strength{Category: Flush, Tiebreaks: suitRanksDescending(cards, flushSuit)[:5]}
	}

	if isStraight {
		return Strength{Category: Straight, Tiebreaks: []int{straightHigh}}
	}

	if trips, ok := highestRankWithCount(rankCounts, 3); ok {
		kickers := topKickers(uniqueRanks, []int{trips}, 2)
		return Strength{Category: ThreeOfAKind, Tiebreaks: append([]int{trips}, kickers...)}
	}

	if highPair, ok := highestRankWithCount(rankCounts, 2); ok {
		if lowPair, ok := highestRankWithAtLeast(rankCounts, 2, highPair); ok {
			kickers := topKickers(uniqueRanks, []int{highPair, lowPair}, 1)
			return Strength{Category: TwoPair, Tiebreaks: append([]int{highPair, lowPair}, kickers...)}
		}
		kickers := topKickers(uniqueRanks, []int{highPair}, 3)
		return Strength{Category: Pair, Tiebreaks: append([]int{highPair}, kickers...)}
	}

	return Strength{Category: HighCard, Tiebreaks: uniqueRanks[:5]}
}

// findFlushSuit returns the suit with at least five cards, if any
func findFlushSuit(suitCounts map[deck.Suit]int) (deck.Suit, bool) {
	for suit, count := range suitCounts {
		if count >= 5 {
			return suit, true
		}
	}
	return 0, false
}

// distinctRanksDescending returns the distinct rank values, highest first
func distinctRanksDescending(rankCounts map[int]int) []int {
	ranks := make([]int, 0, len(rankCounts))
	for r := range rankCounts {
		ranks = append(ranks, r)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))
	return ranks
}

// suitRanksDescending returns the distinct ranks of a single suit, highest
// first. Distinctness is free here since a suit holds one card per rank.
func suitRanksDescending(cards []deck.Card, suit deck.Suit) []int {
	var ranks []int
	for _, c := range cards {
		if c.Suit == suit {
			ranks = append(ranks, c.Value())
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))
	return ranks
}

// findStraightHigh scans distinct descending ranks for five consecutive
// values and returns the straight's high card. The wheel (A-2-3-4-5)
// counts as a 5-high straight.
func findStraightHigh(ranks []int) (int, bool) {
	for i := 0; i+4 < len(ranks); i++ {
		if ranks[i]-ranks[i+4] == 4 {
			return ranks[i], true
		}
	}

	has := func(v int) bool {
		for _, r := range ranks {
			if r == v {
				return true
			}
		}
		return false
	}
	if has(14) && has(2) && has(3) && has(4) && has(5) {
		return 5, true
	}
	return 0, false
}

// highestRankWithCount returns the highest rank appearing exactly n times
func highestRankWithCount(rankCounts map[int]int, n int) (int, bool) {
	best := 0
	for r, c := range rankCounts {
		if c == n && r > best {
			best = r
		}
	}
	return best, best > 0
}

// highestRankWithAtLeast returns the highest rank other than excluded
// appearing at least n times
func highestRankWithAtLeast(rankCounts map[int]int, n, excluded int) (int, bool) {
	best := 0
	for r, c := range rankCounts {
		if r != excluded && c >= n && r > best {
			best = r
		}
	}
	return best, best > 0
}

// highestRankExcluding returns the highest rank not equal to excluded
func highestRankExcluding(ranks []int, excluded int) int {
	for _, r := range ranks {
		if r != excluded {
			return r
		}
	}
	return 0
}

// topKickers returns the n highest ranks not present in used
func topKickers(ranks []int, used []int, n int) []int {
	isUsed := make(map[int]bool, len(used))
	for _, r := range used {
		isUsed[r] = true
	}

	kickers := make([]int, 0, n)
	for _, r := range ranks {
		if !isUsed[r] {
			kickers = append(kickers, r)
			if len(kickers) == n {
				break
			}
		}
	}
	return kickers
}
