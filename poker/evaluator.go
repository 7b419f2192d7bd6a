package poker

import (
	"fmt"
	"sort"
)

// Category enumerates hand categories ordered from weakest to strongest
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

// String returns a human-readable category name
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

// HandValue is the total ordering over poker hands: a category plus kicker
// tiebreak values compared lexicographically. Two equal HandValues are a
// genuine split.
type HandValue struct {
	Category  Category
	Tiebreaks []Rank
}

// Compare returns >0 if hv beats other, <0 if other beats hv, 0 on a split
func (hv HandValue) Compare(other HandValue) int {
	if hv.Category != other.Category {
		return int(hv.Category) - int(other.Category)
	}
	for i := 0; i < len(hv.Tiebreaks) && i < len(other.Tiebreaks); i++ {
		if hv.Tiebreaks[i] != other.Tiebreaks[i] {
			return int(hv.Tiebreaks[i]) - int(other.Tiebreaks[i])
		}
	}
	return 0
}

// String describes the hand the way a dealer would announce it
func (hv HandValue) String() string {
	if len(hv.Tiebreaks) == 0 {
		return hv.Category.String()
	}
	top := hv.Tiebreaks[0]
	switch hv.Category {
	case StraightFlush:
		if top == Ace {
			return "Royal Flush"
		}
		return fmt.Sprintf("Straight Flush, %s high", top.Noun())
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", top.Name())
	case FullHouse:
		return fmt.Sprintf("Full House, %s over %s", top.Name(), hv.Tiebreaks[1].Name())
	case Flush:
		return fmt.Sprintf("Flush, %s high", top.Noun())
	case Straight:
		return fmt.Sprintf("Straight, %s high", top.Noun())
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", top.Name())
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", top.Name(), hv.Tiebreaks[1].Name())
	case Pair:
		return fmt.Sprintf("Pair of %s", top.Name())
	default:
		return fmt.Sprintf("%s high", top.Noun())
	}
}

// Evaluate finds the best 5-card hand among 5 to 7 cards. It is a pure
// function over immutable card values.
func Evaluate(cards []Card) (HandValue, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return HandValue{}, fmt.Errorf("poker: evaluate needs 5-7 cards, got %d", len(cards))
	}

	best := HandValue{}
	first := true

	var combo [5]Card
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == 5 {
			hv := evaluateFive(combo)
			if first || hv.Compare(best) > 0 {
				best = hv
				first = false
			}
			return
		}
		for i := start; i <= len(cards)-(5-depth); i++ {
			combo[depth] = cards[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)

	return best, nil
}

// evaluateFive categorises exactly five cards
func evaluateFive(cards [5]Card) HandValue {
	ranks := make([]Rank, 5)
	flush := true
	for i, c := range cards {
		ranks[i] = c.Rank
		if c.Suit != cards[0].Suit {
			flush = false
		}
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] > ranks[j] })

	straight := isStraight(ranks)
	// Wheel: the ace plays low in A-2-3-4-5
	if ranks[0] == Ace && ranks[1] == Five && ranks[2] == Four && ranks[3] == Three && ranks[4] == Two {
		straight = true
		ranks = []Rank{Five, Four, Three, Two, 1}
	}

	counts := make(map[Rank]int, 5)
	for _, r := range ranks {
		counts[r]++
	}

	// Ranks ordered by multiplicity, then rank, descending. This yields the
	// tiebreak order directly: trips before pair in a full house, pairs
	// before kicker in two pair, and so on.
	grouped := make([]Rank, 0, len(counts))
	for r := range counts {
		grouped = append(grouped, r)
	}
	sort.Slice(grouped, func(i, j int) bool {
		if counts[grouped[i]] != counts[grouped[j]] {
			return counts[grouped[i]] > counts[grouped[j]]
		}
		return grouped[i] > grouped[j]
	})

	shape := make([]int, 0, len(grouped))
	for _, r := range grouped {
		shape = append(shape, counts[r])
	}

	switch {
	case straight && flush:
		return HandValue{StraightFlush, ranks[:1]}
	case shapeIs(shape, 4, 1):
		return HandValue{FourOfAKind, grouped}
	case shapeIs(shape, 3, 2):
		return HandValue{FullHouse, grouped}
	case flush:
		return HandValue{Flush, ranks}
	case straight:
		return HandValue{Straight, ranks[:1]}
	case shapeIs(shape, 3, 1, 1):
		return HandValue{ThreeOfAKind, grouped}
	case shapeIs(shape, 2, 2, 1):
		return HandValue{TwoPair, grouped}
	case shapeIs(shape, 2, 1, 1, 1):
		return HandValue{Pair, grouped}
	default:
		return HandValue{HighCard, ranks}
	}
}

// isStraight reports whether descending-sorted ranks are consecutive
func isStraight(ranks []Rank) bool {
	for i := 0; i < len(ranks)-1; i++ {
		if ranks[i]-ranks[i+1] != 1 {
			return false
		}
	}
	return true
}

func shapeIs(shape []int, want ...int) bool {
	if len(shape) != len(want) {
		return false
	}
	for i := range shape {
		if shape[i] != want[i] {
			return false
		}
	}
	return true
}
