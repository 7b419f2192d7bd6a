package poker

import (
	"testing"

	ph "github.com/paulhankin/poker"
	"github.com/stretchr/testify/require"

	"github.com/feltarena/feltarena/internal/randutil"
)

func mustEval(t *testing.T, codes ...string) HandValue {
	t.Helper()
	hv, err := Evaluate(MustParseCards(codes...))
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	return hv
}

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cards    []string
		category Category
		top      Rank
	}{
		{"royal flush from seven", []string{"Ah", "Kh", "Qh", "Jh", "Th", "2c", "3d"}, StraightFlush, Ace},
		{"straight flush six high", []string{"2s", "3s", "4s", "5s", "6s"}, StraightFlush, Six},
		{"four of a kind", []string{"9c", "9d", "9h", "9s", "Kd", "2c", "3c"}, FourOfAKind, Nine},
		{"full house twos over fives", []string{"2c", "2d", "2h", "5s", "5c", "9h", "Kd"}, FullHouse, Two},
		{"flush beats straight", []string{"2h", "5h", "9h", "Jh", "Kh", "Qd", "Tc"}, Flush, King},
		{"broadway straight", []string{"Ah", "Kd", "Qc", "Js", "Th", "2c", "2d"}, Straight, Ace},
		{"wheel straight", []string{"Ah", "2d", "3c", "4s", "5h", "9c", "Kd"}, Straight, Five},
		{"three of a kind", []string{"7c", "7d", "7h", "2s", "9c", "Jd", "Kh"}, ThreeOfAKind, Seven},
		{"two pair", []string{"7c", "7d", "9h", "9s", "2c", "Jd", "Kh"}, TwoPair, Nine},
		{"one pair", []string{"7c", "7d", "2h", "9s", "4c", "Jd", "Kh"}, Pair, Seven},
		{"high card", []string{"2c", "4d", "6h", "8s", "Tc", "Qd", "Ah"}, HighCard, Ace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hv := mustEval(t, tt.cards...)
			if hv.Category != tt.category {
				t.Errorf("category = %v, want %v", hv.Category, tt.category)
			}
			if hv.Tiebreaks[0] != tt.top {
				t.Errorf("top tiebreak = %v, want %v", hv.Tiebreaks[0], tt.top)
			}
		})
	}
}

func TestEvaluateFullHouseTiebreaks(t *testing.T) {
	t.Parallel()

	hv := mustEval(t, "2c", "2d", "2h", "5s", "5c", "9h", "Kd")
	require.Equal(t, FullHouse, hv.Category)
	require.Equal(t, Two, hv.Tiebreaks[0], "trips rank")
	require.Equal(t, Five, hv.Tiebreaks[1], "pair rank")
	require.Equal(t, "Full House, Twos over Fives", hv.String())
}

func TestEvaluateWheelLosesToSixHigh(t *testing.T) {
	t.Parallel()

	wheel := mustEval(t, "Ah", "2d", "3c", "4s", "5h")
	sixHigh := mustEval(t, "2h", "3d", "4c", "5s", "6h")
	if wheel.Compare(sixHigh) >= 0 {
		t.Errorf("wheel should lose to six-high straight")
	}
}

func TestEvaluateTieIsGenuineSplit(t *testing.T) {
	t.Parallel()

	// Same board plays for both: board makes the best five for each seat
	board := []string{"Ah", "Kd", "Qc", "Js", "Tc"}
	a := mustEval(t, append([]string{"2c", "3d"}, board...)...)
	b := mustEval(t, append([]string{"4h", "5s"}, board...)...)
	if a.Compare(b) != 0 {
		t.Errorf("identical best fives must split, got %v vs %v", a, b)
	}
}

func TestEvaluateKickerDecides(t *testing.T) {
	t.Parallel()

	a := mustEval(t, "Ac", "Ad", "Kh", "9s", "2c")
	b := mustEval(t, "Ah", "As", "Qh", "9d", "2d")
	if a.Compare(b) <= 0 {
		t.Errorf("ace pair with king kicker should beat queen kicker")
	}
}

func TestEvaluateRejectsBadCounts(t *testing.T) {
	t.Parallel()

	if _, err := Evaluate(MustParseCards("Ah", "Kh", "Qh", "Jh")); err == nil {
		t.Error("expected error for 4 cards")
	}
	if _, err := Evaluate(nil); err == nil {
		t.Error("expected error for no cards")
	}
}

// toLibCard converts to the paulhankin/poker representation, which plays
// aces as rank 1.
func toLibCard(t *testing.T, c Card) ph.Card {
	t.Helper()
	var s ph.Suit
	switch c.Suit {
	case Clubs:
		s = ph.Club
	case Diamonds:
		s = ph.Diamond
	case Hearts:
		s = ph.Heart
	case Spades:
		s = ph.Spade
	}
	r := ph.Rank(c.Rank)
	if c.Rank == Ace {
		r = ph.Rank(1)
	}
	card, err := ph.MakeCard(s, r)
	require.NoError(t, err)
	return card
}

// TestEvaluateAgainstReferenceLibrary cross-checks our ordering against
// paulhankin/poker over random 7-card deals.
func TestEvaluateAgainstReferenceLibrary(t *testing.T) {
	t.Parallel()

	rng := randutil.New(7)
	for trial := 0; trial < 500; trial++ {
		deck := NewDeck(rng)
		handA, err := deck.Deal(7)
		require.NoError(t, err)
		handB, err := deck.Deal(7)
		require.NoError(t, err)

		a, err := Evaluate(handA)
		require.NoError(t, err)
		b, err := Evaluate(handB)
		require.NoError(t, err)

		var libA, libB [7]ph.Card
		for i := 0; i < 7; i++ {
			libA[i] = toLibCard(t, handA[i])
			libB[i] = toLibCard(t, handB[i])
		}
		scoreA := ph.Eval7(&libA)
		scoreB := ph.Eval7(&libB)

		got := sign(a.Compare(b))
		want := sign(int(scoreA) - int(scoreB))
		require.Equalf(t, want, got, "trial %d: %v vs %v", trial, CardCodes(handA), CardCodes(handB))
	}
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
