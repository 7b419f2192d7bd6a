package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feltarena/feltarena/internal/randutil"
	"github.com/feltarena/feltarena/poker"
)

func testPlayers(chips ...int) []*Player {
	players := make([]*Player, len(chips))
	for i, c := range chips {
		players[i] = &Player{AgentID: []string{"alpha", "bravo", "charlie", "delta", "echo"}[i], Chips: c}
	}
	return players
}

func TestHandPostsBlindsAndDeals(t *testing.T) {
	t.Parallel()

	players := testPlayers(1000, 1000, 1000)
	h, err := NewHand("h1", randutil.New(1), players, 0, 5, 10)
	require.NoError(t, err)

	require.Equal(t, 995, players[1].Chips, "small blind posted")
	require.Equal(t, 990, players[2].Chips, "big blind posted")
	require.Equal(t, 10, h.Betting.CurrentBet)
	require.Equal(t, 0, h.ActivePlayer, "UTG is the button with three seats")

	for _, p := range players {
		require.Len(t, p.HoleCards, 2)
	}
	require.Equal(t, 3000, h.TotalChips())
}

func TestHandHeadsUpButtonPostsSmallBlindActsFirst(t *testing.T) {
	t.Parallel()

	players := testPlayers(1000, 1000)
	h, err := NewHand("h1", randutil.New(2), players, 1, 5, 10)
	require.NoError(t, err)

	require.Equal(t, 995, players[1].Chips, "button posts the small blind heads-up")
	require.Equal(t, 990, players[0].Chips)
	require.Equal(t, 1, h.ActivePlayer, "button acts first preflop heads-up")

	require.NoError(t, h.ProcessAction(Call, 0))
	require.NoError(t, h.ProcessAction(Check, 0))

	require.Equal(t, Flop, h.Street)
	require.Equal(t, 0, h.ActivePlayer, "big blind acts first postflop heads-up")
}

func TestHandWonByFoldRevealsNothing(t *testing.T) {
	t.Parallel()

	players := testPlayers(1000, 1000, 1000)
	h, err := NewHand("h1", randutil.New(3), players, 0, 5, 10)
	require.NoError(t, err)

	require.NoError(t, h.ProcessAction(Fold, 0))
	require.NoError(t, h.ProcessAction(Fold, 0))
	require.True(t, h.IsComplete())

	result, err := h.Settle()
	require.NoError(t, err)
	require.True(t, result.WonByFold)
	require.Empty(t, result.Revealed)
	require.Equal(t, []string{"charlie"}, result.Winners(players))
	require.Equal(t, 1005, players[2].Chips, "big blind collects the small blind")
	require.Equal(t, 3000, h.TotalChips())
}

func TestHandChipConservationThroughShowdown(t *testing.T) {
	t.Parallel()

	players := testPlayers(1000, 800, 1200)
	h, err := NewHand("h1", randutil.New(4), players, 1, 5, 10)
	require.NoError(t, err)
	entering := h.TotalChips()

	// Limp around, then check every street to showdown
	for !h.IsComplete() {
		valid := h.ValidActions()
		require.NotEmpty(t, valid)
		if _, ok := findValid(valid, Check); ok {
			require.NoError(t, h.ProcessAction(Check, 0))
		} else {
			require.NoError(t, h.ProcessAction(Call, 0))
		}
		require.Equal(t, entering, h.TotalChips(), "chips conserved after every action")
	}

	require.Equal(t, Showdown, h.Street)
	require.Len(t, h.Board, 5)

	result, err := h.Settle()
	require.NoError(t, err)
	require.Equal(t, entering, h.TotalChips())
	require.Len(t, result.Revealed, 3, "all live seats reveal at showdown")
	require.Equal(t, result.TotalAwarded(), 30)
}

func TestHandDealtCardsAreUnique(t *testing.T) {
	t.Parallel()

	players := testPlayers(1000, 1000, 1000, 1000, 1000)
	h, err := NewHand("h1", randutil.New(5), players, 2, 5, 10)
	require.NoError(t, err)

	for !h.IsComplete() {
		if _, ok := findValid(h.ValidActions(), Check); ok {
			require.NoError(t, h.ProcessAction(Check, 0))
		} else {
			require.NoError(t, h.ProcessAction(Call, 0))
		}
	}

	seen := map[poker.Card]bool{}
	for _, p := range players {
		for _, c := range p.HoleCards {
			require.False(t, seen[c], "duplicate card %s", c)
			seen[c] = true
		}
	}
	for _, c := range h.Board {
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	require.Len(t, seen, 15)
	// 10 hole cards + 3 burns + 5 board
	require.Equal(t, 52-18, h.Deck.CardsRemaining())
}

func TestHandOddChipGoesClockwiseFromButton(t *testing.T) {
	t.Parallel()

	// Board plays for both live seats; neither hole pair improves it
	deck := poker.NewRiggedDeck(randutil.New(6), poker.MustParseCards(
		"2c", "3c", // alpha (button/UTG)
		"9h", "8h", // bravo (SB, folds)
		"2d", "3d", // charlie (BB)
		"7s", // burn
		"As", "Kd", "Qc", // flop
		"7d", "Jh", // burn, turn
		"7h", "Ts", // burn, river
	)...)

	players := testPlayers(1000, 1000, 1000)
	h, err := NewHand("h1", randutil.New(6), players, 0, 5, 10, WithDeck(deck))
	require.NoError(t, err)

	require.NoError(t, h.ProcessAction(Raise, 20)) // alpha
	require.NoError(t, h.ProcessAction(Fold, 0))   // bravo
	require.NoError(t, h.ProcessAction(Call, 0))   // charlie

	for !h.IsComplete() {
		require.NoError(t, h.ProcessAction(Check, 0))
	}

	result, err := h.Settle()
	require.NoError(t, err)
	require.Len(t, result.Awards, 1)

	award := result.Awards[0]
	require.Equal(t, 45, award.Amount)
	require.ElementsMatch(t, []int{0, 2}, award.Winners, "board plays, genuine split")
	require.Equal(t, 23, award.Shares[2], "first eligible seat clockwise from button takes the odd chip")
	require.Equal(t, 22, award.Shares[0])
}

func TestHandIllegalActionsRejectedWithoutStateChange(t *testing.T) {
	t.Parallel()

	players := testPlayers(1000, 1000, 1000)
	h, err := NewHand("h1", randutil.New(7), players, 0, 5, 10)
	require.NoError(t, err)

	// Facing the big blind, check is not legal
	err = h.ProcessAction(Check, 0)
	require.ErrorIs(t, err, ErrIllegalAction)
	require.Equal(t, 0, h.ActivePlayer, "turn does not advance on rejection")
	require.Equal(t, 1000, players[0].Chips)

	// Raise below the minimum increment
	err = h.ProcessAction(Raise, 15)
	require.ErrorIs(t, err, ErrIllegalAction)
	require.Equal(t, 1000, players[0].Chips)

	// Raise beyond the stack
	err = h.ProcessAction(Raise, 5000)
	require.ErrorIs(t, err, ErrIllegalAction)
	require.Equal(t, 1000, players[0].Chips)
}

func TestHandMinRaiseTracksLastRaiseSize(t *testing.T) {
	t.Parallel()

	players := testPlayers(1000, 1000, 1000)
	h, err := NewHand("h1", randutil.New(8), players, 0, 5, 10)
	require.NoError(t, err)

	va, ok := findValid(h.ValidActions(), Raise)
	require.True(t, ok)
	require.Equal(t, 20, va.MinAmount, "first raise must at least double the big blind")

	require.NoError(t, h.ProcessAction(Raise, 30))

	va, ok = findValid(h.ValidActions(), Raise)
	require.True(t, ok)
	require.Equal(t, 50, va.MinAmount, "re-raise must add at least the last raise size")
}

func TestHandShortAllInRaisesBetLevel(t *testing.T) {
	t.Parallel()

	players := testPlayers(1000, 18, 1000)
	h, err := NewHand("h1", randutil.New(9), players, 0, 5, 10)
	require.NoError(t, err)

	require.NoError(t, h.ProcessAction(Call, 0)) // alpha calls 10

	// bravo (SB) can only shove 18 total: above the bet level but below a
	// min raise, so the full raise option is replaced by all-in
	_, ok := findValid(h.ValidActions(), Raise)
	require.False(t, ok)
	va, ok := findValid(h.ValidActions(), AllIn)
	require.True(t, ok)
	require.Equal(t, 18, va.MinAmount)
	require.NoError(t, h.ProcessAction(AllIn, 0))

	require.Equal(t, 18, h.Betting.CurrentBet, "short all-in still sets the bet level")
	require.True(t, players[1].AllIn)

	// charlie and alpha both owe the difference now
	require.Equal(t, 2, h.ActivePlayer)
	va, ok = findValid(h.ValidActions(), Call)
	require.True(t, ok)
	require.Equal(t, 8, va.MinAmount)
}

func TestHandAllInRunoutDealsRemainingStreets(t *testing.T) {
	t.Parallel()

	players := testPlayers(300, 300)
	h, err := NewHand("h1", randutil.New(10), players, 0, 5, 10)
	require.NoError(t, err)

	require.NoError(t, h.ProcessAction(Raise, 300)) // button shoves
	require.NoError(t, h.ProcessAction(AllIn, 0))   // bb calls all-in

	require.True(t, h.IsComplete())
	require.Equal(t, Showdown, h.Street)
	require.Len(t, h.Board, 5, "board runs out with no one left to act")

	result, err := h.Settle()
	require.NoError(t, err)
	require.Equal(t, 600, h.TotalChips())
	require.NotEmpty(t, result.Awards)
}

func TestHandRejectsTooFewPlayers(t *testing.T) {
	t.Parallel()

	_, err := NewHand("h1", randutil.New(11), testPlayers(1000), 0, 5, 10)
	require.True(t, errors.Is(err, ErrRuleViolation))
}

func TestHandAntesGoToPot(t *testing.T) {
	t.Parallel()

	players := testPlayers(1000, 1000, 1000)
	h, err := NewHand("h1", randutil.New(12), players, 0, 5, 10, WithAnte(25))
	require.NoError(t, err)

	require.Equal(t, 75, h.Pots.Total(), "antes collected up front")
	require.Equal(t, 3000, h.TotalChips())
	require.Equal(t, 970, players[1].Chips, "ante plus small blind")
}

func TestHandHeadsUpButtonAllInFromBlindPassesAction(t *testing.T) {
	t.Parallel()

	// Blinds outgrow the button's stack: posting the small blind puts it
	// all-in, so the big blind holds the action, not the button.
	players := testPlayers(50, 1000)
	h, err := NewHand("h1", randutil.New(13), players, 0, 100, 200)
	require.NoError(t, err)

	require.True(t, players[0].AllIn, "button all-in from posting")
	require.Equal(t, 1, h.ActivePlayer, "action skips the all-in button")

	valid := h.ValidActions()
	require.NotEmpty(t, valid)
	_, canCheck := findValid(valid, Check)
	require.True(t, canCheck, "big blind faces nothing to call")

	for i := 0; !h.IsComplete(); i++ {
		require.Less(t, i, 4, "one check per street at most")
		require.NoError(t, h.ProcessAction(Check, 0))
	}

	require.Equal(t, Showdown, h.Street)
	require.Len(t, h.Board, 5)

	_, err = h.Settle()
	require.NoError(t, err)
	require.Equal(t, 1050, h.TotalChips())
}

func TestHandBothBlindsAllInFromPostRunsOut(t *testing.T) {
	t.Parallel()

	players := testPlayers(80, 150)
	h, err := NewHand("h1", randutil.New(14), players, 0, 100, 200)
	require.NoError(t, err)

	require.True(t, h.IsComplete(), "no seat left to act after posting")
	require.Equal(t, Showdown, h.Street)
	require.Len(t, h.Board, 5, "board runs out with no betting")

	result, err := h.Settle()
	require.NoError(t, err)
	require.Equal(t, 230, h.TotalChips())
	require.NotEmpty(t, result.Awards)
}

func TestHandAnteCoveringAllStacksRunsOut(t *testing.T) {
	t.Parallel()

	players := testPlayers(60, 60, 60)
	h, err := NewHand("h1", randutil.New(15), players, 0, 100, 200, WithAnte(100))
	require.NoError(t, err)

	require.True(t, h.IsComplete(), "every seat all-in from the ante")
	require.Equal(t, Showdown, h.Street)
	require.Len(t, h.Board, 5)

	result, err := h.Settle()
	require.NoError(t, err)
	require.Equal(t, 180, h.TotalChips())
	require.NotEmpty(t, result.Awards)
}
