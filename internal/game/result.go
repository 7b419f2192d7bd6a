package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/feltarena/feltarena/poker"
)

// PotAward records who won one pot tier and how it was split
type PotAward struct {
	Pot     int // tier index, 0 = main pot
	Amount  int
	Winners []int       // hand seat indexes, split on genuine ties
	Shares  map[int]int // seat -> chips awarded, odd chips included
}

// ShowdownHand is one revealed holding at showdown
type ShowdownHand struct {
	Seat    int
	AgentID string
	Cards   []poker.Card
	Value   poker.HandValue
}

// HandResult is the outcome of a completed hand. Hands won by fold reveal
// no cards; contested showdowns reveal every live seat's holding.
type HandResult struct {
	HandID    string
	Board     []poker.Card
	Awards    []PotAward
	Revealed  []ShowdownHand
	WonByFold bool
}

// Winners returns the distinct agent ids that won chips, in award order
func (r HandResult) Winners(players []*Player) []string {
	seen := map[int]bool{}
	var ids []string
	for _, award := range r.Awards {
		for _, seat := range award.Winners {
			if !seen[seat] {
				seen[seat] = true
				ids = append(ids, players[seat].AgentID)
			}
		}
	}
	return ids
}

// TotalAwarded sums the chips moved back to players
func (r HandResult) TotalAwarded() int {
	total := 0
	for _, a := range r.Awards {
		total += a.Amount
	}
	return total
}

// Settle resolves a complete hand: it evaluates live holdings per pot tier,
// pays each tier to its best eligible seat(s) and moves the chips back onto
// stacks. Odd chips from splits go to eligible winners in seat order
// clockwise from the button. Settle enforces chip conservation and returns
// ErrRuleViolation if it would be broken.
func (h *HandState) Settle() (*HandResult, error) {
	if !h.IsComplete() {
		return nil, fmt.Errorf("%w: settle called before hand complete", ErrRuleViolation)
	}

	// Sweep any in-flight bets (a fold can end the hand mid-street)
	h.Pots.CollectStreetBets(h.Players)
	h.Pots.RebuildTiers(h.Players)

	result := &HandResult{
		HandID:    h.ID,
		Board:     h.Board,
		WonByFold: h.liveCount() == 1,
	}

	values := map[int]poker.HandValue{}
	if !result.WonByFold {
		for _, p := range h.Players {
			if p.Folded {
				continue
			}
			hv, err := poker.Evaluate(append(append([]poker.Card{}, p.HoleCards...), h.Board...))
			if err != nil {
				return nil, fmt.Errorf("%w: evaluating seat %d: %v", ErrRuleViolation, p.Seat, err)
			}
			values[p.Seat] = hv
			result.Revealed = append(result.Revealed, ShowdownHand{
				Seat:    p.Seat,
				AgentID: p.AgentID,
				Cards:   p.HoleCards,
				Value:   hv,
			})
		}
	}

	for potIdx, pot := range h.Pots.Pots() {
		winners := h.potWinners(pot, values)
		if len(winners) == 0 {
			return nil, fmt.Errorf("%w: pot %d has no winner", ErrRuleViolation, potIdx)
		}

		award := PotAward{
			Pot:     potIdx,
			Amount:  pot.Amount,
			Winners: winners,
			Shares:  make(map[int]int, len(winners)),
		}
		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)

		// Odd chips go to the first eligible winners clockwise from the button
		ordered := append([]int{}, winners...)
		sort.Slice(ordered, func(i, j int) bool {
			return h.clockwiseFromButton(ordered[i]) < h.clockwiseFromButton(ordered[j])
		})
		for i, seat := range ordered {
			chips := share
			if i < remainder {
				chips++
			}
			award.Shares[seat] = chips
			h.Players[seat].Chips += chips
		}
		result.Awards = append(result.Awards, award)
	}

	if h.TotalChips() != h.entering {
		return nil, fmt.Errorf("%w: chip conservation broken: entered %d, now %d", ErrRuleViolation, h.entering, h.TotalChips())
	}
	return result, nil
}

// potWinners finds the best eligible live seat(s) for one tier. A tier with
// one eligible seat is an uncalled excess and returns without evaluation.
func (h *HandState) potWinners(pot Pot, values map[int]poker.HandValue) []int {
	var live []int
	for _, seat := range pot.Eligible {
		if !h.Players[seat].Folded {
			live = append(live, seat)
		}
	}
	if len(live) <= 1 {
		return live
	}

	var best poker.HandValue
	var winners []int
	for _, seat := range live {
		hv, ok := values[seat]
		if !ok {
			continue
		}
		if len(winners) == 0 {
			best = hv
			winners = []int{seat}
			continue
		}
		switch cmp := hv.Compare(best); {
		case cmp > 0:
			best = hv
			winners = []int{seat}
		case cmp == 0:
			winners = append(winners, seat)
		}
	}
	return winners
}

// clockwiseFromButton orders seats starting at the seat left of the button
func (h *HandState) clockwiseFromButton(seat int) int {
	n := len(h.Players)
	return ((seat - h.Button - 1) + n) % n
}

// Summary renders a one-line human-readable account of the hand
func (r HandResult) Summary(players []*Player) string {
	var parts []string

	for _, award := range r.Awards {
		names := make([]string, len(award.Winners))
		for i, seat := range award.Winners {
			names[i] = players[seat].AgentID
		}
		if len(names) == 1 {
			parts = append(parts, fmt.Sprintf("%s wins %d", names[0], award.Amount))
		} else {
			parts = append(parts, fmt.Sprintf("split %d: %s", award.Amount, strings.Join(names, ", ")))
		}
	}

	if len(r.Board) > 0 {
		parts = append(parts, "board "+strings.Join(poker.CardCodes(r.Board), " "))
	}
	if r.WonByFold {
		parts = append(parts, "won without showdown")
	} else {
		for _, sh := range r.Revealed {
			parts = append(parts, fmt.Sprintf("%s shows %s (%s)", sh.AgentID, strings.Join(poker.CardCodes(sh.Cards), " "), sh.Value))
		}
	}
	return strings.Join(parts, " | ")
}
