package game

import "sort"

// Pot is one pot tier: an amount and the seats eligible to win it. A side
// pot exists only when some seat is all-in for less than the bet level; the
// excess is contested in a higher tier excluding that seat.
type Pot struct {
	Amount   int
	Eligible []int // hand seat indexes, folded seats excluded
	CapPer   int   // maximum total contribution counted into this tier
}

// PotManager tracks the main pot and side pot tiers. Invariant: the sum of
// all pot amounts plus uncollected street bets equals the chips committed so
// far in the hand.
type PotManager struct {
	pots []Pot
}

// NewPotManager starts with a single empty main pot everyone contests
func NewPotManager(players []*Player) *PotManager {
	return &PotManager{
		pots: []Pot{{Eligible: eligibleSeats(players)}},
	}
}

func eligibleSeats(players []*Player) []int {
	seats := make([]int, 0, len(players))
	for _, p := range players {
		if !p.Folded {
			seats = append(seats, p.Seat)
		}
	}
	return seats
}

// Total returns the chips collected across all tiers
func (pm *PotManager) Total() int {
	total := 0
	for _, pot := range pm.pots {
		total += pot.Amount
	}
	return total
}

// CollectStreetBets sweeps each player's street commitment into the pots at
// the end of a street.
func (pm *PotManager) CollectStreetBets(players []*Player) {
	for _, p := range players {
		if p.StreetBet > 0 {
			pm.pots[0].Amount += p.StreetBet
			p.StreetBet = 0
		}
	}
}

// RebuildTiers recomputes pot tiers from total commitments. Each distinct
// all-in total forms a tier capped at that amount; seats that committed more
// contest the excess in higher tiers. Must be called after CollectStreetBets
// whenever any player is all-in.
func (pm *PotManager) RebuildTiers(players []*Player) {
	caps := map[int]bool{}
	for _, p := range players {
		if p.AllIn && p.TotalBet > 0 {
			caps[p.TotalBet] = true
		}
	}
	if len(caps) == 0 {
		return
	}

	levels := make([]int, 0, len(caps))
	for cap := range caps {
		levels = append(levels, cap)
	}
	sort.Ints(levels)

	pm.pots = pm.pots[:0]
	floor := 0
	for _, cap := range levels {
		pot := Pot{CapPer: cap}
		for _, p := range players {
			if !p.Folded && p.TotalBet > floor {
				pot.Eligible = append(pot.Eligible, p.Seat)
			}
		}
		for _, p := range players {
			contribution := min(p.TotalBet, cap) - floor
			if contribution > 0 {
				pot.Amount += contribution
			}
		}
		if pot.Amount > 0 && len(pot.Eligible) > 0 {
			pm.pots = append(pm.pots, pot)
		}
		floor = cap
	}

	// Whatever exceeds the highest all-in tier is still contested by the
	// remaining deep stacks. A single eligible seat here is an uncalled
	// excess and simply returns to that seat at award time.
	top := Pot{}
	for _, p := range players {
		if !p.Folded && p.TotalBet > floor {
			top.Eligible = append(top.Eligible, p.Seat)
			top.Amount += p.TotalBet - floor
		}
	}
	if top.Amount > 0 && len(top.Eligible) > 0 {
		pm.pots = append(pm.pots, top)
	}
}

// Pots returns the collected pot tiers
func (pm *PotManager) Pots() []Pot {
	return pm.pots
}

// PotsWithUncollected returns the tiers with in-flight street bets counted
// into the currently contested tier, for display and game-state views.
func (pm *PotManager) PotsWithUncollected(players []*Player) []Pot {
	uncollected := 0
	for _, p := range players {
		uncollected += p.StreetBet
	}
	if uncollected == 0 {
		return pm.pots
	}

	result := make([]Pot, len(pm.pots))
	copy(result, pm.pots)
	if len(result) > 0 {
		result[len(result)-1].Amount += uncollected
	}
	return result
}
