package game

// Street represents a betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
	AllIn
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "bet", "raise", "allin"}[a]
}

// ParseAction maps the wire spellings agents use back to an Action
func ParseAction(s string) (Action, bool) {
	switch s {
	case "fold":
		return Fold, true
	case "check":
		return Check, true
	case "call":
		return Call, true
	case "bet":
		return Bet, true
	case "raise":
		return Raise, true
	case "allin", "all_in", "all-in":
		return AllIn, true
	}
	return Fold, false
}

// ValidAction is a legal action with its amount range. For Bet and Raise the
// amounts are bet-to totals for the street; for Call the amount is fixed.
type ValidAction struct {
	Action    Action
	MinAmount int
	MaxAmount int
}

// BettingRound owns all betting state for one street: the bet to call, the
// minimum raise increment, who has acted since the last aggression, and the
// big blind's preflop option. One value exists per hand and is passed
// explicitly; no shared globals.
type BettingRound struct {
	CurrentBet     int
	MinRaise       int
	LastAggressor  int // seat index of last bettor/raiser, -1 if none
	BBActed        bool
	ActedThisRound []bool
	BigBlind       int // resets MinRaise on each new street
}

// NewBettingRound creates betting state for a fresh street
func NewBettingRound(numPlayers, bigBlind int) *BettingRound {
	return &BettingRound{
		MinRaise:       bigBlind,
		LastAggressor:  -1,
		ActedThisRound: make([]bool, numPlayers),
		BigBlind:       bigBlind,
	}
}

// ValidActionsFor computes the legal action set for a player. Facing no bet
// the player may fold, check or bet; facing a bet they may fold, call or
// raise. A stack below the call amount or below the minimum raise forces the
// all-in option instead.
func (br *BettingRound) ValidActionsFor(p *Player) []ValidAction {
	if p.Folded || p.AllIn {
		return nil
	}

	actions := []ValidAction{{Action: Fold}}
	toCall := br.CurrentBet - p.StreetBet

	if toCall <= 0 {
		actions = append(actions, ValidAction{Action: Check})
		if p.Chips > 0 {
			maxTo := p.StreetBet + p.Chips
			// The big blind option: no amount to call but a live bet level,
			// so aggression is a raise rather than an opening bet
			aggress, minTo := Bet, br.BigBlind
			if br.CurrentBet > 0 {
				aggress, minTo = Raise, br.CurrentBet+br.MinRaise
			}
			if minTo >= maxTo {
				// Cannot make a full-size bet, only shove
				actions = append(actions, ValidAction{Action: AllIn, MinAmount: maxTo, MaxAmount: maxTo})
			} else {
				actions = append(actions, ValidAction{Action: aggress, MinAmount: minTo, MaxAmount: maxTo})
			}
		}
		return actions
	}

	if p.Chips <= toCall {
		// Short stack: calling is an all-in for less
		actions = append(actions, ValidAction{Action: AllIn, MinAmount: p.StreetBet + p.Chips, MaxAmount: p.StreetBet + p.Chips})
		return actions
	}

	actions = append(actions, ValidAction{Action: Call, MinAmount: toCall, MaxAmount: toCall})

	maxTo := p.StreetBet + p.Chips
	minTo := br.CurrentBet + br.MinRaise
	if maxTo >= minTo {
		actions = append(actions, ValidAction{Action: Raise, MinAmount: minTo, MaxAmount: maxTo})
	} else {
		// Not enough for a full raise, but shoving over the top is legal
		actions = append(actions, ValidAction{Action: AllIn, MinAmount: maxTo, MaxAmount: maxTo})
	}
	return actions
}

// ResetForStreet clears per-street state. BBActed survives because the big
// blind option only exists preflop.
func (br *BettingRound) ResetForStreet(numPlayers int) {
	br.CurrentBet = 0
	br.MinRaise = br.BigBlind
	br.LastAggressor = -1
	br.ActedThisRound = make([]bool, numPlayers)
}

// MarkActed records that a seat has acted since the last aggression
func (br *BettingRound) MarkActed(seat int) {
	if seat >= 0 && seat < len(br.ActedThisRound) {
		br.ActedThisRound[seat] = true
	}
}

// reopenAction clears acted flags after aggression so every live seat must
// respond, keeping only the aggressor marked.
func (br *BettingRound) reopenAction(aggressor int) {
	for i := range br.ActedThisRound {
		br.ActedThisRound[i] = false
	}
	br.ActedThisRound[aggressor] = true
	br.LastAggressor = aggressor
}

// Complete reports whether the street's betting is finished: every live seat
// has matched the current bet or is all-in, everyone has acted since the
// last aggression, and preflop the big blind has had its option.
func (br *BettingRound) Complete(players []*Player, street Street, button int) bool {
	live := 0
	for _, p := range players {
		if !p.Folded && !p.AllIn {
			live++
		}
	}
	if live == 0 {
		return true
	}

	for i, p := range players {
		if p.Folded || p.AllIn {
			continue
		}
		if p.StreetBet != br.CurrentBet {
			return false
		}
		if !br.ActedThisRound[i] {
			return false
		}
	}

	if street == Preflop && br.LastAggressor == -1 {
		bb := players[bigBlindSeat(len(players), button)]
		if !bb.Folded && !bb.AllIn && !br.BBActed {
			return false // BB still has the option
		}
	}

	return true
}

// smallBlindSeat returns the seat posting the small blind. Heads-up the
// button posts it.
func smallBlindSeat(numPlayers, button int) int {
	if numPlayers == 2 {
		return button
	}
	return (button + 1) % numPlayers
}

// bigBlindSeat returns the seat posting the big blind
func bigBlindSeat(numPlayers, button int) int {
	if numPlayers == 2 {
		return (button + 1) % numPlayers
	}
	return (button + 2) % numPlayers
}
