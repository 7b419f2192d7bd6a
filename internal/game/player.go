package game

import "github.com/feltarena/feltarena/poker"

// Player is one seat's state within a single hand. The tournament owns chip
// stacks between hands; a hand mutates only the players it was given.
type Player struct {
	Seat      int    // index within this hand
	AgentID   string // stable agent identity across hands and tournaments
	Chips     int
	HoleCards []poker.Card
	Folded    bool
	AllIn     bool
	StreetBet int // committed this street, not yet collected into a pot
	TotalBet  int // committed across the whole hand
}

// CanAct reports whether the seat can still take actions this hand
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// commit moves up to amount chips from the stack into the street bet,
// returning what was actually committed.
func (p *Player) commit(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.StreetBet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
	return amount
}
