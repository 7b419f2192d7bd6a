package session

import (
	"github.com/feltarena/feltarena/internal/game"
	"github.com/feltarena/feltarena/poker"
)

// Remark is one public trash-talk line another seat is allowed to see
type Remark struct {
	AgentID string `json:"agent_id"`
	Text    string `json:"text"`
}

// ActionOption is one legal action offered to the agent, with bet-to bounds
// where amounts apply.
type ActionOption struct {
	Action string `json:"action"`
	Min    int    `json:"min,omitempty"`
	Max    int    `json:"max,omitempty"`
}

// View is everything one seat is allowed to know when acting: its own hole
// cards, the board, public stacks and bets, pot tiers, the legal action set,
// the table's trash-talk history and the agent's own notes. Other seats'
// hole cards and private reasoning are never present.
type View struct {
	HandID     string            `json:"hand_id"`
	Street     string            `json:"street"`
	Seat       int               `json:"seat"`
	Button     int               `json:"button"`
	HoleCards  []string          `json:"hole_cards"`
	Board      []string          `json:"board"`
	PotTotal   int               `json:"pot_total"`
	ToCall     int               `json:"to_call"`
	SmallBlind int               `json:"small_blind"`
	BigBlind   int               `json:"big_blind"`
	Ante       int               `json:"ante,omitempty"`
	Level      int               `json:"level"`
	Seats      []game.SeatPublic `json:"seats"`
	Actions    []ActionOption    `json:"actions"`
	TrashTalk  []Remark          `json:"trash_talk,omitempty"`
	Notes      []string          `json:"notes,omitempty"`
}

// Blinds carries the stakes for the current level into a view
type Blinds struct {
	Small int
	Big   int
	Ante  int
	Level int
}

// BuildView assembles the view for the hand's active player. The caller adds
// trash-talk history and the seat's own notes afterwards.
func BuildView(h *game.HandState, blinds Blinds) View {
	p := h.Players[h.ActivePlayer]

	valid := h.ValidActions()
	actions := make([]ActionOption, len(valid))
	for i, va := range valid {
		actions[i] = ActionOption{Action: va.Action.String(), Min: va.MinAmount, Max: va.MaxAmount}
	}

	toCall := h.Betting.CurrentBet - p.StreetBet
	if toCall < 0 {
		toCall = 0
	}

	potTotal := 0
	for _, pot := range h.Pots.PotsWithUncollected(h.Players) {
		potTotal += pot.Amount
	}

	return View{
		HandID:     h.ID,
		Street:     h.Street.String(),
		Seat:       p.Seat,
		Button:     h.Button,
		HoleCards:  poker.CardCodes(p.HoleCards),
		Board:      poker.CardCodes(h.Board),
		PotTotal:   potTotal,
		ToCall:     toCall,
		SmallBlind: blinds.Small,
		BigBlind:   blinds.Big,
		Ante:       blinds.Ante,
		Level:      blinds.Level,
		Seats:      game.PublicSeats(h.Players),
		Actions:    actions,
	}
}
