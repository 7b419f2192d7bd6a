package game

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/feltarena/feltarena/poker"
)

// HandState is the authoritative state machine for one hand of Texas
// Hold'em. It sequences blinds, hole cards, the four betting streets and
// showdown. All mutable state lives in this one value; nothing is shared
// between hands, so independent tournaments can run hands concurrently.
type HandState struct {
	ID           string
	Players      []*Player
	Button       int
	Street       Street
	Board        []poker.Card
	Deck         *poker.Deck
	Pots         *PotManager
	Betting      *BettingRound
	ActivePlayer int

	smallBlind int
	bigBlind   int
	ante       int
	entering   int // chips at hand start, for the conservation invariant
}

// HandOption configures a hand during creation
type HandOption func(*handConfig)

type handConfig struct {
	ante int
	deck *poker.Deck
}

// WithAnte makes every seated player post an ante before the blinds
func WithAnte(ante int) HandOption {
	return func(c *handConfig) { c.ante = ante }
}

// WithDeck supplies a pre-shuffled deck, overriding the RNG. Test-only
// determinism hook.
func WithDeck(deck *poker.Deck) HandOption {
	return func(c *handConfig) { c.deck = deck }
}

// NewHand creates a hand for the given seats and posts antes and blinds.
// Seat order is hand-local; the button index is within players. The RNG is
// explicit so shuffles are reproducible in tests.
func NewHand(id string, rng *rand.Rand, players []*Player, button, smallBlind, bigBlind int, opts ...HandOption) (*HandState, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("%w: hand needs at least 2 players, got %d", ErrRuleViolation, len(players))
	}
	if button < 0 || button >= len(players) {
		return nil, fmt.Errorf("%w: button %d out of range", ErrRuleViolation, button)
	}

	cfg := &handConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	entering := 0
	for i, p := range players {
		p.Seat = i
		p.HoleCards = nil
		p.Folded = false
		p.AllIn = false
		p.StreetBet = 0
		p.TotalBet = 0
		entering += p.Chips
	}

	deck := cfg.deck
	if deck == nil {
		deck = poker.NewDeck(rng)
	}

	h := &HandState{
		ID:         id,
		Players:    players,
		Button:     button,
		Street:     Preflop,
		Deck:       deck,
		Pots:       NewPotManager(players),
		Betting:    NewBettingRound(len(players), bigBlind),
		smallBlind: smallBlind,
		bigBlind:   bigBlind,
		ante:       cfg.ante,
		entering:   entering,
	}

	h.postAntesAndBlinds()
	if err := h.dealHoleCards(); err != nil {
		return nil, err
	}

	// First to act preflop: heads-up the button, otherwise UTG. Posting
	// can put a seat all-in, so scan for one that can still act; when
	// nobody can, the board runs out without betting.
	if len(players) == 2 {
		h.ActivePlayer = h.nextToAct(button)
	} else {
		h.ActivePlayer = h.nextToAct((button + 3) % len(players))
	}
	if h.ActivePlayer == -1 || h.Betting.Complete(h.Players, h.Street, h.Button) {
		if err := h.nextStreet(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *HandState) postAntesAndBlinds() {
	if h.ante > 0 {
		for _, p := range h.Players {
			p.commit(h.ante)
		}
		// Antes belong to the pot immediately, not to street betting
		h.Pots.CollectStreetBets(h.Players)
	}

	sb := h.Players[smallBlindSeat(len(h.Players), h.Button)]
	bb := h.Players[bigBlindSeat(len(h.Players), h.Button)]
	sb.commit(h.smallBlind)
	bb.commit(h.bigBlind)

	// The big blind sets the bet level even when posted short
	h.Betting.CurrentBet = h.bigBlind
}

func (h *HandState) dealHoleCards() error {
	for _, p := range h.Players {
		cards, err := h.Deck.Deal(2)
		if err != nil {
			return err
		}
		p.HoleCards = cards
	}
	return nil
}

// ValidActions returns the legal action set for the seat whose turn it is
func (h *HandState) ValidActions() []ValidAction {
	if h.ActivePlayer < 0 || h.ActivePlayer >= len(h.Players) {
		return nil
	}
	return h.Betting.ValidActionsFor(h.Players[h.ActivePlayer])
}

// findValid locates the entry for action in the current legal set
func findValid(valid []ValidAction, action Action) (ValidAction, bool) {
	for _, va := range valid {
		if va.Action == action {
			return va, true
		}
	}
	return ValidAction{}, false
}

// ProcessAction applies the active seat's action. Amount is a bet-to total
// for Bet/Raise and ignored otherwise. Returns ErrIllegalAction when the
// action or amount is outside the legal set; state is unchanged in that
// case.
func (h *HandState) ProcessAction(action Action, amount int) error {
	if h.ActivePlayer < 0 || h.Street == Showdown || h.IsComplete() {
		return fmt.Errorf("%w: no action expected", ErrRuleViolation)
	}
	p := h.Players[h.ActivePlayer]

	va, ok := findValid(h.ValidActions(), action)
	if !ok {
		return fmt.Errorf("%w: %s not available for seat %d", ErrIllegalAction, action, p.Seat)
	}

	switch action {
	case Fold:
		p.Folded = true
		if h.Betting.LastAggressor == h.ActivePlayer {
			h.Betting.LastAggressor = -1
		}

	case Check:
		// No chips move

	case Call:
		p.commit(h.Betting.CurrentBet - p.StreetBet)

	case Bet, Raise:
		if amount < va.MinAmount || amount > va.MaxAmount {
			return fmt.Errorf("%w: %s to %d outside [%d,%d]", ErrIllegalAction, action, amount, va.MinAmount, va.MaxAmount)
		}
		h.Betting.MinRaise = amount - h.Betting.CurrentBet
		h.Betting.CurrentBet = amount
		p.commit(amount - p.StreetBet)
		h.Betting.reopenAction(h.ActivePlayer)

	case AllIn:
		p.commit(p.Chips)
		if p.StreetBet > h.Betting.CurrentBet {
			// A short all-in raises the bet level but only reopens action
			// at its actual size
			h.Betting.MinRaise = p.StreetBet - h.Betting.CurrentBet
			h.Betting.CurrentBet = p.StreetBet
			h.Betting.reopenAction(h.ActivePlayer)
		}
	}

	h.Betting.MarkActed(h.ActivePlayer)
	if h.Street == Preflop && h.ActivePlayer == bigBlindSeat(len(h.Players), h.Button) {
		h.Betting.BBActed = true
	}

	h.ActivePlayer = h.nextToAct(h.ActivePlayer + 1)
	if h.ActivePlayer == -1 || h.Betting.Complete(h.Players, h.Street, h.Button) {
		if err := h.nextStreet(); err != nil {
			return err
		}
	}
	return nil
}

// nextToAct scans clockwise from the given seat for one that can act
func (h *HandState) nextToAct(from int) int {
	n := len(h.Players)
	for i := 0; i < n; i++ {
		pos := (from + i) % n
		if h.Players[pos].CanAct() {
			return pos
		}
	}
	return -1
}

// liveCount counts non-folded seats
func (h *HandState) liveCount() int {
	live := 0
	for _, p := range h.Players {
		if !p.Folded {
			live++
		}
	}
	return live
}

// nextStreet collects bets, rebuilds side pot tiers and deals the next
// street with one burn card. When all remaining seats are all-in the
// remaining streets run out without further betting.
func (h *HandState) nextStreet() error {
	h.Pots.CollectStreetBets(h.Players)
	h.Pots.RebuildTiers(h.Players)
	h.Betting.ResetForStreet(len(h.Players))

	// A hand won by folds stops dealing immediately
	if h.liveCount() <= 1 {
		h.Street = Showdown
		return nil
	}

	switch h.Street {
	case Preflop:
		h.Street = Flop
		if err := h.dealBoard(3); err != nil {
			return err
		}
	case Flop:
		h.Street = Turn
		if err := h.dealBoard(1); err != nil {
			return err
		}
	case Turn:
		h.Street = River
		if err := h.dealBoard(1); err != nil {
			return err
		}
	case River:
		h.Street = Showdown
		return nil
	case Showdown:
		return nil
	}

	h.ActivePlayer = h.nextToAct((h.Button + 1) % len(h.Players))
	if h.ActivePlayer == -1 {
		// Everyone left is all-in: run out the rest of the board
		return h.nextStreet()
	}
	return nil
}

func (h *HandState) dealBoard(n int) error {
	if err := h.Deck.Burn(); err != nil {
		return err
	}
	cards, err := h.Deck.Deal(n)
	if err != nil {
		return err
	}
	h.Board = append(h.Board, cards...)
	return nil
}

// IsComplete reports whether the hand has reached its terminal state
func (h *HandState) IsComplete() bool {
	return h.Street == Showdown || h.liveCount() <= 1
}

// TotalChips returns stacks plus pots plus uncommitted street bets. Constant
// for the lifetime of the hand.
func (h *HandState) TotalChips() int {
	total := h.Pots.Total()
	for _, p := range h.Players {
		total += p.Chips + p.StreetBet
	}
	return total
}
