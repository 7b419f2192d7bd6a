// Package tournament runs Sit-and-Go tournaments: successive hands over a
// fixed roster with escalating blinds, eliminations at zero chips, and a
// single winner. One Tournament value owns all of its mutable state, so
// independent tournaments can run concurrently sharing only the notes store.
package tournament

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/feltarena/feltarena/internal/game"
	"github.com/feltarena/feltarena/internal/notes"
	"github.com/feltarena/feltarena/internal/session"
)

// Status is the tournament lifecycle phase
type Status int

const (
	Registering Status = iota
	InProgress
	Completed
)

func (s Status) String() string {
	return [...]string{"registering", "in_progress", "completed"}[s]
}

// Standing is one agent's final placement
type Standing struct {
	AgentID string `json:"agent_id"`
	Place   int    `json:"place"`
	Chips   int    `json:"chips"`
}

// Result is the outcome of a completed tournament
type Result struct {
	TournamentID string     `json:"tournament_id"`
	Winner       string     `json:"winner"`
	Standings    []Standing `json:"standings"`
	TotalHands   int        `json:"total_hands"`
}

// Config carries tournament settings. Zero values take defaults.
type Config struct {
	StartChips      int
	Schedule        Schedule
	DecisionTimeout time.Duration
	TrashTalkDepth  int // public trash-talk lines kept in agent views
}

func (c Config) withDefaults() Config {
	if c.StartChips <= 0 {
		c.StartChips = 10000
	}
	if len(c.Schedule) == 0 {
		c.Schedule = DefaultSchedule()
	}
	if c.DecisionTimeout <= 0 {
		c.DecisionTimeout = 30 * time.Second
	}
	if c.TrashTalkDepth <= 0 {
		c.TrashTalkDepth = 20
	}
	return c
}

// entrant is one roster seat's tournament-scoped state. Hand-local players
// are built fresh per hand and the chips copied back, so nothing leaks
// between hands.
type entrant struct {
	agentID    string
	session    *session.Session
	chips      int
	eliminated bool
}

// Tournament runs one Sit-and-Go from registration to a single winner
type Tournament struct {
	id     string
	cfg    Config
	clock  quartz.Clock
	rng    *rand.Rand
	sink   game.EventSink
	notes  notes.Store
	logger *log.Logger

	status       Status
	entrants     []*entrant // fixed table order
	button       int        // table position, -1 before the first hand
	level        int        // zero-based schedule index
	handsAtLevel int
	levelStart   time.Time
	handNumber   int
	bustOrder    []string // agent ids, first bust first
	trashTalk    []session.Remark
}

// New creates a tournament in the Registering state
func New(cfg Config, clock quartz.Clock, rng *rand.Rand, sink game.EventSink, store notes.Store, logger *log.Logger) *Tournament {
	if sink == nil {
		sink = game.NopSink{}
	}
	id := uuid.NewString()
	return &Tournament{
		id:     id,
		cfg:    cfg.withDefaults(),
		clock:  clock,
		rng:    rng,
		sink:   sink,
		notes:  store,
		logger: logger.WithPrefix("tournament").With("id", shortID(id)),
		status: Registering,
		button: -1,
	}
}

// ID returns the tournament identifier
func (t *Tournament) ID() string { return t.id }

// Status returns the lifecycle phase
func (t *Tournament) Status() Status { return t.status }

// Register seats an agent. Only valid while Registering.
func (t *Tournament) Register(agentID string, agent session.Agent) error {
	if t.status != Registering {
		return fmt.Errorf("cannot register %s: tournament is %s", agentID, t.status)
	}
	for _, e := range t.entrants {
		if e.agentID == agentID {
			return fmt.Errorf("agent %s already registered", agentID)
		}
	}
	t.entrants = append(t.entrants, &entrant{
		agentID: agentID,
		session: session.New(agentID, agent, t.clock, t.cfg.DecisionTimeout, t.logger),
		chips:   t.cfg.StartChips,
	})
	return nil
}

// Run plays the tournament to completion and returns the final standings.
// A cancelled context stops between hands; in-flight decisions are cancelled
// and substituted so the current hand still resolves with chips conserved.
// Only a rule violation aborts with an error.
func (t *Tournament) Run(ctx context.Context) (*Result, error) {
	if t.status != Registering {
		return nil, fmt.Errorf("tournament already %s", t.status)
	}
	if len(t.entrants) < 2 {
		return nil, fmt.Errorf("need at least 2 agents, have %d", len(t.entrants))
	}

	t.status = InProgress
	t.levelStart = t.clock.Now()

	agents := make([]string, len(t.entrants))
	for i, e := range t.entrants {
		agents[i] = e.agentID
	}
	t.logger.Info("tournament starting", "agents", len(agents), "chips", t.cfg.StartChips)
	t.sink.Publish(StartedEvent{
		TournamentID: t.id,
		Agents:       agents,
		StartChips:   t.cfg.StartChips,
		At:           t.clock.Now(),
	})

	for t.liveCount() > 1 {
		if err := ctx.Err(); err != nil {
			t.logger.Warn("tournament cancelled", "hands", t.handNumber)
			return nil, err
		}
		if err := t.playHand(ctx); err != nil {
			return nil, err
		}
	}

	t.status = Completed
	result := t.result()
	t.logger.Info("tournament complete", "winner", result.Winner, "hands", result.TotalHands)
	t.sink.Publish(CompletedEvent{
		TournamentID: t.id,
		Winner:       result.Winner,
		Standings:    result.Standings,
		TotalHands:   result.TotalHands,
		At:           t.clock.Now(),
	})
	return result, nil
}

// playHand runs one complete hand: level check, deal, betting, settlement,
// eliminations and reflections.
func (t *Tournament) playHand(ctx context.Context) error {
	t.maybeLevelUp()
	t.handNumber++
	t.handsAtLevel++
	t.advanceButton()

	blinds := t.cfg.Schedule.Level(t.level)

	// Hand-local players for the live seats, in table order
	var players []*game.Player
	byAgent := map[string]*entrant{}
	buttonIdx := 0
	for pos, e := range t.entrants {
		if e.eliminated {
			continue
		}
		if pos == t.button {
			buttonIdx = len(players)
		}
		players = append(players, &game.Player{AgentID: e.agentID, Chips: e.chips})
		byAgent[e.agentID] = e
	}

	startChips := make(map[string]int, len(players))
	for _, p := range players {
		startChips[p.AgentID] = p.Chips
	}

	handID := uuid.NewString()
	h, err := game.NewHand(handID, t.rng, players, buttonIdx, blinds.SmallBlind, blinds.BigBlind, game.WithAnte(blinds.Ante))
	if err != nil {
		return fmt.Errorf("hand %d: %w", t.handNumber, err)
	}

	t.logger.Info("hand starting",
		"hand", t.handNumber, "level", t.level+1,
		"blinds", fmt.Sprintf("%d/%d", blinds.SmallBlind, blinds.BigBlind),
		"seats", len(players))
	t.sink.Publish(game.HandStartEvent{
		HandID:     handID,
		HandNumber: t.handNumber,
		Button:     buttonIdx,
		SmallBlind: blinds.SmallBlind,
		BigBlind:   blinds.BigBlind,
		Ante:       blinds.Ante,
		Seats:      game.PublicSeats(players),
		At:         t.clock.Now(),
	})

	if err := t.runBetting(ctx, h, blinds); err != nil {
		return fmt.Errorf("hand %d: %w", t.handNumber, err)
	}

	result, err := h.Settle()
	if err != nil {
		return fmt.Errorf("hand %d: %w", t.handNumber, err)
	}

	// Copy stacks back to the roster
	chips := make(map[string]int, len(players))
	for _, p := range players {
		byAgent[p.AgentID].chips = p.Chips
		chips[p.AgentID] = p.Chips
	}

	summary := fmt.Sprintf("Hand #%d | %s", t.handNumber, result.Summary(players))
	t.sink.Publish(game.NewHandEndEvent(result, players, t.clock.Now()))
	t.sink.Publish(HandCompletedEvent{
		TournamentID: t.id,
		HandNumber:   t.handNumber,
		Result:       result,
		Summary:      summary,
		Chips:        chips,
		At:           t.clock.Now(),
	})
	t.logger.Info("hand complete", "hand", t.handNumber, "summary", result.Summary(players))

	t.recordEliminations(startChips)
	t.reflect(ctx, handID, players, startChips, summary)
	return nil
}

// runBetting drives the hand's state machine, soliciting one decision at a
// time from the active seat's session. Street transitions publish board
// deals; every applied action is broadcast with its public trash talk.
func (t *Tournament) runBetting(ctx context.Context, h *game.HandState, blinds BlindLevel) error {
	street := h.Street

	for !h.IsComplete() {
		if h.Street != street {
			street = h.Street
			t.publishStreet(h)
		}

		p := h.Players[h.ActivePlayer]
		e := t.entrants[t.tablePos(p.AgentID)]
		valid := h.ValidActions()

		view := session.BuildView(h, session.Blinds{
			Small: blinds.SmallBlind,
			Big:   blinds.BigBlind,
			Ante:  blinds.Ante,
			Level: t.level + 1,
		})
		view.TrashTalk = append([]session.Remark(nil), t.trashTalk...)
		view.Notes = t.readNotes(ctx, p.AgentID)

		outcome := e.session.Act(ctx, view, valid)

		if err := h.ProcessAction(outcome.Action, outcome.Amount); err != nil {
			if !errors.Is(err, game.ErrIllegalAction) {
				return err
			}
			// The session already validated; reaching here means the legal
			// set moved underneath it. Same substitution policy as the
			// session: check when free, fold facing a bet, and a seat with
			// no legal actions owes nothing.
			t.logger.Warn("validated action rejected by engine, substituting", "agent", p.AgentID, "error", err)
			fresh := h.ValidActions()
			if len(fresh) == 0 {
				continue
			}
			sub := fallbackAction(fresh)
			outcome = session.Outcome{Action: sub, Substituted: true, TrashTalk: outcome.TrashTalk}
			if serr := h.ProcessAction(sub, 0); serr != nil {
				return serr
			}
		}

		if outcome.TrashTalk != "" {
			t.addTrashTalk(p.AgentID, outcome.TrashTalk)
		}
		t.sink.Publish(game.ActionEvent{
			HandID:      h.ID,
			Seat:        p.Seat,
			AgentID:     p.AgentID,
			Street:      street.String(),
			Action:      outcome.Action.String(),
			Amount:      outcome.Amount,
			Substituted: outcome.Substituted,
			TrashTalk:   outcome.TrashTalk,
			PotTotal:    potTotal(h),
			Seats:       game.PublicSeats(h.Players),
			At:          t.clock.Now(),
		})
	}

	// Publish any runout streets dealt after betting closed
	if h.Street != street {
		t.publishStreet(h)
	}
	return nil
}

// fallbackAction picks the default for a seat whose action was rejected:
// check when checking is free, otherwise fold.
func fallbackAction(valid []game.ValidAction) game.Action {
	for _, va := range valid {
		if va.Action == game.Check {
			return game.Check
		}
	}
	return game.Fold
}

func (t *Tournament) publishStreet(h *game.HandState) {
	if len(h.Board) == 0 {
		return
	}
	t.sink.Publish(game.StreetDealEvent{
		HandID: h.ID,
		Street: h.Street.String(),
		Board:  boardCodes(h),
		At:     t.clock.Now(),
	})
}

// recordEliminations marks seats that busted this hand. Simultaneous
// bust-outs are ordered by chip count at hand start, shorter stack out
// first, ties by table position.
func (t *Tournament) recordEliminations(startChips map[string]int) {
	var busted []*entrant
	for _, e := range t.entrants {
		if !e.eliminated && e.chips == 0 {
			busted = append(busted, e)
		}
	}
	// Insertion-ordered by (start chips, table position); the roster scan
	// above already yields table position order.
	for i := 1; i < len(busted); i++ {
		for j := i; j > 0 && startChips[busted[j].agentID] < startChips[busted[j-1].agentID]; j-- {
			busted[j], busted[j-1] = busted[j-1], busted[j]
		}
	}

	for _, e := range busted {
		e.eliminated = true
		t.bustOrder = append(t.bustOrder, e.agentID)
		place := len(t.entrants) - len(t.bustOrder) + 1
		t.logger.Info("agent eliminated", "agent", e.agentID, "place", place, "hand", t.handNumber)
		t.sink.Publish(EliminationEvent{
			TournamentID: t.id,
			AgentID:      e.agentID,
			Place:        place,
			HandNumber:   t.handNumber,
			At:           t.clock.Now(),
		})
	}
}

// reflect gives every agent that played the hand a chance to append a note
// about it. Failures and empty answers are skipped, never fatal.
func (t *Tournament) reflect(ctx context.Context, handID string, players []*game.Player, startChips map[string]int, summary string) {
	if t.notes == nil {
		return
	}
	for _, p := range players {
		e := t.entrants[t.tablePos(p.AgentID)]
		text := e.session.Reflect(ctx, session.Reflection{
			HandID:     handID,
			Summary:    summary,
			OwnCards:   cardCodes(p),
			NetChips:   p.Chips - startChips[p.AgentID],
			Eliminated: e.eliminated,
		})
		if text == "" {
			continue
		}
		note := notes.Note{
			AgentID:      p.AgentID,
			TournamentID: t.id,
			HandID:       handID,
			Text:         text,
			CreatedAt:    t.clock.Now(),
		}
		if err := t.notes.Append(ctx, note); err != nil {
			t.logger.Warn("note append failed, continuing degraded", "agent", p.AgentID, "error", err)
		}
	}
}

// readNotes loads an agent's own notes for its view. A store failure
// degrades to an empty snapshot.
func (t *Tournament) readNotes(ctx context.Context, agentID string) []string {
	if t.notes == nil {
		return nil
	}
	ns, err := t.notes.Read(ctx, agentID)
	if err != nil {
		t.logger.Warn("notes read failed, using empty snapshot", "agent", agentID, "error", err)
		return nil
	}
	texts := make([]string, len(ns))
	for i, n := range ns {
		texts[i] = n.Text
	}
	return texts
}

// maybeLevelUp advances the blind level when the hand count or the clock
// says so. The last level holds indefinitely.
func (t *Tournament) maybeLevelUp() {
	if t.level >= len(t.cfg.Schedule)-1 {
		return
	}
	lvl := t.cfg.Schedule.Level(t.level)
	elapsed := t.clock.Since(t.levelStart)
	if t.handsAtLevel < lvl.MaxHands && elapsed < lvl.MaxTime {
		return
	}

	t.level++
	t.handsAtLevel = 0
	t.levelStart = t.clock.Now()
	next := t.cfg.Schedule.Level(t.level)
	t.logger.Info("blinds up", "level", t.level+1,
		"blinds", fmt.Sprintf("%d/%d", next.SmallBlind, next.BigBlind), "ante", next.Ante)
	t.sink.Publish(LevelUpEvent{
		TournamentID: t.id,
		Level:        t.level + 1,
		SmallBlind:   next.SmallBlind,
		BigBlind:     next.BigBlind,
		Ante:         next.Ante,
		At:           t.clock.Now(),
	})
}

// advanceButton moves the button to the next live seat clockwise
func (t *Tournament) advanceButton() {
	n := len(t.entrants)
	for i := 1; i <= n; i++ {
		pos := (t.button + i) % n
		if pos < 0 {
			pos += n
		}
		if !t.entrants[pos].eliminated {
			t.button = pos
			return
		}
	}
}

func (t *Tournament) addTrashTalk(agentID, text string) {
	t.trashTalk = append(t.trashTalk, session.Remark{AgentID: agentID, Text: text})
	if over := len(t.trashTalk) - t.cfg.TrashTalkDepth; over > 0 {
		t.trashTalk = t.trashTalk[over:]
	}
}

func (t *Tournament) liveCount() int {
	live := 0
	for _, e := range t.entrants {
		if !e.eliminated {
			live++
		}
	}
	return live
}

func (t *Tournament) tablePos(agentID string) int {
	for i, e := range t.entrants {
		if e.agentID == agentID {
			return i
		}
	}
	return -1
}

// result builds the final standings: the survivor first, then bust-outs in
// reverse elimination order.
func (t *Tournament) result() *Result {
	r := &Result{
		TournamentID: t.id,
		TotalHands:   t.handNumber,
	}
	for _, e := range t.entrants {
		if !e.eliminated {
			r.Winner = e.agentID
			r.Standings = append(r.Standings, Standing{AgentID: e.agentID, Place: 1, Chips: e.chips})
		}
	}
	for i := len(t.bustOrder) - 1; i >= 0; i-- {
		r.Standings = append(r.Standings, Standing{
			AgentID: t.bustOrder[i],
			Place:   len(t.entrants) - i,
		})
	}
	return r
}

func potTotal(h *game.HandState) int {
	total := 0
	for _, pot := range h.Pots.PotsWithUncollected(h.Players) {
		total += pot.Amount
	}
	return total
}

func boardCodes(h *game.HandState) []string {
	codes := make([]string, len(h.Board))
	for i, c := range h.Board {
		codes[i] = c.Code()
	}
	return codes
}

func cardCodes(p *game.Player) []string {
	codes := make([]string, len(p.HoleCards))
	for i, c := range p.HoleCards {
		codes[i] = c.Code()
	}
	return codes
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
