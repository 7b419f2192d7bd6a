package tournament

import (
	"time"

	"github.com/feltarena/feltarena/internal/game"
)

// Tournament lifecycle events share the spectator sink with per-hand game
// events so one broadcast pipeline carries everything.
const (
	EventTypeTournamentStart     game.EventType = "tournament_start"
	EventTypeLevelUp             game.EventType = "level_up"
	EventTypeHandCompleted       game.EventType = "hand_completed"
	EventTypeElimination         game.EventType = "elimination"
	EventTypeTournamentCompleted game.EventType = "tournament_completed"
)

// StartedEvent announces a tournament beginning
type StartedEvent struct {
	TournamentID string    `json:"tournament_id"`
	Agents       []string  `json:"agents"`
	StartChips   int       `json:"start_chips"`
	At           time.Time `json:"at"`
}

func (e StartedEvent) EventType() game.EventType { return EventTypeTournamentStart }
func (e StartedEvent) Occurred() time.Time       { return e.At }

// LevelUpEvent announces a blind escalation
type LevelUpEvent struct {
	TournamentID string    `json:"tournament_id"`
	Level        int       `json:"level"` // 1-based for display
	SmallBlind   int       `json:"small_blind"`
	BigBlind     int       `json:"big_blind"`
	Ante         int       `json:"ante,omitempty"`
	At           time.Time `json:"at"`
}

func (e LevelUpEvent) EventType() game.EventType { return EventTypeLevelUp }
func (e LevelUpEvent) Occurred() time.Time       { return e.At }

// HandCompletedEvent carries the hand result and a human-readable summary
type HandCompletedEvent struct {
	TournamentID string           `json:"tournament_id"`
	HandNumber   int              `json:"hand_number"`
	Result       *game.HandResult `json:"result"`
	Summary      string           `json:"summary"`
	Chips        map[string]int   `json:"chips"` // agent -> stack after the hand
	At           time.Time        `json:"at"`
}

func (e HandCompletedEvent) EventType() game.EventType { return EventTypeHandCompleted }
func (e HandCompletedEvent) Occurred() time.Time       { return e.At }

// EliminationEvent announces a bust-out with its finishing place
type EliminationEvent struct {
	TournamentID string    `json:"tournament_id"`
	AgentID      string    `json:"agent_id"`
	Place        int       `json:"place"`
	HandNumber   int       `json:"hand_number"`
	At           time.Time `json:"at"`
}

func (e EliminationEvent) EventType() game.EventType { return EventTypeElimination }
func (e EliminationEvent) Occurred() time.Time       { return e.At }

// CompletedEvent carries the final standings
type CompletedEvent struct {
	TournamentID string     `json:"tournament_id"`
	Winner       string     `json:"winner"`
	Standings    []Standing `json:"standings"`
	TotalHands   int        `json:"total_hands"`
	At           time.Time  `json:"at"`
}

func (e CompletedEvent) EventType() game.EventType { return EventTypeTournamentCompleted }
func (e CompletedEvent) Occurred() time.Time       { return e.At }
