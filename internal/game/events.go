package game

import (
	"time"

	"github.com/feltarena/feltarena/poker"
)

// EventType identifies a class of spectator-visible event
type EventType string

const (
	EventTypeHandStart  EventType = "hand_start"
	EventTypeStreetDeal EventType = "street_deal"
	EventTypeAction     EventType = "action"
	EventTypeHandEnd    EventType = "hand_end"
)

// GameEvent is anything the engine broadcasts to spectators. Events carry
// public information only: never a hidden hole card before reveal, never a
// seat's private thoughts.
type GameEvent interface {
	EventType() EventType
	Occurred() time.Time
}

// EventSink receives events. The engine publishes unconditionally; sinks
// decide whether anyone is listening.
type EventSink interface {
	Publish(event GameEvent)
}

// NopSink discards all events
type NopSink struct{}

func (NopSink) Publish(GameEvent) {}

// MultiSink fans out to several sinks in order
type MultiSink []EventSink

func (m MultiSink) Publish(event GameEvent) {
	for _, sink := range m {
		sink.Publish(event)
	}
}

// SeatPublic is the spectator-visible state of one seat
type SeatPublic struct {
	Seat    int    `json:"seat"`
	AgentID string `json:"agent_id"`
	Chips   int    `json:"chips"`
	Bet     int    `json:"bet"`
	Folded  bool   `json:"folded"`
	AllIn   bool   `json:"all_in"`
}

// PublicSeats snapshots the spectator-visible view of every seat
func PublicSeats(players []*Player) []SeatPublic {
	seats := make([]SeatPublic, len(players))
	for i, p := range players {
		seats[i] = SeatPublic{
			Seat:    p.Seat,
			AgentID: p.AgentID,
			Chips:   p.Chips,
			Bet:     p.StreetBet,
			Folded:  p.Folded,
			AllIn:   p.AllIn,
		}
	}
	return seats
}

// HandStartEvent is published when a new hand begins
type HandStartEvent struct {
	HandID     string       `json:"hand_id"`
	HandNumber int          `json:"hand_number"`
	Button     int          `json:"button"`
	SmallBlind int          `json:"small_blind"`
	BigBlind   int          `json:"big_blind"`
	Ante       int          `json:"ante"`
	Seats      []SeatPublic `json:"seats"`
	At         time.Time    `json:"at"`
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Occurred() time.Time  { return e.At }

// StreetDealEvent is published when community cards hit the board
type StreetDealEvent struct {
	HandID string    `json:"hand_id"`
	Street string    `json:"street"`
	Board  []string  `json:"board"`
	At     time.Time `json:"at"`
}

func (e StreetDealEvent) EventType() EventType { return EventTypeStreetDeal }
func (e StreetDealEvent) Occurred() time.Time  { return e.At }

// ActionEvent is published after every applied action. Substituted marks
// actions the engine applied in place of a timed-out or invalid agent
// response. TrashTalk is the seat's public channel; private thoughts are
// never placed here.
type ActionEvent struct {
	HandID      string       `json:"hand_id"`
	Seat        int          `json:"seat"`
	AgentID     string       `json:"agent_id"`
	Street      string       `json:"street"`
	Action      string       `json:"action"`
	Amount      int          `json:"amount,omitempty"`
	Substituted bool         `json:"substituted,omitempty"`
	TrashTalk   string       `json:"trash_talk,omitempty"`
	PotTotal    int          `json:"pot_total"`
	Seats       []SeatPublic `json:"seats"`
	At          time.Time    `json:"at"`
}

func (e ActionEvent) EventType() EventType { return EventTypeAction }
func (e ActionEvent) Occurred() time.Time  { return e.At }

// RevealedPublic is one showdown holding as spectators see it
type RevealedPublic struct {
	Seat    int      `json:"seat"`
	AgentID string   `json:"agent_id"`
	Cards   []string `json:"cards"`
	Hand    string   `json:"hand"`
}

// HandEndEvent is published when a hand resolves. Cards appear only for
// seats the showdown actually revealed.
type HandEndEvent struct {
	HandID   string           `json:"hand_id"`
	Board    []string         `json:"board"`
	Winners  []string         `json:"winners"`
	Awards   []PotAward       `json:"awards"`
	Revealed []RevealedPublic `json:"revealed,omitempty"`
	Summary  string           `json:"summary"`
	At       time.Time        `json:"at"`
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Occurred() time.Time  { return e.At }

// NewHandEndEvent builds the spectator view of a settled hand
func NewHandEndEvent(result *HandResult, players []*Player, at time.Time) HandEndEvent {
	ev := HandEndEvent{
		HandID:  result.HandID,
		Board:   poker.CardCodes(result.Board),
		Winners: result.Winners(players),
		Awards:  result.Awards,
		Summary: result.Summary(players),
		At:      at,
	}
	for _, sh := range result.Revealed {
		ev.Revealed = append(ev.Revealed, RevealedPublic{
			Seat:    sh.Seat,
			AgentID: sh.AgentID,
			Cards:   poker.CardCodes(sh.Cards),
			Hand:    sh.Value.String(),
		})
	}
	return ev
}
