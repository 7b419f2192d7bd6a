// Package session connects autonomous agents to the table. A Session owns
// one seat's communication: it builds the view an agent is allowed to see,
// asks for a decision under a deadline, validates the answer and keeps the
// agent's private reasoning out of everything other seats observe.
package session

import (
	"context"
)

// Decision is what an agent returns for one action. Reasoning and
// InnerThoughts are private to the agent's own record; TrashTalk is the only
// free-text field ever shown to other seats.
type Decision struct {
	Action        string `json:"action"`
	Amount        int    `json:"amount,omitempty"`
	Reasoning     string `json:"reasoning,omitempty"`
	InnerThoughts string `json:"inner_thoughts,omitempty"`
	TrashTalk     string `json:"trash_talk,omitempty"`
}

// Reflection is the post-hand prompt an agent reflects on. The agent's
// answer is appended to its private notes.
type Reflection struct {
	HandID     string   `json:"hand_id"`
	Summary    string   `json:"summary"`
	OwnCards   []string `json:"own_cards"`
	NetChips   int      `json:"net_chips"`
	Eliminated bool     `json:"eliminated"`
}

// Agent is anything that can play a seat: an LLM over HTTP, a rule-based
// local bot, or a test double. Decide must respect ctx; the session enforces
// the deadline and substitutes a default action when it is missed.
type Agent interface {
	Decide(ctx context.Context, view View) (Decision, error)
	Reflect(ctx context.Context, r Reflection) (string, error)
}
