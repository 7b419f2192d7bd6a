// Package notes persists per-agent memory between hands and tournaments.
// Agents read their own notes when deciding and append reflections after
// each hand. A store never serves one agent's notes to another.
package notes

import (
	"context"
	"time"
)

// Note is one persisted observation by an agent
type Note struct {
	AgentID      string    `json:"agent_id"`
	TournamentID string    `json:"tournament_id,omitempty"`
	HandID       string    `json:"hand_id,omitempty"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store reads and appends notes for an agent. Read returns notes in the
// order they were appended; an agent with no notes gets an empty slice,
// not an error.
type Store interface {
	Read(ctx context.Context, agentID string) ([]Note, error)
	Append(ctx context.Context, note Note) error
}
