package notes

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// PostgresStore persists notes in Postgres so they survive across processes
// and hosts. Each append is one insert; reads come back ordered by insertion.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the given DSN and ensures the notes schema exists
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect notes db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping notes db: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate notes schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the connection pool
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Read returns the agent's notes in append order
func (s *PostgresStore) Read(ctx context.Context, agentID string) ([]Note, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT agent_id, tournament_id, hand_id, note, created_at
		  FROM agent_notes
		 WHERE agent_id = $1
		 ORDER BY id
	`, agentID)
	if err != nil {
		return nil, fmt.Errorf("read notes for %s: %w", agentID, err)
	}
	defer rows.Close()

	var ns []Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.AgentID, &n.TournamentID, &n.HandID, &n.Text, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		ns = append(ns, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read notes for %s: %w", agentID, err)
	}
	return ns, nil
}

// Append persists a note for its agent
func (s *PostgresStore) Append(ctx context.Context, note Note) error {
	if note.AgentID == "" {
		return fmt.Errorf("append note: empty agent id")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO agent_notes(agent_id, tournament_id, hand_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, note.AgentID, note.TournamentID, note.HandID, note.Text, note.CreatedAt)
	if err != nil {
		return fmt.Errorf("append note for %s: %w", note.AgentID, err)
	}
	return nil
}
