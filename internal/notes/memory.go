package notes

import (
	"context"
	"sync"
)

// MemoryStore holds notes in memory. Used in tests and as the default when
// no persistence is configured.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string][]Note
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string][]Note)}
}

func (s *MemoryStore) Read(_ context.Context, agentID string) ([]Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ns := s.m[agentID]
	out := make([]Note, len(ns))
	copy(out, ns)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, note Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[note.AgentID] = append(s.m[note.AgentID], note)
	return nil
}
