package notes

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/feltarena/feltarena/internal/fileutil"
)

// FileStore keeps one JSON-lines file per agent under a directory. Appends
// rewrite the agent's file atomically so a crash mid-write never corrupts
// existing notes. Safe for concurrent use.
type FileStore struct {
	dir string

	mu    sync.Mutex
	cache map[string][]Note // agentID -> notes, loaded lazily
}

// NewFileStore creates the directory if needed and returns a store backed
// by it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create notes dir: %w", err)
	}
	return &FileStore{
		dir:   dir,
		cache: make(map[string][]Note),
	}, nil
}

// Read returns the agent's notes in append order
func (s *FileStore) Read(_ context.Context, agentID string) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, err := s.loadLocked(agentID)
	if err != nil {
		return nil, err
	}
	out := make([]Note, len(ns))
	copy(out, ns)
	return out, nil
}

// Append persists a note for its agent
func (s *FileStore) Append(_ context.Context, note Note) error {
	if note.AgentID == "" {
		return fmt.Errorf("append note: empty agent id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ns, err := s.loadLocked(note.AgentID)
	if err != nil {
		return err
	}
	ns = append(ns, note)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, n := range ns {
		if err := enc.Encode(n); err != nil {
			return fmt.Errorf("encode note: %w", err)
		}
	}
	if err := fileutil.WriteFileAtomic(s.path(note.AgentID), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write notes for %s: %w", note.AgentID, err)
	}

	s.cache[note.AgentID] = ns
	return nil
}

func (s *FileStore) loadLocked(agentID string) ([]Note, error) {
	if ns, ok := s.cache[agentID]; ok {
		return ns, nil
	}

	f, err := os.Open(s.path(agentID))
	if os.IsNotExist(err) {
		s.cache[agentID] = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open notes for %s: %w", agentID, err)
	}
	defer f.Close()

	var ns []Note
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var n Note
		if err := json.Unmarshal(line, &n); err != nil {
			return nil, fmt.Errorf("decode notes for %s: %w", agentID, err)
		}
		ns = append(ns, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read notes for %s: %w", agentID, err)
	}

	s.cache[agentID] = ns
	return ns, nil
}

func (s *FileStore) path(agentID string) string {
	return filepath.Join(s.dir, sanitize(agentID)+".jsonl")
}

// sanitize maps an agent id to a safe file name
func sanitize(agentID string) string {
	var b strings.Builder
	for _, r := range agentID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
