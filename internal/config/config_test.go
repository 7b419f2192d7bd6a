package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arena.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	require.Equal(t, 10000, cfg.Tournament.StartChips)
	require.Equal(t, 30*time.Second, cfg.DecisionTimeout())
	require.Len(t, cfg.Agents, 4)
	require.NoError(t, cfg.Validate())
}

func TestLoadParsesFullConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
tournament {
  start_chips      = 5000
  decision_seconds = 15
  count            = 3
  concurrent       = true
}

blind_level {
  small_blind = 50
  big_blind   = 100
}

blind_level {
  small_blind = 100
  big_blind   = 200
  ante        = 25
  max_hands   = 8
  max_minutes = 3
}

agent "maverick" {
  backend     = "llm"
  model       = "gpt-4o"
  personality = "loose and aggressive"
  max_tokens  = 400
  temperature = 0.9
}

agent "rock" {
  backend = "foldbot"
}

notes {
  dir = "/tmp/feltarena-notes"
}

broadcast {
  listen  = ":9090"
  console = true
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, 5000, cfg.Tournament.StartChips)
	require.Equal(t, 15*time.Second, cfg.DecisionTimeout())
	require.Equal(t, 3, cfg.Tournament.Count)
	require.True(t, cfg.Tournament.Concurrent)

	sched := cfg.Schedule()
	require.Len(t, sched, 2)
	require.Equal(t, 50, sched[0].SmallBlind)
	require.Equal(t, 10, sched[0].MaxHands)
	require.Equal(t, 5*time.Minute, sched[0].MaxTime)
	require.Equal(t, 25, sched[1].Ante)
	require.Equal(t, 8, sched[1].MaxHands)
	require.Equal(t, 3*time.Minute, sched[1].MaxTime)

	require.Equal(t, "maverick", cfg.Agents[0].Name)
	require.Equal(t, "OPENAI_API_KEY", cfg.Agents[0].APIKeyEnv)
	require.Equal(t, 0.9, cfg.Agents[0].Temperature)
	require.Equal(t, "foldbot", cfg.Agents[1].Backend)

	require.Equal(t, ":9090", cfg.Broadcast.Listen)
}

func TestEmptyScheduleFallsBackToDefault(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
agent "a" { backend = "callbot" }
agent "b" { backend = "callbot" }
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	sched := cfg.Schedule()
	require.Len(t, sched, 12)
	require.Equal(t, 100, sched[0].SmallBlind)
	require.Equal(t, 8000, sched[11].BigBlind)
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "single agent",
			mutate:  func(c *Config) { c.Agents = c.Agents[:1] },
			wantErr: "at least two agents",
		},
		{
			name: "duplicate names",
			mutate: func(c *Config) {
				c.Agents[1].Name = c.Agents[0].Name
			},
			wantErr: "duplicate name",
		},
		{
			name: "unknown backend",
			mutate: func(c *Config) {
				c.Agents[0].Backend = "psychic"
			},
			wantErr: "invalid backend",
		},
		{
			name: "llm without model",
			mutate: func(c *Config) {
				c.Agents[0].Backend = "llm"
				c.Agents[0].Model = ""
			},
			wantErr: "requires a model",
		},
		{
			name: "inverted blinds",
			mutate: func(c *Config) {
				c.BlindLevels = []BlindLevelConfig{{SmallBlind: 200, BigBlind: 100}}
			},
			wantErr: "big blind must be greater",
		},
		{
			name: "both note stores",
			mutate: func(c *Config) {
				c.Notes.Dir = "notes"
				c.Notes.PostgresDSN = "postgres://localhost/arena"
			},
			wantErr: "not both",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRejectsMalformedHCL(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `tournament { start_chips = `)
	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse")
}
