// Package config loads arena configuration from HCL files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/feltarena/feltarena/internal/tournament"
)

// Config represents the complete arena configuration
type Config struct {
	Tournament  TournamentSettings `hcl:"tournament,block"`
	BlindLevels []BlindLevelConfig `hcl:"blind_level,block"`
	Agents      []AgentConfig      `hcl:"agent,block"`
	Notes       NotesSettings      `hcl:"notes,block"`
	Broadcast   BroadcastSettings  `hcl:"broadcast,block"`
}

// TournamentSettings contains tournament-level configuration
type TournamentSettings struct {
	StartChips      int  `hcl:"start_chips,optional"`
	DecisionSeconds int  `hcl:"decision_seconds,optional"`
	TrashTalkDepth  int  `hcl:"trash_talk_depth,optional"`
	Count           int  `hcl:"count,optional"`
	Concurrent      bool `hcl:"concurrent,optional"`
}

// BlindLevelConfig defines one level of the blind schedule
type BlindLevelConfig struct {
	SmallBlind int `hcl:"small_blind"`
	BigBlind   int `hcl:"big_blind"`
	Ante       int `hcl:"ante,optional"`
	MaxHands   int `hcl:"max_hands,optional"`
	MaxMinutes int `hcl:"max_minutes,optional"`
}

// AgentConfig defines a seated agent
type AgentConfig struct {
	Name        string  `hcl:"name,label"`
	Backend     string  `hcl:"backend,optional"`
	Model       string  `hcl:"model,optional"`
	Personality string  `hcl:"personality,optional"`
	BaseURL     string  `hcl:"base_url,optional"`
	APIKeyEnv   string  `hcl:"api_key_env,optional"`
	MaxTokens   int     `hcl:"max_tokens,optional"`
	Temperature float64 `hcl:"temperature,optional"`
}

// NotesSettings selects where agent notes persist
type NotesSettings struct {
	Dir         string `hcl:"dir,optional"`
	PostgresDSN string `hcl:"postgres_dsn,optional"`
}

// BroadcastSettings contains spectator stream configuration
type BroadcastSettings struct {
	Listen  string `hcl:"listen,optional"`
	Console bool   `hcl:"console,optional"`
}

// Default returns the default arena configuration
func Default() *Config {
	return &Config{
		Tournament: TournamentSettings{
			StartChips:      10000,
			DecisionSeconds: 30,
			TrashTalkDepth:  20,
			Count:           1,
		},
		Agents: []AgentConfig{
			{Name: "caller-one", Backend: "callbot"},
			{Name: "caller-two", Backend: "callbot"},
			{Name: "folder-one", Backend: "foldbot"},
			{Name: "folder-two", Backend: "foldbot"},
		},
		Notes: NotesSettings{
			Dir: "notes",
		},
		Broadcast: BroadcastSettings{
			Console: true,
		},
	}
}

// Load loads arena configuration from an HCL file
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if cfg.Tournament.StartChips == 0 {
		cfg.Tournament.StartChips = 10000
	}
	if cfg.Tournament.DecisionSeconds == 0 {
		cfg.Tournament.DecisionSeconds = 30
	}
	if cfg.Tournament.TrashTalkDepth == 0 {
		cfg.Tournament.TrashTalkDepth = 20
	}
	if cfg.Tournament.Count == 0 {
		cfg.Tournament.Count = 1
	}
	if cfg.Notes.Dir == "" && cfg.Notes.PostgresDSN == "" {
		cfg.Notes.Dir = "notes"
	}

	for i := range cfg.Agents {
		if cfg.Agents[i].Backend == "" {
			cfg.Agents[i].Backend = "llm"
		}
		if cfg.Agents[i].Backend == "llm" && cfg.Agents[i].APIKeyEnv == "" {
			cfg.Agents[i].APIKeyEnv = "OPENAI_API_KEY"
		}
	}

	for i := range cfg.BlindLevels {
		if cfg.BlindLevels[i].MaxHands == 0 {
			cfg.BlindLevels[i].MaxHands = 10
		}
		if cfg.BlindLevels[i].MaxMinutes == 0 {
			cfg.BlindLevels[i].MaxMinutes = 5
		}
	}

	return &cfg, nil
}

// Validate validates the arena configuration
func (c *Config) Validate() error {
	if c.Tournament.StartChips <= 0 {
		return fmt.Errorf("start chips must be positive")
	}
	if c.Tournament.Count < 1 {
		return fmt.Errorf("tournament count must be at least 1")
	}

	if len(c.Agents) < 2 {
		return fmt.Errorf("at least two agents must be configured")
	}

	seen := make(map[string]bool)
	validBackends := map[string]bool{
		"llm":     true,
		"callbot": true,
		"foldbot": true,
	}
	for _, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("agent name must not be empty")
		}
		if seen[a.Name] {
			return fmt.Errorf("agent %s: duplicate name", a.Name)
		}
		seen[a.Name] = true
		if !validBackends[a.Backend] {
			return fmt.Errorf("agent %s: invalid backend %s", a.Name, a.Backend)
		}
		if a.Backend == "llm" && a.Model == "" {
			return fmt.Errorf("agent %s: llm backend requires a model", a.Name)
		}
	}

	for i, lvl := range c.BlindLevels {
		if lvl.SmallBlind <= 0 {
			return fmt.Errorf("blind level %d: small blind must be positive", i+1)
		}
		if lvl.BigBlind <= lvl.SmallBlind {
			return fmt.Errorf("blind level %d: big blind must be greater than small blind", i+1)
		}
		if lvl.Ante < 0 {
			return fmt.Errorf("blind level %d: ante must not be negative", i+1)
		}
	}

	if c.Notes.Dir != "" && c.Notes.PostgresDSN != "" {
		return fmt.Errorf("notes: configure either dir or postgres_dsn, not both")
	}

	return nil
}

// DecisionTimeout returns the per-decision deadline as a duration
func (c *Config) DecisionTimeout() time.Duration {
	return time.Duration(c.Tournament.DecisionSeconds) * time.Second
}

// Schedule builds the blind schedule, falling back to the standard
// structure when no levels are configured.
func (c *Config) Schedule() tournament.Schedule {
	if len(c.BlindLevels) == 0 {
		return tournament.DefaultSchedule()
	}
	sched := make(tournament.Schedule, 0, len(c.BlindLevels))
	for _, lvl := range c.BlindLevels {
		sched = append(sched, tournament.BlindLevel{
			SmallBlind: lvl.SmallBlind,
			BigBlind:   lvl.BigBlind,
			Ante:       lvl.Ante,
			MaxHands:   lvl.MaxHands,
			MaxTime:    time.Duration(lvl.MaxMinutes) * time.Minute,
		})
	}
	return sched
}
