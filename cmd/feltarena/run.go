package main

import (
	"context"
	"fmt"
	"os"
	"time"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/feltarena/feltarena/internal/broadcast"
	"github.com/feltarena/feltarena/internal/config"
	"github.com/feltarena/feltarena/internal/game"
	"github.com/feltarena/feltarena/internal/notes"
	"github.com/feltarena/feltarena/internal/randutil"
	"github.com/feltarena/feltarena/internal/session"
	"github.com/feltarena/feltarena/internal/tournament"
)

// RunCmd runs one or more tournaments from an HCL config
type RunCmd struct {
	Config     string `kong:"default='arena.hcl',help='Path to arena HCL config'"`
	Debug      bool   `kong:"help='Enable debug logging'"`
	Count      int    `kong:"help='Number of tournaments to run (overrides config)'"`
	Concurrent bool   `kong:"help='Run tournaments concurrently (overrides config)'"`
	Listen     string `kong:"help='Spectator websocket address (overrides config)'"`
	NoConsole  bool   `kong:"name='no-console',help='Disable the console play-by-play'"`
	Seed       *int64 `kong:"help='Deterministic RNG seed (optional)'"`
}

func (c *RunCmd) Run() error {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	logger := setupLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Count > 0 {
		cfg.Tournament.Count = c.Count
	}
	if c.Concurrent {
		cfg.Tournament.Concurrent = true
	}
	if c.Listen != "" {
		cfg.Broadcast.Listen = c.Listen
	}
	if c.NoConsole {
		cfg.Broadcast.Console = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
		logger.Info("using random seed", "seed", seed)
	}

	ctx := signalContext(logger)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var sinks game.MultiSink
	if cfg.Broadcast.Console {
		sinks = append(sinks, broadcast.NewMonitor(os.Stdout))
	}
	if cfg.Broadcast.Listen != "" {
		hub := broadcast.NewHub(logger)
		sinks = append(sinks, hub)
		go func() {
			if err := hub.Serve(ctx, cfg.Broadcast.Listen); err != nil {
				logger.Error("spectator server stopped", "err", err)
			}
		}()
		logger.Info("spectators welcome", "addr", cfg.Broadcast.Listen)
	}

	logger.Info("starting tournaments",
		"count", cfg.Tournament.Count,
		"concurrent", cfg.Tournament.Concurrent,
		"agents", len(cfg.Agents),
		"start_chips", cfg.Tournament.StartChips,
	)

	tcfg := tournament.Config{
		StartChips:      cfg.Tournament.StartChips,
		Schedule:        cfg.Schedule(),
		DecisionTimeout: cfg.DecisionTimeout(),
		TrashTalkDepth:  cfg.Tournament.TrashTalkDepth,
	}

	runOne := func(ctx context.Context, rng *rand.Rand) error {
		tourney := tournament.New(tcfg, quartz.NewReal(), rng, sinks, store, logger)
		for _, a := range cfg.Agents {
			agent, err := buildAgent(a, logger)
			if err != nil {
				return err
			}
			if err := tourney.Register(a.Name, agent); err != nil {
				return err
			}
		}
		result, err := tourney.Run(ctx)
		if err != nil {
			return err
		}
		logger.Info("tournament complete",
			"id", result.TournamentID,
			"winner", result.Winner,
			"hands", result.TotalHands,
		)
		return nil
	}

	if cfg.Tournament.Concurrent {
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < cfg.Tournament.Count; i++ {
			rng := randutil.New(seed + int64(i))
			g.Go(func() error {
				return runOne(gctx, rng)
			})
		}
		return g.Wait()
	}

	for i := 0; i < cfg.Tournament.Count; i++ {
		if err := runOne(ctx, randutil.New(seed+int64(i))); err != nil {
			return err
		}
	}
	return nil
}

// openStore picks the configured notes backend. The returned closer is
// always safe to call.
func openStore(ctx context.Context, cfg *config.Config) (notes.Store, func(), error) {
	if cfg.Notes.PostgresDSN != "" {
		pg, err := notes.OpenPostgres(ctx, cfg.Notes.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres notes store: %w", err)
		}
		return pg, pg.Close, nil
	}
	fs, err := notes.NewFileStore(cfg.Notes.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open file notes store: %w", err)
	}
	return fs, func() {}, nil
}

func buildAgent(a config.AgentConfig, logger *log.Logger) (session.Agent, error) {
	switch a.Backend {
	case "callbot":
		return session.CallBot{}, nil
	case "foldbot":
		return session.FoldBot{}, nil
	case "llm":
		apiKey := os.Getenv(a.APIKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("agent %s: environment variable %s is not set", a.Name, a.APIKeyEnv)
		}
		return session.NewLLMAgent(session.LLMConfig{
			BaseURL:     a.BaseURL,
			APIKey:      apiKey,
			Model:       a.Model,
			Personality: a.Personality,
			MaxTokens:   a.MaxTokens,
			Temperature: a.Temperature,
		}, nil, logger), nil
	default:
		return nil, fmt.Errorf("agent %s: unknown backend %s", a.Name, a.Backend)
	}
}
