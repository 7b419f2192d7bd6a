package main

import (
	"fmt"
	"os"

	"github.com/feltarena/feltarena/internal/config"
)

// NotesCmd prints an agent's persisted notes in chronological order
type NotesCmd struct {
	Agent  string `kong:"arg,help='Agent ID to dump notes for'"`
	Config string `kong:"default='arena.hcl',help='Path to arena HCL config'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *NotesCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	ctx := signalContext(logger)

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	all, err := store.Read(ctx, c.Agent)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Fprintf(os.Stderr, "no notes for agent %q\n", c.Agent)
		return nil
	}

	for _, n := range all {
		fmt.Printf("[%s] hand %s\n%s\n\n", n.CreatedAt.Format("2006-01-02 15:04:05"), n.HandID, n.Text)
	}
	return nil
}
