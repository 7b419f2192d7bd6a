package session

import (
	"context"
)

// CallBot checks or calls whenever it can. Useful as a baseline opponent
// and as a seat filler when a roster slot has no LLM backend configured.
type CallBot struct{}

func (CallBot) Decide(_ context.Context, view View) (Decision, error) {
	if hasOption(view.Actions, "check") {
		return Decision{Action: "check", Reasoning: "call-bot checking"}, nil
	}
	if hasOption(view.Actions, "call") {
		return Decision{Action: "call", Reasoning: "call-bot calling"}, nil
	}
	if opt, ok := findOption(view.Actions, "allin"); ok {
		return Decision{Action: "allin", Amount: opt.Min, Reasoning: "call-bot forced all-in"}, nil
	}
	return Decision{Action: "fold", Reasoning: "call-bot forced fold"}, nil
}

func (CallBot) Reflect(context.Context, Reflection) (string, error) {
	return "", nil
}

// FoldBot folds to any bet and checks otherwise. It blinds off until
// eliminated, which makes deterministic tournament tests easy to reason
// about.
type FoldBot struct{}

func (FoldBot) Decide(_ context.Context, view View) (Decision, error) {
	if hasOption(view.Actions, "check") {
		return Decision{Action: "check", Reasoning: "fold-bot checking"}, nil
	}
	return Decision{Action: "fold", Reasoning: "fold-bot folding"}, nil
}

func (FoldBot) Reflect(context.Context, Reflection) (string, error) {
	return "", nil
}

func hasOption(opts []ActionOption, action string) bool {
	_, ok := findOption(opts, action)
	return ok
}

func findOption(opts []ActionOption, action string) (ActionOption, bool) {
	for _, opt := range opts {
		if opt.Action == action {
			return opt, true
		}
	}
	return ActionOption{}, false
}
