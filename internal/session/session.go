package session

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltarena/feltarena/internal/game"
)

// Outcome is a session's answer for one action request. Reasoning and
// InnerThoughts stay on the private channel: the tournament runner records
// them for the agent's own seat and never publishes them. TrashTalk is
// public.
type Outcome struct {
	Action        game.Action
	Amount        int
	Substituted   bool
	TrashTalk     string
	Reasoning     string
	InnerThoughts string
}

// Session binds one agent to one seat for a tournament. It enforces the
// decision deadline, validates answers against the legal action set, and
// substitutes a default action when the agent times out, errors or answers
// illegally. A substituted action never aborts the hand.
type Session struct {
	agentID string
	agent   Agent
	clock   quartz.Clock
	timeout time.Duration
	logger  *log.Logger
}

// New creates a session for an agent
func New(agentID string, agent Agent, clock quartz.Clock, timeout time.Duration, logger *log.Logger) *Session {
	return &Session{
		agentID: agentID,
		agent:   agent,
		clock:   clock,
		timeout: timeout,
		logger:  logger.WithPrefix("session").With("agent", agentID),
	}
}

// AgentID returns the agent this session speaks for
func (s *Session) AgentID() string { return s.agentID }

// Act requests a decision for the given view and returns a legal outcome.
// The view must already be scoped to this seat; Act never sees other seats'
// hole cards. Whatever the agent does, Act returns within the deadline with
// either the agent's action or the default substitution.
func (s *Session) Act(ctx context.Context, view View, valid []game.ValidAction) Outcome {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel() // abandon the in-flight decision once we return

	type reply struct {
		d   Decision
		err error
	}
	replies := make(chan reply, 1)
	go func() {
		d, err := s.agent.Decide(ctx, view)
		replies <- reply{d, err}
	}()

	timedOut := make(chan struct{})
	timer := s.clock.AfterFunc(s.timeout, func() {
		close(timedOut)
	})
	defer timer.Stop()

	select {
	case r := <-replies:
		if r.err != nil {
			s.logger.Warn("agent decision failed, substituting default", "error", r.err)
			return s.substitute(valid, "")
		}
		return s.validate(r.d, valid)

	case <-timedOut:
		s.logger.Warn("agent decision timed out, substituting default", "timeout", s.timeout)
		return s.substitute(valid, "")

	case <-ctx.Done():
		s.logger.Warn("decision cancelled, substituting default", "cause", ctx.Err())
		return s.substitute(valid, "")
	}
}

// validate turns an agent decision into a legal outcome, substituting the
// default when the action or amount is not in the legal set.
func (s *Session) validate(d Decision, valid []game.ValidAction) Outcome {
	action, ok := game.ParseAction(d.Action)
	if !ok {
		s.logger.Warn("agent returned unknown action, substituting default", "action", d.Action)
		return s.substitute(valid, d.TrashTalk)
	}

	va, ok := findValid(valid, action)
	if !ok {
		s.logger.Warn("agent action not legal here, substituting default", "action", action)
		return s.substitute(valid, d.TrashTalk)
	}

	amount := d.Amount
	switch action {
	case game.Bet, game.Raise:
		if amount < va.MinAmount || amount > va.MaxAmount {
			s.logger.Warn("agent amount out of range, substituting default",
				"action", action, "amount", amount, "min", va.MinAmount, "max", va.MaxAmount)
			return s.substitute(valid, d.TrashTalk)
		}
	case game.Call, game.AllIn:
		amount = va.MinAmount
	default:
		amount = 0
	}

	s.logger.Debug("agent decision accepted",
		"action", action, "amount", amount,
		"reasoning", d.Reasoning, "thoughts", d.InnerThoughts)

	return Outcome{
		Action:        action,
		Amount:        amount,
		TrashTalk:     d.TrashTalk,
		Reasoning:     d.Reasoning,
		InnerThoughts: d.InnerThoughts,
	}
}

// substitute picks the default action: check when checking is free, fold
// when facing a bet. Trash talk from an otherwise invalid decision still
// rides along; it costs nothing and keeps the table lively.
func (s *Session) substitute(valid []game.ValidAction, trashTalk string) Outcome {
	action := game.Fold
	if _, ok := findValid(valid, game.Check); ok {
		action = game.Check
	}
	return Outcome{
		Action:      action,
		Substituted: true,
		TrashTalk:   trashTalk,
	}
}

// Reflect asks the agent to reflect on a finished hand under the same
// deadline. An empty string means no note gets appended; reflection
// failures never block the tournament.
func (s *Session) Reflect(ctx context.Context, r Reflection) string {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	replies := make(chan reply, 1)
	go func() {
		text, err := s.agent.Reflect(ctx, r)
		replies <- reply{text, err}
	}()

	timedOut := make(chan struct{})
	timer := s.clock.AfterFunc(s.timeout, func() {
		close(timedOut)
	})
	defer timer.Stop()

	select {
	case rep := <-replies:
		if rep.err != nil {
			s.logger.Warn("reflection failed, skipping note", "error", rep.err)
			return ""
		}
		return rep.text
	case <-timedOut:
		s.logger.Warn("reflection timed out, skipping note")
		return ""
	case <-ctx.Done():
		return ""
	}
}

func findValid(valid []game.ValidAction, action game.Action) (game.ValidAction, bool) {
	for _, va := range valid {
		if va.Action == action {
			return va, true
		}
	}
	return game.ValidAction{}, false
}
