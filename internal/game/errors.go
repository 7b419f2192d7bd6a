package game

import "errors"

// ErrRuleViolation marks a programming-invariant failure inside the engine:
// acting out of turn, applying an action the state machine rejected after
// validation, or breaking chip conservation. It is never caused by agent
// input and aborts the running tournament.
var ErrRuleViolation = errors.New("game: rule violation")

// ErrIllegalAction is returned when a requested action is not in the legal
// action set or its amount is out of range. Callers validating agent input
// treat this as recoverable and substitute the default action.
var ErrIllegalAction = errors.New("game: illegal action")
