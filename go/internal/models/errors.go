package models

import "errors"

var (
	// ErrValidation is returned for empty team names or too-short prompts
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate is returned when a team name or prompt already exists
	ErrDuplicate = errors.New("already exists")
	// ErrRoundInProgress is returned for actions that are illegal while a round is active
	ErrRoundInProgress = errors.New("round in progress")
	// ErrIdleAction is returned when a result is reported without a pending round
	ErrIdleAction = errors.New("no round in progress")
	// ErrGatewayFailure wraps network and non-success responses from the prompt gateway
	ErrGatewayFailure = errors.New("prompt gateway failure")
	// ErrNoPrompts is returned by the prompt pool when it is empty
	ErrNoPrompts = errors.New("no prompts available")
)
