package game

import "errors"

// Validation failures returned by the round engine. None of them change state.
var (
	ErrIllegalTransition = errors.New("action not allowed in the current phase")
	ErrNotAuthorized     = errors.New("only the host can do that")
	ErrOutOfTurn         = errors.New("not this player's turn")
	ErrUnknownPlayer     = errors.New("player is not seated in this game")
	ErrInvalidCard       = errors.New("card index out of range")
	ErrInvalidBet        = errors.New("bet must be non-negative")
)
