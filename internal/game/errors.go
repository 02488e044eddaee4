package game

import "errors"

// Structural errors: nothing was mutated, the request itself is invalid.
var (
	ErrSessionFull      = errors.New("session is full")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrPlayerExists     = errors.New("player already seated")
	ErrNotEnoughPlayers = errors.New("not enough players to start")
	ErrRoundInProgress  = errors.New("round already in progress")
	ErrNoActiveRound    = errors.New("no round in progress")
)

// Turn and legality violations: the action is rejected, state is
// unchanged and the turn is not consumed.
var (
	ErrOutOfTurn         = errors.New("not this player's turn")
	ErrUnknownAction     = errors.New("unknown action")
	ErrCannotCheck       = errors.New("cannot check, there is a bet to match")
	ErrNothingToCall     = errors.New("nothing to call")
	ErrRaiseTooSmall     = errors.New("raise below minimum")
	ErrInsufficientChips = errors.New("insufficient chips")
)
