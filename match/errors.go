package match

import "errors"

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrUnknownPlayer = errors.New("player is not part of this game")
	ErrSamePlayer    = errors.New("a player cannot play against themselves")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrGameOver      = errors.New("game is over")
	ErrTimeout       = errors.New("player ran out of time")
	ErrStaleRequest  = errors.New("request is older than the block delay")
	ErrUnknownOp     = errors.New("unknown operation")
)
