package game

import "errors"

var (
	ErrUnknownValue  = errors.New("unknown value")
	ErrBoardShape    = errors.New("board.tiles must be 9x9 array")
	ErrNoCombat      = errors.New("no combat in progress")
	ErrInvalidCombat = errors.New("combat record references missing units")
)
