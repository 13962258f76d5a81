package game

import "fmt"

// Named openings. The standard opening puts light on three power points,
// which already meets the power point win rule, so a match played from it
// ends after light's first move unless that move leaves a power point. Self
// play starts from the front line opening, where nobody holds one.
const (
	OpeningStandard  = "standard"
	OpeningFrontLine = "front-line"
)

// NewFrontLineState returns the front line opening: light to move, turn 1,
// step 0.
func NewFrontLineState(seed int64) GameState {
	gs := NewGameState(seed)
	gs.Units = FrontLinePieces()
	return gs
}

// NewOpening returns the named opening.
func NewOpening(name string, seed int64) (GameState, error) {
	switch name {
	case OpeningStandard:
		return NewGameState(seed), nil
	case OpeningFrontLine:
		return NewFrontLineState(seed), nil
	default:
		return GameState{}, fmt.Errorf("%w: opening %q", ErrUnknownValue, name)
	}
}
