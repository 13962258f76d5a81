package agent

import (
	"errors"
	"fmt"
)

var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulty controls how far down the ranked candidates a player may pick.
type Difficulty int

const (
	Beginner Difficulty = iota
	Normal
	Expert
)

// Factor is the share of the ranked candidate list the player draws from.
func (d Difficulty) Factor() float64 {
	switch d {
	case Beginner:
		return 0.6
	case Normal:
		return 0.9
	case Expert:
		return 0.95
	default:
		panic(fmt.Sprintf("unknown difficulty %d", int(d)))
	}
}

func (d Difficulty) String() string {
	switch d {
	case Beginner:
		return "beginner"
	case Normal:
		return "normal"
	case Expert:
		return "expert"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range []Difficulty{Beginner, Normal, Expert} {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

func (d Difficulty) MarshalText() ([]byte, error) {
	if d < Beginner || d > Expert {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDifficulty, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
