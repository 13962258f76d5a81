package game

import "fmt"

// Side is one of the two players.
type Side int

const (
	Light Side = iota
	Dark
)

// Sides lists both sides in turn order.
var Sides = [2]Side{Light, Dark}

func (s Side) Valid() bool {
	return s == Light || s == Dark
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	switch s {
	case Light:
		return Dark
	case Dark:
		return Light
	default:
		panic(fmt.Sprintf("unknown side %d", int(s)))
	}
}

func (s Side) String() string {
	switch s {
	case Light:
		return "light"
	case Dark:
		return "dark"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParseSide maps "light" or "dark" to a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	default:
		return 0, fmt.Errorf("%w: side %q", ErrUnknownValue, s)
	}
}

func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: side %d", ErrUnknownValue, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	parsed, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Control is the dynamic side of a neutral field under the light cycle.
// The zero value means the field carries no dynamic side at all.
type Control int

const (
	Uncontrolled Control = iota
	ControlLight
	ControlDark
	ControlNeutral
)

// ControlOf returns the control value favouring side.
func ControlOf(side Side) Control {
	switch side {
	case Light:
		return ControlLight
	case Dark:
		return ControlDark
	default:
		panic(fmt.Sprintf("unknown side %d", int(side)))
	}
}

// Side reports which side the control favours, if any.
func (c Control) Side() (Side, bool) {
	switch c {
	case ControlLight:
		return Light, true
	case ControlDark:
		return Dark, true
	default:
		return 0, false
	}
}

func (c Control) String() string {
	switch c {
	case Uncontrolled:
		return ""
	case ControlLight:
		return "light"
	case ControlDark:
		return "dark"
	case ControlNeutral:
		return "neutral"
	default:
		return fmt.Sprintf("Control(%d)", int(c))
	}
}

func (c Control) MarshalText() ([]byte, error) {
	if c < Uncontrolled || c > ControlNeutral {
		return nil, fmt.Errorf("%w: control %d", ErrUnknownValue, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Control) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*c = Uncontrolled
	case "light":
		*c = ControlLight
	case "dark":
		*c = ControlDark
	case "neutral":
		*c = ControlNeutral
	default:
		return fmt.Errorf("%w: control %q", ErrUnknownValue, text)
	}
	return nil
}
