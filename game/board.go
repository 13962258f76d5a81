package game

import (
	"encoding/json"
	"fmt"
)

const (
	BoardSize   = 9
	CycleLength = 20
)

// Position is a board coordinate, 0 <= X,Y < BoardSize.
type Position struct {
	X int `json:"x" validate:"gte=0,lte=8"`
	Y int `json:"y" validate:"gte=0,lte=8"`
}

func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < BoardSize && p.Y >= 0 && p.Y < BoardSize
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Distance is the Manhattan distance between two positions.
func (p Position) Distance(q Position) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

// FieldType is the static classification of a board cell.
type FieldType int

const (
	PermanentLight FieldType = iota
	PermanentDark
	Neutral
	PowerPoint
)

func (t FieldType) String() string {
	switch t {
	case PermanentLight:
		return "permanent-light"
	case PermanentDark:
		return "permanent-dark"
	case Neutral:
		return "neutral"
	case PowerPoint:
		return "power-point"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

func (t FieldType) MarshalText() ([]byte, error) {
	if t < PermanentLight || t > PowerPoint {
		return nil, fmt.Errorf("%w: field type %d", ErrUnknownValue, int(t))
	}
	return []byte(t.String()), nil
}

func (t *FieldType) UnmarshalText(text []byte) error {
	for _, ft := range []FieldType{PermanentLight, PermanentDark, Neutral, PowerPoint} {
		if ft.String() == string(text) {
			*t = ft
			return nil
		}
	}
	return fmt.Errorf("%w: field type %q", ErrUnknownValue, text)
}

// Field is a single board cell. Only neutral fields carry a CurrentSide.
type Field struct {
	Position    Position  `json:"position"`
	Type        FieldType `json:"type"`
	CurrentSide Control   `json:"currentSide,omitempty"`
}

// Controller reports the side a field favours in combat. Permanent fields
// always favour their owner, neutral fields follow the light cycle and power
// points favour nobody.
func (f Field) Controller() (Side, bool) {
	switch f.Type {
	case PermanentLight:
		return Light, true
	case PermanentDark:
		return Dark, true
	case Neutral:
		return f.CurrentSide.Side()
	default:
		return 0, false
	}
}

var powerPoints = [...]Position{
	{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 8, Y: 0}, {X: 4, Y: 4}, {X: 4, Y: 8},
}

// IsPowerPoint reports whether pos is one of the five fixed power points.
func IsPowerPoint(pos Position) bool {
	for _, pp := range powerPoints {
		if pp == pos {
			return true
		}
	}
	return false
}

// Classify returns the static type of the cell at (x, y).
func Classify(x, y int) FieldType {
	if IsPowerPoint(Position{X: x, Y: y}) {
		return PowerPoint
	}
	switch {
	case y < 3:
		if (x+y)%2 == 0 {
			return PermanentLight
		}
		return Neutral
	case y > 5:
		if (x+y)%2 == 0 {
			return PermanentDark
		}
		return Neutral
	default:
		return Neutral
	}
}

// CycleSide returns who controls neutral fields at a light-cycle step.
func CycleSide(step int) Control {
	switch phase := mod(step, CycleLength); {
	case phase < 5:
		return ControlLight
	case phase < 10:
		return ControlNeutral
	case phase < 15:
		return ControlDark
	default:
		return ControlNeutral
	}
}

// AdvanceCycle returns the step following step.
func AdvanceCycle(step int) int {
	return mod(step+1, CycleLength)
}

// Board is the fixed 9x9 grid, indexed [y][x].
type Board struct {
	tiles [BoardSize][BoardSize]Field
}

// NewBoard classifies every cell and applies light-cycle step 0.
func NewBoard() Board {
	var b Board
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			b.tiles[y][x] = Field{
				Position: Position{X: x, Y: y},
				Type:     Classify(x, y),
			}
		}
	}
	b.UpdateLightCycle(0)
	return b
}

// Field returns the cell at pos, or false outside the board.
func (b *Board) Field(pos Position) (Field, bool) {
	if !pos.InBounds() {
		return Field{}, false
	}
	return b.tiles[pos.Y][pos.X], true
}

// PowerPoints enumerates all power-point positions.
func (b *Board) PowerPoints() []Position {
	var out []Position
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if b.tiles[y][x].Type == PowerPoint {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}

// UpdateLightCycle recomputes the controlling side of every neutral field.
func (b *Board) UpdateLightCycle(step int) {
	side := CycleSide(step)
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if b.tiles[y][x].Type == Neutral {
				b.tiles[y][x].CurrentSide = side
			}
		}
	}
}

// Tiles returns a copy of the grid, indexed [y][x].
func (b *Board) Tiles() [BoardSize][BoardSize]Field {
	return b.tiles
}

type boardJSON struct {
	Size  int       `json:"size"`
	Tiles [][]Field `json:"tiles"`
}

func (b Board) MarshalJSON() ([]byte, error) {
	out := boardJSON{Size: BoardSize, Tiles: make([][]Field, BoardSize)}
	for y := range b.tiles {
		out.Tiles[y] = b.tiles[y][:]
	}
	return json.Marshal(out)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var in boardJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Size != BoardSize || len(in.Tiles) != BoardSize {
		return ErrBoardShape
	}
	for y, row := range in.Tiles {
		if len(row) != BoardSize {
			return ErrBoardShape
		}
		copy(b.tiles[y][:], row)
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
