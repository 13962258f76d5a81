package game

import "fmt"

// PieceType identifies a unit class in the catalog.
type PieceType int

const (
	Wizard PieceType = iota
	Dragon
	Unicorn
	Golem
	Knight
)

// PieceTypes lists every catalog entry.
var PieceTypes = [...]PieceType{Wizard, Dragon, Unicorn, Golem, Knight}

// Stats are the fixed per-type values a piece is created from.
type Stats struct {
	Health float64
	Range  int
	Damage float64
}

// StatsOf returns the catalog entry for t. Unknown types panic: the catalog
// is closed and a missing entry is a programming error.
func StatsOf(t PieceType) Stats {
	switch t {
	case Wizard:
		return Stats{Health: 120, Range: 3, Damage: 40}
	case Dragon:
		return Stats{Health: 200, Range: 4, Damage: 80}
	case Unicorn:
		return Stats{Health: 150, Range: 5, Damage: 60}
	case Golem:
		return Stats{Health: 250, Range: 2, Damage: 50}
	case Knight:
		return Stats{Health: 180, Range: 3, Damage: 70}
	default:
		panic(fmt.Sprintf("unknown piece type %d", int(t)))
	}
}

func (t PieceType) Valid() bool {
	return t >= Wizard && t <= Knight
}

func (t PieceType) String() string {
	switch t {
	case Wizard:
		return "wizard"
	case Dragon:
		return "dragon"
	case Unicorn:
		return "unicorn"
	case Golem:
		return "golem"
	case Knight:
		return "knight"
	default:
		return fmt.Sprintf("PieceType(%d)", int(t))
	}
}

// ParsePieceType maps a catalog name to its PieceType.
func ParsePieceType(s string) (PieceType, error) {
	for _, t := range PieceTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: piece type %q", ErrUnknownValue, s)
}

func (t PieceType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: piece type %d", ErrUnknownValue, int(t))
	}
	return []byte(t.String()), nil
}

func (t *PieceType) UnmarshalText(text []byte) error {
	parsed, err := ParsePieceType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Piece is a live unit on the board.
type Piece struct {
	ID        string    `json:"id" validate:"required"`
	Type      PieceType `json:"type" validate:"piecetype"`
	Side      Side      `json:"side" validate:"side"`
	Position  Position  `json:"position"`
	Health    float64   `json:"health" validate:"gte=0,ltefield=MaxHealth"`
	MaxHealth float64   `json:"maxHealth" validate:"gt=0"`
	HasMoved  bool      `json:"hasMoved"`
}

// NewPiece creates a piece at full health.
func NewPiece(t PieceType, side Side, pos Position, id string) Piece {
	stats := StatsOf(t)
	if id == "" {
		id = fmt.Sprintf("%s-%s", side, t)
	}
	return Piece{
		ID:        id,
		Type:      t,
		Side:      side,
		Position:  pos,
		Health:    stats.Health,
		MaxHealth: stats.Health,
	}
}

// Stats returns the catalog entry of the piece's type.
func (p Piece) Stats() Stats {
	return StatsOf(p.Type)
}

type placement struct {
	x, y int
	t    PieceType
}

// Starting layout for light. Dark mirrors it vertically.
var lightSetup = []placement{
	{0, 0, Wizard}, {1, 0, Dragon}, {2, 0, Unicorn}, {3, 0, Golem}, {4, 0, Knight},
	{5, 0, Golem}, {6, 0, Unicorn}, {7, 0, Dragon}, {8, 0, Wizard},
	{1, 1, Knight}, {3, 1, Dragon}, {5, 1, Dragon}, {7, 1, Knight},
	{2, 2, Wizard}, {4, 2, Unicorn}, {6, 2, Wizard},
	{0, 3, Golem}, {8, 3, Golem},
}

// Front line layout for light: the same army drawn up on rows 2 and 3, off
// every power point and two cells from the mirrored dark line.
var frontLineSetup = []placement{
	{0, 2, Wizard}, {1, 2, Dragon}, {2, 2, Unicorn}, {3, 2, Golem}, {4, 2, Knight},
	{5, 2, Golem}, {6, 2, Unicorn}, {7, 2, Dragon}, {8, 2, Wizard},
	{0, 3, Golem}, {1, 3, Knight}, {2, 3, Dragon}, {3, 3, Wizard}, {4, 3, Unicorn},
	{5, 3, Wizard}, {6, 3, Dragon}, {7, 3, Knight}, {8, 3, Golem},
}

// InitialPieces returns both armies in their starting positions. IDs are
// deterministic so that replays and remote validators agree on them.
func InitialPieces() []Piece {
	return mirrored(lightSetup)
}

// FrontLinePieces returns both armies facing each other across row 4.
func FrontLinePieces() []Piece {
	return mirrored(frontLineSetup)
}

func mirrored(setup []placement) []Piece {
	pieces := make([]Piece, 0, 2*len(setup))
	for i, p := range setup {
		id := fmt.Sprintf("%s-%s-%d", Light, p.t, i)
		pieces = append(pieces, NewPiece(p.t, Light, Position{X: p.x, Y: p.y}, id))
	}
	for i, p := range setup {
		id := fmt.Sprintf("%s-%s-%d", Dark, p.t, i)
		pieces = append(pieces, NewPiece(p.t, Dark, Position{X: p.x, Y: BoardSize - 1 - p.y}, id))
	}
	return pieces
}
