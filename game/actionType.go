package game

// ActionType represents the type of action a player can perform. It is kept
// as a string so that unknown values from remote callers survive decoding
// and are reported by ValidateAction.
type ActionType string

const (
	MoveAction    ActionType = "MOVE"
	AttackAction  ActionType = "ATTACK"
	SpellAction   ActionType = "SPELL" // reserved, no rules effect
	EndTurnAction ActionType = "END_TURN"
)

func (t ActionType) Valid() bool {
	switch t {
	case MoveAction, AttackAction, SpellAction, EndTurnAction:
		return true
	default:
		return false
	}
}

// Coord is the [x, y] pair form used by actions on the wire.
type Coord [2]int

func CoordOf(p Position) *Coord {
	return &Coord{p.X, p.Y}
}

func (c Coord) Position() Position {
	return Position{X: c[0], Y: c[1]}
}

// Cost is the action-point and mana cost of an action.
type Cost struct {
	AP int `json:"ap,omitempty" validate:"gte=0"`
	MP int `json:"mp,omitempty" validate:"gte=0"`
}

// GameAction is a single player action as exchanged with remote validators.
type GameAction struct {
	Type   ActionType `json:"type" validate:"oneof=MOVE ATTACK SPELL END_TURN"`
	UnitID string     `json:"unitId"`
	From   *Coord     `json:"from,omitempty"`
	To     *Coord     `json:"to,omitempty"`
	Cost   Cost       `json:"cost"`
}

// Move is a proposed relocation of a piece.
type Move struct {
	From  Position `json:"from"`
	To    Position `json:"to"`
	Piece Piece    `json:"piece"`
}

// Action converts the move into a MOVE action, or an ATTACK action when an
// opposing piece stands on the destination in gs.
func (m Move) Action(gs GameState) GameAction {
	t := MoveAction
	if i := UnitAt(gs.Units, m.To); i >= 0 && gs.Units[i].Side != m.Piece.Side {
		t = AttackAction
	}
	return GameAction{
		Type:   t,
		UnitID: m.Piece.ID,
		From:   CoordOf(m.From),
		To:     CoordOf(m.To),
		Cost:   Cost{AP: 1},
	}
}
