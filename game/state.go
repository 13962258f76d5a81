package game

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/fnv"
)

// Mode is either Strategy or Combat. A pending combat record only exists as
// the Combat variant, so there is no way to be in strategy mode with a
// leftover engagement.
type Mode interface {
	isMode()
	String() string
}

// Strategy is normal play.
type Strategy struct{}

// Combat is an engagement awaiting resolution.
type Combat struct {
	Attacker  Piece     `json:"attacker"`
	Defender  Piece     `json:"defender"`
	FieldType FieldType `json:"fieldType"`
}

func (Strategy) isMode()        {}
func (Strategy) String() string { return "strategy" }
func (Combat) isMode()          {}
func (Combat) String() string   { return "combat" }

// Cycle is the light-cycle counter.
type Cycle struct {
	Step int `json:"step" validate:"gte=0,lte=19"`
	Of   int `json:"of" validate:"eq=20"`
}

// GameState represents the complete state of a game. It is a plain value:
// Copy it before handing it to code that may mutate it.
type GameState struct {
	Board   Board   `json:"board" validate:"-"`
	Units   []Piece `json:"units" validate:"dive"`
	Turn    int     `json:"turn" validate:"gte=1"`
	Cycle   Cycle   `json:"cycle"`
	Active  Side    `json:"active" validate:"side"`
	Mode    Mode    `json:"-" validate:"-"`
	RNGSeed int64   `json:"rngSeed"`
}

// NewGameState returns the opening position: light to move, turn 1, step 0.
func NewGameState(seed int64) GameState {
	return GameState{
		Board:   NewBoard(),
		Units:   InitialPieces(),
		Turn:    1,
		Cycle:   Cycle{Step: 0, Of: CycleLength},
		Active:  Light,
		Mode:    Strategy{},
		RNGSeed: seed,
	}
}

// Copy returns a deep copy of the state.
func (gs GameState) Copy() GameState {
	units := make([]Piece, len(gs.Units))
	copy(units, gs.Units)
	gs.Units = units
	if gs.Mode == nil {
		gs.Mode = Strategy{}
	}
	return gs
}

// PendingCombat returns the engagement awaiting resolution, if any.
func (gs GameState) PendingCombat() (Combat, bool) {
	c, ok := gs.Mode.(Combat)
	return c, ok
}

// InCombat reports whether an engagement is pending.
func (gs GameState) InCombat() bool {
	_, ok := gs.PendingCombat()
	return ok
}

// Player returns the name of the side to move.
func (gs GameState) Player() string {
	return gs.Active.String()
}

// UnitsOf returns the live pieces of side.
func (gs GameState) UnitsOf(side Side) []Piece {
	var out []Piece
	for _, u := range gs.Units {
		if u.Side == side {
			out = append(out, u)
		}
	}
	return out
}

// AdvanceTurn ends the active side's turn: its moved flags are cleared, the
// other side becomes active, the turn counter and light cycle step forward
// and neutral fields are recomputed.
func (gs *GameState) AdvanceTurn() {
	for i := range gs.Units {
		if gs.Units[i].Side == gs.Active {
			gs.Units[i].HasMoved = false
		}
	}
	gs.Active = gs.Active.Opponent()
	gs.Turn++
	gs.Cycle.Step = AdvanceCycle(gs.Cycle.Step)
	gs.Board.UpdateLightCycle(gs.Cycle.Step)
}

// PowerPointsHeld counts the power points occupied by side.
func (gs GameState) PowerPointsHeld(side Side) int {
	held := 0
	for _, pp := range gs.Board.PowerPoints() {
		if i := UnitAt(gs.Units, pp); i >= 0 && gs.Units[i].Side == side {
			held++
		}
	}
	return held
}

// PowerPointsToWin is how many power points a side must occupy to win.
const PowerPointsToWin = 3

// CheckWinner returns the winning side if the opponent has been eliminated
// or the side occupies at least PowerPointsToWin power points.
func (gs GameState) CheckWinner() (Side, bool) {
	if len(gs.UnitsOf(Light)) == 0 {
		return Dark, true
	}
	if len(gs.UnitsOf(Dark)) == 0 {
		return Light, true
	}
	for _, side := range Sides {
		if gs.PowerPointsHeld(side) >= PowerPointsToWin {
			return side, true
		}
	}
	return 0, false
}

// Winner returns the winning side's name or "" while the game is open.
func (gs GameState) Winner() string {
	if side, ok := gs.CheckWinner(); ok {
		return side.String()
	}
	return ""
}

// StateHash identifies a position for replay comparisons.
type StateHash uint64

func (gs GameState) Hash() StateHash {
	hasher := fnv.New64a()

	binary.Write(hasher, binary.LittleEndian, int64(gs.Active))
	binary.Write(hasher, binary.LittleEndian, int64(gs.Turn))
	binary.Write(hasher, binary.LittleEndian, int64(gs.Cycle.Step))

	if c, ok := gs.PendingCombat(); ok {
		hasher.Write([]byte(c.Attacker.ID))
		hasher.Write([]byte(c.Defender.ID))
	}

	for _, u := range gs.Units {
		hasher.Write([]byte(u.ID))
		binary.Write(hasher, binary.LittleEndian, int64(u.Position.X))
		binary.Write(hasher, binary.LittleEndian, int64(u.Position.Y))
		binary.Write(hasher, binary.LittleEndian, u.Health)
		binary.Write(hasher, binary.LittleEndian, u.HasMoved)
	}

	return StateHash(hasher.Sum64())
}

type stateAlias GameState

type stateJSON struct {
	stateAlias
	Effects  []json.RawMessage `json:"effects"`
	GameMode string            `json:"gameMode"`
	Combat   *Combat           `json:"combat,omitempty"`
}

func (gs GameState) MarshalJSON() ([]byte, error) {
	out := stateJSON{stateAlias: stateAlias(gs), Effects: []json.RawMessage{}, GameMode: "strategy"}
	if c, ok := gs.PendingCombat(); ok {
		out.GameMode = "combat"
		out.Combat = &c
	}
	return json.Marshal(out)
}

func (gs *GameState) UnmarshalJSON(data []byte) error {
	var in stateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*gs = GameState(in.stateAlias)
	switch in.GameMode {
	case "", "strategy":
		if in.Combat != nil {
			return fmt.Errorf("%w: combat record outside combat mode", ErrUnknownValue)
		}
		gs.Mode = Strategy{}
	case "combat":
		if in.Combat == nil {
			return fmt.Errorf("%w: combat mode without combat record", ErrUnknownValue)
		}
		gs.Mode = *in.Combat
	default:
		return fmt.Errorf("%w: gameMode %q", ErrUnknownValue, in.GameMode)
	}
	return nil
}
