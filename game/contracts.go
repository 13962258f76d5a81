package game

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate caches struct metadata, so one instance serves the package.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("side", func(fl validator.FieldLevel) bool {
		return Side(fl.Field().Int()).Valid()
	})
	_ = v.RegisterValidation("piecetype", func(fl validator.FieldLevel) bool {
		return PieceType(fl.Field().Int()).Valid()
	})
	return v
}

// violations turns validator field errors into readable messages.
func violations(err error) []string {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "eq":
		return fmt.Sprintf("%s must be %s", field, fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed maxHealth", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "side":
		return fmt.Sprintf(`%s must be "light" or "dark"`, field)
	case "piecetype":
		return fmt.Sprintf("%s must be a known piece type", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// ValidateState checks the shape of a state. It returns every violation it
// finds; an empty result means the state is well formed.
func ValidateState(gs GameState) []string {
	errs := violations(validate.Struct(gs))

	tiles := gs.Board.Tiles()
	for y := range tiles {
		for x, f := range tiles[y] {
			if f.Position != (Position{X: x, Y: y}) || f.Type != Classify(x, y) {
				errs = append(errs, fmt.Sprintf("board.tiles[%d][%d] does not match the standard layout", y, x))
			}
		}
	}

	seenIDs := make(map[string]int, len(gs.Units))
	seenCells := make(map[Position]int, len(gs.Units))
	for i, u := range gs.Units {
		if j, ok := seenIDs[u.ID]; ok && u.ID != "" {
			errs = append(errs, fmt.Sprintf("units[%d] duplicates the id of units[%d]", i, j))
		} else {
			seenIDs[u.ID] = i
		}
		if j, ok := seenCells[u.Position]; ok {
			errs = append(errs, fmt.Sprintf("units[%d] shares cell %s with units[%d]", i, u.Position, j))
		} else {
			seenCells[u.Position] = i
		}
	}

	switch m := gs.Mode.(type) {
	case nil:
		errs = append(errs, "gameMode is required")
	case Combat:
		a, d := UnitByID(gs.Units, m.Attacker.ID), UnitByID(gs.Units, m.Defender.ID)
		if a < 0 {
			errs = append(errs, "combat.attacker must reference a live unit")
		}
		if d < 0 {
			errs = append(errs, "combat.defender must reference a live unit")
		}
		if a >= 0 && d >= 0 && gs.Units[a].Side == gs.Units[d].Side {
			errs = append(errs, "combat must engage opposing units")
		}
	}

	return errs
}

// ValidateAction checks action against gs and returns every violation found.
func ValidateAction(gs GameState, action GameAction) []string {
	errs := violations(validate.Struct(action))

	if action.Type == EndTurnAction {
		return errs
	}

	if gs.InCombat() {
		errs = append(errs, "combat must be resolved before further actions")
	}

	i := UnitByID(gs.Units, action.UnitID)
	if i < 0 {
		errs = append(errs, "unitId must reference an existing unit")
	}
	var unit Piece
	if i >= 0 {
		unit = gs.Units[i]
		if unit.Side != gs.Active {
			errs = append(errs, "unit must belong to active player")
		}
		if unit.HasMoved && (action.Type == MoveAction || action.Type == AttackAction) {
			errs = append(errs, "unit has already moved this turn")
		}
		if action.From != nil && action.From.Position() != unit.Position {
			errs = append(errs, "from must match unit position")
		}
	}
	if action.To != nil && !action.To.Position().InBounds() {
		errs = append(errs, "to must be within board bounds (0-8)")
	}

	switch action.Type {
	case MoveAction:
		if action.From == nil || action.To == nil {
			errs = append(errs, "MOVE requires from and to positions")
		} else if i >= 0 && !containsPosition(FreeCells(unit, gs.Units), action.To.Position()) {
			errs = append(errs, "MOVE to invalid position")
		}
	case AttackAction:
		if action.To == nil {
			errs = append(errs, "ATTACK requires to position")
			break
		}
		target := UnitAt(gs.Units, action.To.Position())
		if target < 0 || (i >= 0 && gs.Units[target].Side == unit.Side) {
			errs = append(errs, "ATTACK requires enemy unit at target position")
		} else if i >= 0 && !containsPosition(EngageableCells(unit, gs.Units), action.To.Position()) {
			errs = append(errs, "ATTACK target is out of range")
		}
	}

	return errs
}

// AllowedActions enumerates every action available to the active side: one
// MOVE per free cell and one ATTACK per engageable cell of each unmoved
// unit, followed by a single END_TURN. During combat only END_TURN is left.
func AllowedActions(gs GameState) []GameAction {
	var actions []GameAction

	if !gs.InCombat() {
		for _, unit := range gs.Units {
			if unit.Side != gs.Active || unit.HasMoved {
				continue
			}
			free, engageable := Partition(unit, gs.Units)
			for _, pos := range free {
				actions = append(actions, GameAction{
					Type:   MoveAction,
					UnitID: unit.ID,
					From:   CoordOf(unit.Position),
					To:     CoordOf(pos),
					Cost:   Cost{AP: 1},
				})
			}
			for _, pos := range engageable {
				actions = append(actions, GameAction{
					Type:   AttackAction,
					UnitID: unit.ID,
					From:   CoordOf(unit.Position),
					To:     CoordOf(pos),
					Cost:   Cost{AP: 1},
				})
			}
		}
	}

	actions = append(actions, GameAction{Type: EndTurnAction, Cost: Cost{AP: 0}})
	return actions
}

// ApplyAction returns the state that results from action. gs is never
// modified. ATTACK only opens the engagement; damage is dealt by
// ResolvePendingCombat. END_TURN during combat leaves the state unchanged:
// the turn ends when the engagement is resolved. The action is assumed to
// have passed ValidateAction.
func ApplyAction(gs GameState, action GameAction) GameState {
	next := gs.Copy()

	switch action.Type {
	case MoveAction:
		i := UnitByID(next.Units, action.UnitID)
		if i >= 0 && action.To != nil {
			next.Units[i].Position = action.To.Position()
			next.Units[i].HasMoved = true
		}
	case AttackAction:
		i := UnitByID(next.Units, action.UnitID)
		if i < 0 || action.To == nil {
			break
		}
		target := action.To.Position()
		j := UnitAt(next.Units, target)
		if j < 0 {
			break
		}
		field, _ := next.Board.Field(target)
		next.Mode = Combat{
			Attacker:  next.Units[i],
			Defender:  next.Units[j],
			FieldType: field.Type,
		}
	case EndTurnAction:
		if !next.InCombat() {
			next.AdvanceTurn()
		}
	}

	return next
}

// ResolvePendingCombat autoresolves the pending engagement of gs and returns
// the resulting state: the loser removed, a winning attacker moved onto the
// defender's cell, strategy mode restored and the turn ended. An attacker
// that wins by mutual destruction is removed as well.
func ResolvePendingCombat(gs GameState) (GameState, CombatResult, error) {
	c, ok := gs.PendingCombat()
	if !ok {
		return gs, CombatResult{}, ErrNoCombat
	}
	next := gs.Copy()
	a := UnitByID(next.Units, c.Attacker.ID)
	d := UnitByID(next.Units, c.Defender.ID)
	if a < 0 || d < 0 {
		return gs, CombatResult{}, ErrInvalidCombat
	}

	defenderCell := next.Units[d].Position
	field, _ := next.Board.Field(defenderCell)
	out := ResolveCombat(next.Units[a], next.Units[d], field)
	if out.AttackerWon && out.Attacker.Health > 0 {
		out.Attacker.Position = defenderCell
	}
	next.Units[a] = out.Attacker
	next.Units[d] = out.Defender

	for _, u := range []Piece{out.Attacker, out.Defender} {
		if u.Health <= 0 {
			next.Units = removeUnit(next.Units, u.ID)
		}
	}

	next.Mode = Strategy{}
	next.AdvanceTurn()
	return next, out.Result(), nil
}

func removeUnit(units []Piece, id string) []Piece {
	out := units[:0]
	for _, u := range units {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}
