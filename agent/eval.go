package agent

import (
	"archon/game"
)

// Heuristic weights
const (
	BaseScore       = 10.0
	CombatWeight    = 100.0
	PowerPointBonus = 50.0
	MatchupBonus    = 1.2
	AllyPenalty     = 5.0
	CycleLookahead  = 3
	CycleFavoured   = 20.0
	CycleOpposed    = -10.0
)

var center = game.Position{X: 4, Y: 4}

// matchups maps each piece type to the type it has an edge against.
var matchups = map[game.PieceType]game.PieceType{
	game.Dragon: game.Knight,
	game.Knight: game.Wizard,
	game.Wizard: game.Dragon,
}

// Score rates moving piece to target in gs. Higher is better.
func Score(gs game.GameState, piece game.Piece, target game.Position) float64 {
	score := BaseScore

	if i := game.UnitAt(gs.Units, target); i >= 0 && gs.Units[i].Side != piece.Side {
		score += CombatWeight * combatTerm(gs, piece, gs.Units[i], target)
	} else {
		score += positionTerm(gs, piece, target)
	}

	if game.IsPowerPoint(target) {
		score += PowerPointBonus
	}

	score += cycleTerm(gs, piece, target)
	return score
}

// combatTerm is +1 when the attacker's field and matchup adjusted health
// exceeds the defender's, else -1.
func combatTerm(gs game.GameState, attacker, defender game.Piece, target game.Position) float64 {
	field, _ := gs.Board.Field(target)
	strength := attacker.Health * game.FieldMultiplier(attacker.Side, field)
	if matchups[attacker.Type] == defender.Type {
		strength *= MatchupBonus
	}
	if strength > defender.Health {
		return 1
	}
	return -1
}

// positionTerm favours the centre and penalises crowding allies.
func positionTerm(gs game.GameState, piece game.Piece, target game.Position) float64 {
	score := float64(8-target.Distance(center)) * 2

	allies := 0
	for _, u := range gs.Units {
		if u.Side != piece.Side || u.ID == piece.ID || u.Position == target {
			continue
		}
		if abs(u.Position.X-target.X) <= 1 && abs(u.Position.Y-target.Y) <= 1 {
			allies++
		}
	}
	return score - AllyPenalty*float64(allies)
}

// cycleTerm looks CycleLookahead steps ahead and rewards destinations whose
// field will then favour the piece's side.
func cycleTerm(gs game.GameState, piece game.Piece, target game.Position) float64 {
	field, _ := gs.Board.Field(target)
	switch field.Type {
	case game.Neutral:
		field.CurrentSide = game.CycleSide(gs.Cycle.Step + CycleLookahead)
	case game.PowerPoint:
		return 0
	}

	side, ok := field.Controller()
	switch {
	case !ok:
		return 0
	case side == piece.Side:
		return CycleFavoured
	default:
		return CycleOpposed
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
