package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func move(unit Piece, to Position) GameAction {
	return GameAction{
		Type:   MoveAction,
		UnitID: unit.ID,
		From:   CoordOf(unit.Position),
		To:     CoordOf(to),
		Cost:   Cost{AP: 1},
	}
}

// skirmish is a small strategy-mode position with one piece per side in reach
// of each other.
func skirmish() GameState {
	return GameState{
		Board: NewBoard(),
		Units: []Piece{
			NewPiece(Knight, Light, Position{X: 2, Y: 3}, "lk"),
			NewPiece(Golem, Dark, Position{X: 2, Y: 5}, "dg"),
		},
		Turn:   1,
		Cycle:  Cycle{Step: 0, Of: CycleLength},
		Active: Light,
		Mode:   Strategy{},
	}
}

func TestValidateState(t *testing.T) {
	t.Run("new game is valid", func(t *testing.T) {
		require.Empty(t, ValidateState(NewGameState(0)))
	})

	t.Run("reports every violation", func(t *testing.T) {
		gs := NewGameState(0)
		gs.Turn = 0
		gs.Cycle = Cycle{Step: 20, Of: 12}
		gs.Active = Side(5)
		gs.Units[0].Health = -3
		gs.Units[1].Position = gs.Units[2].Position

		errs := ValidateState(gs)
		require.Contains(t, errs, "turn must be at least 1")
		require.Contains(t, errs, "cycle.step must be at most 19")
		require.Contains(t, errs, "cycle.of must be 20")
		require.Contains(t, errs, `active must be "light" or "dark"`)
		require.Contains(t, errs, "units[0].health must be at least 0")
		require.Contains(t, errs, "units[2] shares cell (2,0) with units[1]")
	})

	t.Run("health above maximum", func(t *testing.T) {
		gs := NewGameState(0)
		gs.Units[4].Health = gs.Units[4].MaxHealth + 1
		require.Contains(t, ValidateState(gs), "units[4].health must not exceed maxHealth")
	})

	t.Run("positions must be on the board", func(t *testing.T) {
		gs := NewGameState(0)
		gs.Units[0].Position = Position{X: 9, Y: 0}
		require.Contains(t, ValidateState(gs), "units[0].position.x must be at most 8")
	})

	t.Run("combat must reference live units", func(t *testing.T) {
		gs := skirmish()
		gs.Mode = Combat{Attacker: gs.Units[0], Defender: NewPiece(Wizard, Dark, Position{X: 0, Y: 8}, "ghost")}
		require.Contains(t, ValidateState(gs), "combat.defender must reference a live unit")
	})

	t.Run("missing mode", func(t *testing.T) {
		gs := skirmish()
		gs.Mode = nil
		require.Contains(t, ValidateState(gs), "gameMode is required")
	})
}

func TestValidateAction(t *testing.T) {
	t.Run("legal move", func(t *testing.T) {
		gs := skirmish()
		require.Empty(t, ValidateAction(gs, move(gs.Units[0], Position{X: 2, Y: 4})))
	})

	t.Run("unknown type", func(t *testing.T) {
		gs := skirmish()
		errs := ValidateAction(gs, GameAction{Type: "TELEPORT", UnitID: "lk"})
		require.Contains(t, errs, "type must be one of: MOVE, ATTACK, SPELL, END_TURN")
	})

	t.Run("unknown unit", func(t *testing.T) {
		gs := skirmish()
		errs := ValidateAction(gs, GameAction{Type: MoveAction, UnitID: "nobody"})
		require.Contains(t, errs, "unitId must reference an existing unit")
		require.Contains(t, errs, "MOVE requires from and to positions")
	})

	t.Run("inactive side", func(t *testing.T) {
		gs := skirmish()
		errs := ValidateAction(gs, move(gs.Units[1], Position{X: 2, Y: 6}))
		require.Contains(t, errs, "unit must belong to active player")
	})

	t.Run("already moved", func(t *testing.T) {
		gs := skirmish()
		gs.Units[0].HasMoved = true
		errs := ValidateAction(gs, move(gs.Units[0], Position{X: 2, Y: 4}))
		require.Contains(t, errs, "unit has already moved this turn")
	})

	t.Run("stale from", func(t *testing.T) {
		gs := skirmish()
		action := move(gs.Units[0], Position{X: 2, Y: 4})
		action.From = &Coord{0, 0}
		require.Contains(t, ValidateAction(gs, action), "from must match unit position")
	})

	t.Run("out of bounds and out of range", func(t *testing.T) {
		gs := skirmish()
		errs := ValidateAction(gs, move(gs.Units[0], Position{X: 2, Y: 9}))
		require.Contains(t, errs, "to must be within board bounds (0-8)")
		require.Contains(t, errs, "MOVE to invalid position")

		errs = ValidateAction(gs, move(gs.Units[0], Position{X: 8, Y: 8}))
		require.Equal(t, []string{"MOVE to invalid position"}, errs)
	})

	t.Run("move onto an enemy is not a move", func(t *testing.T) {
		gs := skirmish()
		require.Contains(t, ValidateAction(gs, move(gs.Units[0], gs.Units[1].Position)), "MOVE to invalid position")
	})

	t.Run("attack", func(t *testing.T) {
		gs := skirmish()
		attack := move(gs.Units[0], gs.Units[1].Position)
		attack.Type = AttackAction
		require.Empty(t, ValidateAction(gs, attack))

		attack.To = CoordOf(Position{X: 2, Y: 4})
		require.Contains(t, ValidateAction(gs, attack), "ATTACK requires enemy unit at target position")

		attack.To = nil
		require.Contains(t, ValidateAction(gs, attack), "ATTACK requires to position")
	})

	t.Run("end turn needs no unit", func(t *testing.T) {
		require.Empty(t, ValidateAction(skirmish(), GameAction{Type: EndTurnAction}))
	})

	t.Run("nothing but resolution during combat", func(t *testing.T) {
		gs := skirmish()
		gs.Mode = Combat{Attacker: gs.Units[0], Defender: gs.Units[1], FieldType: Neutral}
		require.Contains(t, ValidateAction(gs, move(gs.Units[0], Position{X: 2, Y: 4})), "combat must be resolved before further actions")
		require.Empty(t, ValidateAction(gs, GameAction{Type: EndTurnAction}))
	})
}

func TestAllowedActions(t *testing.T) {
	gs := skirmish()
	actions := AllowedActions(gs)

	free, engageable := Partition(gs.Units[0], gs.Units)
	require.Len(t, actions, len(free)+len(engageable)+1)

	last := actions[len(actions)-1]
	require.Equal(t, EndTurnAction, last.Type)
	require.Equal(t, "", last.UnitID)
	require.Equal(t, Cost{AP: 0}, last.Cost)

	for _, a := range actions[:len(actions)-1] {
		require.Equal(t, "lk", a.UnitID, "Only the active side's units may act")
		require.Equal(t, Cost{AP: 1}, a.Cost)
		require.Empty(t, ValidateAction(gs, a), "Every enumerated action must validate")
	}

	gs.Units[0].HasMoved = true
	require.Len(t, AllowedActions(gs), 1, "Moved units offer no actions")
}

func TestContractsDuringCombat(t *testing.T) {
	gs := skirmish()
	attack := move(gs.Units[0], gs.Units[1].Position)
	attack.Type = AttackAction
	gs = ApplyAction(gs, attack)
	require.True(t, gs.InCombat())

	actions := AllowedActions(gs)
	require.Equal(t, []GameAction{{Type: EndTurnAction, Cost: Cost{AP: 0}}}, actions)
	for _, a := range actions {
		require.Empty(t, ValidateAction(gs, a), "Every enumerated action must validate")
		require.Equal(t, gs, ApplyAction(gs, a), "The turn ends only when the combat is resolved")
	}
}

func TestApplyAction(t *testing.T) {
	t.Run("move relocates and marks the unit", func(t *testing.T) {
		gs := skirmish()
		before := gs.Copy()
		next := ApplyAction(gs, move(gs.Units[0], Position{X: 2, Y: 4}))

		require.Equal(t, Position{X: 2, Y: 4}, next.Units[0].Position)
		require.True(t, next.Units[0].HasMoved)
		require.Equal(t, Light, next.Active, "MOVE alone does not end the turn")
		require.Equal(t, before, gs, "Input state must not change")
	})

	t.Run("attack opens combat on the target field", func(t *testing.T) {
		gs := skirmish()
		attack := move(gs.Units[0], gs.Units[1].Position)
		attack.Type = AttackAction
		next := ApplyAction(gs, attack)

		c, ok := next.PendingCombat()
		require.True(t, ok)
		require.Equal(t, "lk", c.Attacker.ID)
		require.Equal(t, "dg", c.Defender.ID)
		require.Equal(t, Classify(2, 5), c.FieldType)
		require.False(t, gs.InCombat())
	})

	t.Run("end turn advances the clock", func(t *testing.T) {
		gs := skirmish()
		gs.Units[0].HasMoved = true
		next := ApplyAction(gs, GameAction{Type: EndTurnAction})

		require.Equal(t, Dark, next.Active)
		require.Equal(t, 2, next.Turn)
		require.Equal(t, 1, next.Cycle.Step)
		require.False(t, next.Units[0].HasMoved)
		require.True(t, gs.Units[0].HasMoved)
	})

	t.Run("end turn wraps the cycle", func(t *testing.T) {
		gs := skirmish()
		gs.Cycle.Step = 19
		require.Equal(t, 0, ApplyAction(gs, GameAction{Type: EndTurnAction}).Cycle.Step)
	})

	t.Run("spell is a no-op", func(t *testing.T) {
		gs := skirmish()
		require.Equal(t, gs, ApplyAction(gs, GameAction{Type: SpellAction, UnitID: "lk"}))
	})
}

func TestResolvePendingCombat(t *testing.T) {
	t.Run("requires combat", func(t *testing.T) {
		_, _, err := ResolvePendingCombat(skirmish())
		require.ErrorIs(t, err, ErrNoCombat)
	})

	t.Run("loser is removed and the winner advances", func(t *testing.T) {
		gs := skirmish()
		gs.Units[1].Health = 10
		attack := move(gs.Units[0], gs.Units[1].Position)
		attack.Type = AttackAction
		gs = ApplyAction(gs, attack)

		next, res, err := ResolvePendingCombat(gs)
		require.NoError(t, err)
		require.Equal(t, "lk", res.Winner.ID)
		require.Equal(t, "dg", res.Loser.ID)
		require.Greater(t, res.DamageDealt, 0.0)

		require.Len(t, next.Units, 1)
		require.Equal(t, Position{X: 2, Y: 5}, next.Units[0].Position)
		require.False(t, next.InCombat())
		require.Equal(t, Dark, next.Active)
		require.Len(t, gs.Units, 2, "Input state must not change")
	})

	t.Run("mutual destruction removes both pieces", func(t *testing.T) {
		gs := skirmish()
		gs.Units[0].Health = 10
		gs.Units[1].Health = 10
		attack := move(gs.Units[0], gs.Units[1].Position)
		attack.Type = AttackAction
		gs = ApplyAction(gs, attack)

		next, res, err := ResolvePendingCombat(gs)
		require.NoError(t, err)
		require.Equal(t, "lk", res.Winner.ID, "The attacker wins mutual destruction")
		require.Zero(t, res.Winner.Health)
		require.Empty(t, next.Units, "Pieces at zero health leave the board")
		require.False(t, next.InCombat())
		require.Equal(t, Dark, next.Active)
	})
}
