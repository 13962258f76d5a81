package game

import "math"

const (
	FieldAdvantage    = 1.25
	FieldDisadvantage = 0.85
)

// CombatResult is what an engagement reports back to callers.
type CombatResult struct {
	Winner      Piece   `json:"winner"`
	Loser       Piece   `json:"loser"`
	DamageDealt float64 `json:"damageDealt"`
}

// CombatOutcome is the full result of ResolveCombat: both pieces after the
// exchange plus the damage each side dealt.
type CombatOutcome struct {
	Attacker       Piece
	Defender       Piece
	AttackerDamage float64
	DefenderDamage float64
	AttackerWon    bool
	DamageDealt    float64
}

// Result reports the outcome as winner and loser.
func (o CombatOutcome) Result() CombatResult {
	if o.AttackerWon {
		return CombatResult{Winner: o.Attacker, Loser: o.Defender, DamageDealt: o.DamageDealt}
	}
	return CombatResult{Winner: o.Defender, Loser: o.Attacker, DamageDealt: o.DamageDealt}
}

// FieldMultiplier scales damage for side fighting on field.
func FieldMultiplier(side Side, field Field) float64 {
	controller, ok := field.Controller()
	switch {
	case !ok:
		return 1.0
	case controller == side:
		return FieldAdvantage
	default:
		return FieldDisadvantage
	}
}

// EffectiveDamage is the base damage of p adjusted for the field.
func EffectiveDamage(p Piece, field Field) float64 {
	return p.Stats().Damage * FieldMultiplier(p.Side, field)
}

// ResolveCombat exchanges damage between attacker and defender on field.
// Damage is applied simultaneously. The attacker wins ties in mutual
// destruction, the defender wins ties in remaining health.
func ResolveCombat(attacker, defender Piece, field Field) CombatOutcome {
	out := CombatOutcome{
		Attacker:       attacker,
		Defender:       defender,
		AttackerDamage: EffectiveDamage(attacker, field),
		DefenderDamage: EffectiveDamage(defender, field),
	}
	out.Defender.Health = math.Max(0, defender.Health-out.AttackerDamage)
	out.Attacker.Health = math.Max(0, attacker.Health-out.DefenderDamage)

	attackerDead := out.Attacker.Health <= 0
	defenderDead := out.Defender.Health <= 0
	switch {
	case attackerDead && defenderDead, defenderDead:
		out.AttackerWon = true
		out.DamageDealt = out.AttackerDamage
	case attackerDead:
		out.AttackerWon = false
		out.DamageDealt = out.DefenderDamage
	default:
		out.AttackerWon = out.Attacker.Health > out.Defender.Health
		out.DamageDealt = math.Max(out.AttackerDamage, out.DefenderDamage)
	}
	return out
}
