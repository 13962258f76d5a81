package game

// EvaluateMaterial tallies each side's remaining health, piece count and held
// power points to produce a relative score between -1 and 1 from the active
// side's perspective.
func EvaluateMaterial(gs GameState) float64 {
	healthScore, pieceScore := gs.materialScores()
	powerScore := normalize(float64(gs.PowerPointsHeld(gs.Active)), float64(gs.PowerPointsHeld(gs.Active.Opponent())))

	return (healthScore + pieceScore + powerScore) / 3.0
}

func (gs GameState) materialScores() (healthScore, pieceScore float64) {
	health := make(map[Side]float64)
	pieces := make(map[Side]float64)

	for _, u := range gs.Units {
		health[u.Side] += u.Health
		pieces[u.Side]++
	}

	current := gs.Active
	opponent := current.Opponent()
	healthScore = normalize(health[current], health[opponent])
	pieceScore = normalize(pieces[current], pieces[opponent])
	return healthScore, pieceScore
}

// normalize normalizes value relative to otherValue to a score between -1 and 1
func normalize(value float64, otherValue float64) float64 {
	total := value + otherValue
	if total == 0 {
		return 0
	}
	return (value - otherValue) / total
}
