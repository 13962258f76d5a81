package agent

import (
	"archon/experiments/metrics"
	"archon/game"
)

type Agent interface {
	// FindMove returns the chosen move, false when the active side has no
	// candidate, and performance metrics (if collected) of the evaluation
	FindMove(state game.GameState) (game.Move, bool, metrics.EvaluationMetric)
}
