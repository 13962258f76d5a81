package experiments

import (
	"time"

	"archon/agent"
	"archon/experiments/metrics"
	"archon/meta"
)

// LatencySummary aggregates the evaluation times of one difficulty.
type LatencySummary struct {
	Difficulty string
	Moves      int
	Mean       time.Duration
	Max        time.Duration
	Budget     time.Duration
	OverBudget int
}

// Budget is the soft evaluation latency target for d.
func Budget(d agent.Difficulty) time.Duration {
	if d == agent.Expert {
		return meta.EXPERT_BUDGET
	}
	return meta.NORMAL_BUDGET
}

// RunLatencyExperiment plays every difficulty against itself and reports
// how evaluation times compare to the budget.
func RunLatencyExperiment(options ...Option) (*Report, []LatencySummary, error) {
	e := newExperiment(options...)
	configs := e.configs()

	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{config, config})
	}

	report, err := e.run("latency", configs, matchUps)
	if err != nil {
		return nil, nil, err
	}
	return report, Summarize(report.Moves), nil
}

// Summarize groups move records by difficulty in Beginner, Normal, Expert
// order. Difficulties without moves are left out.
func Summarize(moves []metrics.MoveRecord) []LatencySummary {
	var summaries []LatencySummary
	for _, d := range []agent.Difficulty{agent.Beginner, agent.Normal, agent.Expert} {
		s := LatencySummary{Difficulty: d.String(), Budget: Budget(d)}
		var total time.Duration
		for _, mr := range moves {
			if mr.Difficulty != s.Difficulty {
				continue
			}
			s.Moves++
			total += mr.Duration
			s.Max = max(s.Max, mr.Duration)
			if mr.Duration > s.Budget {
				s.OverBudget++
			}
		}
		if s.Moves == 0 {
			continue
		}
		s.Mean = total / time.Duration(s.Moves)
		summaries = append(summaries, s)
	}
	return summaries
}
