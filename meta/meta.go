// meta/meta.go
package meta

import "time"

// MAX_TURNS caps a self-play match; reaching it ends the match without a winner.
const MAX_TURNS = 300

// DEFAULT_DIFFICULTY is the AI difficulty used when none is configured.
const DEFAULT_DIFFICULTY = "normal"

// DEFAULT_METRICS_DIR is where experiment CSV files are written.
const DEFAULT_METRICS_DIR = "experiments"

// NORMAL_BUDGET and EXPERT_BUDGET are the soft evaluation latency targets.
const NORMAL_BUDGET = 100 * time.Millisecond

const EXPERT_BUDGET = 200 * time.Millisecond

// GAMES_PER_MATCHUP is the number of games played per experiment matchup.
const GAMES_PER_MATCHUP = 10
