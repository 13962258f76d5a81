package experiments

import (
	"fmt"

	"archon/agent"
	"archon/engine"
	"archon/experiments/metrics"
	"archon/game"
	"archon/meta"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

type Option func(e *experiment)

func WithGames(games int) Option {
	return func(e *experiment) {
		if games > 0 {
			e.games = games
		}
	}
}

func WithMaxTurns(turns int) Option {
	return func(e *experiment) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

// WithSeed sets the base seed. Game i of a matchup seeds each agent with its
// config seed plus i.
func WithSeed(seed uint64) Option {
	return func(e *experiment) {
		e.seed = seed
	}
}

// WithOpening names the opening every game starts from.
func WithOpening(name string) Option {
	return func(e *experiment) {
		e.opening = name
	}
}

// WithOutput stores the CSV files on fs under dir.
func WithOutput(fs afero.Fs, dir string) Option {
	return func(e *experiment) {
		e.fs = fs
		e.dir = dir
	}
}

type experiment struct {
	games    int
	maxTurns int
	seed     uint64
	opening  string
	fs       afero.Fs
	dir      string
}

// Report holds everything an experiment stored.
type Report struct {
	Dir     string
	Configs []metrics.AgentConfig
	Games   []metrics.GameRecord
	Moves   []metrics.MoveRecord
}

func newExperiment(options ...Option) *experiment {
	e := &experiment{
		games:    meta.GAMES_PER_MATCHUP,
		maxTurns: meta.MAX_TURNS,
		opening:  game.OpeningFrontLine,
		fs:       afero.NewOsFs(),
		dir:      meta.DEFAULT_METRICS_DIR,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *experiment) configs() []metrics.AgentConfig {
	return []metrics.AgentConfig{
		{ID: 1, Difficulty: agent.Beginner.String(), Seed: e.seed},
		{ID: 2, Difficulty: agent.Normal.String(), Seed: e.seed + 1000},
		{ID: 3, Difficulty: agent.Expert.String(), Seed: e.seed + 2000},
	}
}

// RunDifficultyExperiment pairs every difficulty against every other one,
// once with each side starting.
func RunDifficultyExperiment(options ...Option) (*Report, error) {
	e := newExperiment(options...)
	configs := e.configs()

	matchUps := [][]metrics.AgentConfig{}
	for _, light := range configs {
		for _, dark := range configs {
			if light.ID != dark.ID {
				matchUps = append(matchUps, []metrics.AgentConfig{light, dark})
			}
		}
	}

	return e.run("difficulty", configs, matchUps)
}

func (e *experiment) run(name string, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) (*Report, error) {
	if _, err := game.NewOpening(e.opening, 0); err != nil {
		return nil, err
	}
	report := &Report{Configs: configs}

	log.Info().Msgf("starting %s experiment from the %s opening...", name, e.opening)

	for mi, matchup := range matchUps {
		light, dark := matchup[0], matchup[1]

		log.Info().Msgf("starting matchup %d of %d between light=%+v and dark=%+v...", mi+1, len(matchUps), light, dark)

		for i := 0; i < e.games; i++ {
			winner, gameMetric, moveMetrics := e.runGame(light, dark, uint64(i))
			report.Games = append(report.Games, metrics.GameRecord{
				Light:      light.ID,
				Dark:       dark.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				report.Moves = append(report.Moves, metrics.MoveRecord{
					Game:       gameMetric.ID,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %q", mi+1, len(matchUps), i+1, winner)
		}
	}

	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(e.fs, e.dir, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	report.Dir = writer.Dir()

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return nil, err
	}
	if err := writer.WriteGameRecords(report.Games); err != nil {
		return nil, err
	}
	if err := writer.WriteMoveRecords(report.Moves); err != nil {
		return nil, err
	}
	log.Info().Msgf("stored %d games and %d moves in %s", len(report.Games), len(report.Moves), report.Dir)

	return report, nil
}

// runGame plays a single game between two agents and returns the winner.
func (e *experiment) runGame(light, dark metrics.AgentConfig, index uint64) (string, metrics.GameMetric, []metrics.MoveMetric) {
	opening, err := game.NewOpening(e.opening, int64(e.seed+index))
	if err != nil {
		panic(fmt.Sprintf("opening vanished: %v", err))
	}
	m := engine.NewLocalMatch(
		newPlayer(light, index),
		newPlayer(dark, index),
		engine.WithMaxTurns(e.maxTurns),
		engine.WithEngineOptions(engine.WithState(opening)),
	)
	return m.Run()
}

func newPlayer(config metrics.AgentConfig, index uint64) *agent.Player {
	difficulty, err := agent.ParseDifficulty(config.Difficulty)
	if err != nil {
		panic(fmt.Sprintf("agent config %d: %v", config.ID, err))
	}
	return agent.NewPlayer(difficulty, agent.WithSeed(config.Seed+index), agent.WithMetrics())
}
