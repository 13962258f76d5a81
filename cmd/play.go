package cmd

import (
	"context"
	"fmt"
	"time"

	"archon/agent"
	"archon/engine"
	"archon/events"
	"archon/experiments/metrics"
	"archon/game"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	playLight      string
	playDark       string
	playSeed       uint64
	playMaxTurns   int
	playMetrics    bool
	playMetricsDir string
	playWorkers    bool
	playEvents     bool
	playOpening    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an AI vs AI match",
	Long: `Play a match between two AI players until a side wins or the turn limit is
reached. Difficulties default to ARCHON_DIFFICULTY. Light plays with the seed and
dark with the seed plus one, so a fixed seed replays the same match. Matches start
from the front line opening; the standard opening has light on three power points
already.

Examples:
  archon play --light expert --dark beginner --seed 42
  archon play --metrics --metrics-dir out
  archon play --workers --events --log-level debug`,
	Args: cobra.NoArgs,
	RunE: playHandler,
}

func playHandler(cmd *cobra.Command, args []string) error {
	light, err := difficultyFlag(cmd, "light", playLight)
	if err != nil {
		return err
	}
	dark, err := difficultyFlag(cmd, "dark", playDark)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if cmd.Flags().Changed("seed") {
		seed = playSeed
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	maxTurns := cfg.MaxTurns
	if cmd.Flags().Changed("max-turns") {
		maxTurns = playMaxTurns
	}

	configs := []metrics.AgentConfig{
		{ID: 1, Difficulty: light.String(), Seed: seed},
		{ID: 2, Difficulty: dark.String(), Seed: seed + 1},
	}
	lightAgent, closeLight := newAgent(light, configs[0].Seed)
	defer closeLight()
	darkAgent, closeDark := newAgent(dark, configs[1].Seed)
	defer closeDark()

	opening, err := game.NewOpening(playOpening, int64(seed))
	if err != nil {
		return err
	}

	options := []engine.MatchOption{
		engine.WithMaxTurns(maxTurns),
		engine.WithEngineOptions(engine.WithState(opening)),
	}
	var gameOver <-chan struct{}
	if playEvents {
		bus := events.NewBus()
		defer bus.Close()
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		gameOver, err = logEvents(ctx, bus)
		if err != nil {
			return err
		}
		options = append(options, engine.WithEvents(bus))
	}

	m := engine.NewLocalMatch(lightAgent, darkAgent, options...)
	winner, gameMetric, moveMetrics := m.Run()

	if gameOver != nil {
		select {
		case <-gameOver:
		case <-time.After(time.Second):
			log.Warn().Msg("game over event was not delivered")
		}
	}

	out := cmd.OutOrStdout()
	if winner != "" {
		fmt.Fprintf(out, "%s wins on turn %d (%d moves, %d combats)\n", winner, gameMetric.Turns, gameMetric.TotalMoves, gameMetric.Combats)
	} else {
		fmt.Fprintf(out, "no winner after %d turns (%d moves, %d combats)\n", maxTurns, gameMetric.TotalMoves, gameMetric.Combats)
	}

	if !playMetrics {
		return nil
	}
	dir := cfg.MetricsDir
	if cmd.Flags().Changed("metrics-dir") {
		dir = playMetricsDir
	}
	return writeMatch(dir, configs, gameMetric, moveMetrics)
}

func difficultyFlag(cmd *cobra.Command, name, value string) (agent.Difficulty, error) {
	if !cmd.Flags().Changed(name) {
		return cfg.Difficulty, nil
	}
	d, err := agent.ParseDifficulty(value)
	if err != nil {
		return d, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

// newAgent returns a player, wrapped in a worker when --workers is set,
// together with its cleanup.
func newAgent(d agent.Difficulty, seed uint64) (agent.Agent, func()) {
	player := agent.NewPlayer(d, agent.WithSeed(seed), agent.WithMetrics())
	if !playWorkers {
		return player, func() {}
	}
	w := agent.NewWorker(player)
	return w, w.Close
}

// logEvents logs every event on bus. The returned channel is closed once the
// game over event has been handled.
func logEvents(ctx context.Context, bus *events.Bus) (<-chan struct{}, error) {
	for _, topic := range []string{events.TopicTurnEnded, events.TopicCombatResolved} {
		if err := bus.Subscribe(ctx, topic, logHandler(topic)); err != nil {
			return nil, err
		}
	}

	done := make(chan struct{})
	handler := logHandler(events.TopicGameOver)
	err := bus.Subscribe(ctx, events.TopicGameOver, func(matchID string, payload []byte) error {
		defer close(done)
		return handler(matchID, payload)
	})
	if err != nil {
		return nil, err
	}
	return done, nil
}

func logHandler(topic string) events.Handler {
	return func(matchID string, payload []byte) error {
		log.Info().Str("match", matchID).RawJSON("event", payload).Msg(topic)
		return nil
	}
}

func writeMatch(dir string, configs []metrics.AgentConfig, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric) error {
	writer, err := metrics.NewWriter(fs, dir, "play")
	if err != nil {
		return err
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return err
	}
	records := []metrics.GameRecord{{Light: configs[0].ID, Dark: configs[1].ID, GameMetric: gameMetric}}
	if err := writer.WriteGameRecords(records); err != nil {
		return err
	}
	moves := make([]metrics.MoveRecord, 0, len(moveMetrics))
	for _, mm := range moveMetrics {
		moves = append(moves, metrics.MoveRecord{Game: gameMetric.ID, MoveMetric: mm})
	}
	if err := writer.WriteMoveRecords(moves); err != nil {
		return err
	}
	log.Info().Msgf("stored match metrics in %s", writer.Dir())
	return nil
}

func init() {
	playCmd.Flags().StringVar(&playLight, "light", "", "difficulty of the light player")
	playCmd.Flags().StringVar(&playDark, "dark", "", "difficulty of the dark player")
	playCmd.Flags().Uint64Var(&playSeed, "seed", 0, "base seed, 0 picks a time based seed")
	playCmd.Flags().IntVar(&playMaxTurns, "max-turns", 0, "turn limit")
	playCmd.Flags().BoolVar(&playMetrics, "metrics", false, "store CSV metrics of the match")
	playCmd.Flags().StringVar(&playMetricsDir, "metrics-dir", "", "directory for CSV metrics")
	playCmd.Flags().BoolVar(&playWorkers, "workers", false, "evaluate each player on its own worker")
	playCmd.Flags().BoolVar(&playEvents, "events", false, "log match events")
	playCmd.Flags().StringVar(&playOpening, "opening", game.OpeningFrontLine, "opening to start from: front-line or standard")
	rootCmd.AddCommand(playCmd)
}
