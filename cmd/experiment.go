package cmd

import (
	"fmt"
	"text/tabwriter"

	"archon/experiments"
	"archon/game"
	"archon/meta"

	"github.com/spf13/cobra"
)

var (
	experimentGames      int
	experimentMaxTurns   int
	experimentSeed       uint64
	experimentMetricsDir string
	experimentOpening    string
)

var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Run self play experiments and store CSV metrics",
	Long: `Run batches of AI vs AI games and store agent configs, game records and
move records as CSV files in a timestamped directory.

Examples:
  archon experiment difficulty --games 20
  archon experiment latency --max-turns 100`,
}

var experimentDifficultyCmd = &cobra.Command{
	Use:   "difficulty",
	Short: "Pair every difficulty against every other one",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := experiments.RunDifficultyExperiment(experimentOptions(cmd)...)
		if err != nil {
			return err
		}

		wins := map[string]int{}
		for _, g := range report.Games {
			wins[g.Winner]++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d games stored in %s: light %d, dark %d, no winner %d\n",
			len(report.Games), report.Dir, wins["light"], wins["dark"], wins[""])
		return nil
	},
}

var experimentLatencyCmd = &cobra.Command{
	Use:   "latency",
	Short: "Measure evaluation times against the latency budget",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, summaries, err := experiments.RunLatencyExperiment(experimentOptions(cmd)...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d games stored in %s\n", len(report.Games), report.Dir)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "difficulty\tmoves\tmean\tmax\tbudget\tover budget")
		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%d\n", s.Difficulty, s.Moves, s.Mean, s.Max, s.Budget, s.OverBudget)
		}
		return tw.Flush()
	},
}

func experimentOptions(cmd *cobra.Command) []experiments.Option {
	maxTurns := cfg.MaxTurns
	if cmd.Flags().Changed("max-turns") {
		maxTurns = experimentMaxTurns
	}
	seed := cfg.Seed
	if cmd.Flags().Changed("seed") {
		seed = experimentSeed
	}
	dir := cfg.MetricsDir
	if cmd.Flags().Changed("metrics-dir") {
		dir = experimentMetricsDir
	}
	return []experiments.Option{
		experiments.WithGames(experimentGames),
		experiments.WithMaxTurns(maxTurns),
		experiments.WithSeed(seed),
		experiments.WithOpening(experimentOpening),
		experiments.WithOutput(fs, dir),
	}
}

func init() {
	flags := experimentCmd.PersistentFlags()
	flags.IntVar(&experimentGames, "games", meta.GAMES_PER_MATCHUP, "games per matchup")
	flags.IntVar(&experimentMaxTurns, "max-turns", 0, "turn limit per game")
	flags.Uint64Var(&experimentSeed, "seed", 0, "base seed")
	flags.StringVar(&experimentMetricsDir, "metrics-dir", "", "directory for CSV metrics")
	flags.StringVar(&experimentOpening, "opening", game.OpeningFrontLine, "opening every game starts from")

	experimentCmd.AddCommand(experimentDifficultyCmd, experimentLatencyCmd)
	rootCmd.AddCommand(experimentCmd)
}
